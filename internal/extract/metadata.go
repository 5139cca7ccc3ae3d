package extract

import (
	"regexp"
	"strings"

	"github.com/mtb-report-extractor/internal/normalize"
)

var (
	// Pannello NGS: FoundationOne CDx, NGS panel Oncomine, metodica: TruSight
	ngsMethodPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:pannello|panel)\s+NGS\s*[:=]?\s*([^\n.;,]+)`),
		regexp.MustCompile(`(?i)NGS\s+(?:pannello|panel)\s*[:=]?\s*([^\n.;,]+)`),
		regexp.MustCompile(`(?i)(?:metodica|method(?:ology)?)\s*[:=]\s*([^\n.;,]+)`),
	}

	// Data referto: 15/06/2024, report date 2024-06-15
	reportDatePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)data\s+(?:del\s+)?referto\s*[:=]?\s*(\d{1,4}[/.\-]\d{1,2}[/.\-]\d{1,4})`),
		regexp.MustCompile(`(?i)report\s+date\s*[:=]?\s*(\d{1,4}[/.\-]\d{1,2}[/.\-]\d{1,4})`),
	}
)

// ExtractNGSMethod returns the sequencing panel or method name, or "".
func (e *Extractor) ExtractNGSMethod(text string) string {
	for _, p := range ngsMethodPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// ExtractReportDate returns the report issue date in ISO form, or "".
func (e *Extractor) ExtractReportDate(text string) string {
	for _, p := range reportDatePatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return normalize.DateToISO(m[1])
		}
	}
	return ""
}
