package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// maxTMB bounds plausible tumor mutational burden values in mut/Mb.
const maxTMB = 1000

// TMB: 12.5 mut/Mb, tumor mutational burden 8, carico mutazionale: 15,2
var tmbPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bTMB\s*[:=]?\s*(\d+(?:[.,]\d+)?)`),
	regexp.MustCompile(`(?i)tumor\s+mutational\s+burden\s*[:=]?\s*(\d+(?:[.,]\d+)?)`),
	regexp.MustCompile(`(?i)carico\s+mutazionale\s*[:=]?\s*(\d+(?:[.,]\d+)?)`),
}

// ExtractTMB returns the tumor mutational burden in mut/Mb, or nil when no
// mention parses to a value in (0, 1000).
func (e *Extractor) ExtractTMB(text string) *float64 {
	for _, p := range tmbPatterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		raw := strings.Replace(m[1], ",", ".", 1)
		val, err := strconv.ParseFloat(raw, 64)
		if err != nil || val <= 0 || val >= maxTMB {
			continue
		}
		return &val
	}
	return nil
}
