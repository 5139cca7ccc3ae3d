package extract

import (
	"regexp"

	"github.com/mtb-report-extractor/internal/domain"
)

// VAF proximity search. Records that arrive without an allele frequency get
// one chance at enrichment from the surrounding text, in fixed strategy
// order: a frequency in the clause after the gene symbol, then one in the
// clause after the mutation notation, then any percentage inside a narrow
// window around the mutation mention, falling back to a window around the
// gene for records whose notation is synthesized (fusions, CNVs, exon
// events) and never occurs verbatim in the text. Within a clause, labeled
// frequencies (VAF, f.a., frequenza allelica) outrank bare percentages. The
// first in-range value wins; the record keeps a nil VAF otherwise.

const vafWindow = 100

var (
	// f.a. 34%, VAF: 12.5%, frequenza allelica 8%
	labeledVAF = regexp.MustCompile(`(?i)(?:vaf|f\.?\s*a\.?|frequenza\s+allelica)\s*[:=]?\s*(\d+(?:[.,]\d+)?)\s*%`)
	plainVAF   = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*%`)
)

// enrichVAF fills missing allele frequencies in place. Records that already
// carry a VAF from their own pattern match are never overwritten.
func (e *Extractor) enrichVAF(variants []domain.VariantRecord, text string) {
	for i := range variants {
		if variants[i].VAF != nil {
			continue
		}
		if vaf := e.findVAF(text, &variants[i]); vaf != nil {
			variants[i].VAF = vaf
		}
	}
}

func (e *Extractor) findVAF(text string, v *domain.VariantRecord) *float64 {
	if vaf := clauseVAF(text, v.Gene); vaf != nil {
		return vaf
	}

	for _, token := range []string{v.ProteinChange, v.CDNAChange} {
		if token == "" {
			continue
		}
		if vaf := clauseVAF(text, token); vaf != nil {
			return vaf
		}
	}

	if vaf := windowVAF(text, anchorToken(v)); vaf != nil {
		return vaf
	}
	return windowVAF(text, v.Gene)
}

// clauseVAF finds a frequency in the same clause as the anchor (bounded by
// sentence or line breaks): labeled first, then a bare percentage.
func clauseVAF(text, anchor string) *float64 {
	prefix := `(?i)\b` + regexp.QuoteMeta(anchor) + `\b[^.\n]{0,80}?`

	if m := regexp.MustCompile(prefix + labeledVAF.String()).FindStringSubmatch(text); m != nil {
		if vaf := parseVAF(m[1]); vaf != nil {
			return vaf
		}
	}
	if m := regexp.MustCompile(prefix + plainVAF.String()).FindStringSubmatch(text); m != nil {
		if vaf := parseVAF(m[1]); vaf != nil {
			return vaf
		}
	}
	return nil
}

// windowVAF takes the first in-range percentage inside ±100 characters of
// the anchor's first occurrence.
func windowVAF(text, anchor string) *float64 {
	loc := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(anchor) + `\b`).FindStringIndex(text)
	if loc == nil {
		return nil
	}

	start, end := loc[0]-vafWindow, loc[1]+vafWindow
	if start < 0 {
		start = 0
	}
	if end > len(text) {
		end = len(text)
	}

	for _, m := range plainVAF.FindAllStringSubmatch(text[start:end], -1) {
		if vaf := parseVAF(m[1]); vaf != nil {
			return vaf
		}
	}
	return nil
}

// anchorToken picks the most specific token locating the variant in text.
func anchorToken(v *domain.VariantRecord) string {
	if v.ProteinChange != "" {
		return v.ProteinChange
	}
	if v.CDNAChange != "" {
		return v.CDNAChange
	}
	return v.Gene
}
