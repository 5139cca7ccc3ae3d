package extract

import (
	"regexp"

	"github.com/mtb-report-extractor/internal/domain"
	"github.com/mtb-report-extractor/internal/normalize"
)

// Exon-level alterations, bilingual: "EGFR esone 19 delezione",
// "MET exon 14 skipping", "EGFR exon 19 delins". Mixed-language forms
// ("esone 19 deletion") occur in translated reports, so the Italian label
// accepts the English kinds too.
var exonPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(\w+)\s+es(?:one)?\s+(\d+)\s+(inserzione|delezione|duplicazione|insertion|deletion|duplication|delins|skipping)`),
	regexp.MustCompile(`(?i)\b(\w+)\s+exon\s+(\d+)\s+(insertion|deletion|duplication|delins|skipping)`),
}

// extractExonAlterations finds exon-scoped structural alterations. The
// protein change is synthesized as "exon N <kind>" since no residue-level
// notation exists for these events; they are Pathogenic by policy.
func (e *Extractor) extractExonAlterations(text string) []domain.VariantRecord {
	var alts []domain.VariantRecord

	for _, pattern := range exonPatterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			gene := normalize.GeneSymbol(m[1])
			if !e.resolvesGene(gene) {
				e.logger.WithField("token", gene).Debug("Discarding exon alteration with unmapped gene token")
				continue
			}

			alts = append(alts, domain.VariantRecord{
				Gene:               gene,
				ProteinChange:      "exon " + m[2] + " " + normalize.ExonAlterationKind(m[3]),
				Classification:     domain.PATHOGENIC,
				RawText:            m[0],
				GeneVocabularyCode: e.vocab.LookupGene(gene),
			})
		}
	}

	return alts
}
