package extract

import (
	"regexp"

	"github.com/sirupsen/logrus"

	"github.com/mtb-report-extractor/internal/domain"
	"github.com/mtb-report-extractor/internal/normalize"
)

// Fusion notations, bilingual. Two-gene patterns capture both partners;
// single-gene patterns (fusion detected / rearrangement) capture one.
var fusionPatterns = []*regexp.Regexp{
	// fusione ALK::EML4
	regexp.MustCompile(`(?i)fusione\s+(\w+)::(\w+)`),
	// riarrangiamento RET/KIF5B, riarrangiamento ALK:EML4
	regexp.MustCompile(`(?i)riarrangiamento\s+(\w+)[/:]+(\w+)`),
	// EML4-ALK fusion
	regexp.MustCompile(`(?i)(\w+)-(\w+)\s+fusion`),
	// FGFR3(17)::TACC3(11) with exon numbers
	regexp.MustCompile(`(?i)(\w+)\s*\(\d+\)\s*::\s*(\w+)\s*\(\d+\)`),
	// ALK fusion detected / fusione positiva
	regexp.MustCompile(`(?i)\b(\w+)\s+fusion\s+(?:detected|identified|positiv[oa])`),
	// ROS1 rearrangement
	regexp.MustCompile(`(?i)\b(\w+)\s+rearrangement`),
}

// extractFusions finds gene fusion mentions. A fusion is accepted when
// either partner resolves at the vocabulary service. Classification is
// Pathogenic by policy, not inferred from evidence; the record's gene
// encodes both partners as "GENE1::GENE2".
func (e *Extractor) extractFusions(text string) []domain.VariantRecord {
	var fusions []domain.VariantRecord

	for _, pattern := range fusionPatterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			gene1 := normalize.GeneSymbol(m[1])
			gene2 := ""
			if len(m) > 2 {
				gene2 = normalize.GeneSymbol(m[2])
			}

			if !e.resolvesGene(gene1) && !e.resolvesGene(gene2) {
				e.logger.WithFields(logrus.Fields{
					"gene1": gene1, "gene2": gene2,
				}).Debug("Discarding fusion with no resolvable partner")
				continue
			}

			name := gene1
			if gene2 != "" {
				name = gene1 + "::" + gene2
			}

			fusions = append(fusions, domain.VariantRecord{
				Gene:               name,
				ProteinChange:      "fusion",
				Classification:     domain.PATHOGENIC,
				GeneVocabularyCode: e.vocab.LookupGene(gene1),
			})
		}
	}

	return fusions
}

func (e *Extractor) resolvesGene(gene string) bool {
	if gene == "" {
		return false
	}
	return e.vocab.IsKnownGene(gene) || e.vocab.LookupGene(gene) != nil
}
