package extract

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/mtb-report-extractor/internal/domain"
	"github.com/mtb-report-extractor/internal/normalize"
)

// Copy-number thresholds. A reported copy number of 4 or more is called an
// amplification, 1 or fewer a deletion; anything between is kept as a
// neutral copy_number_variation annotated with the observed count.
const (
	amplificationCN = 4
	deletionCN      = 1
)

// cnvRule pairs a copy-number pattern with the alteration kind it asserts.
// kind "" means the kind is derived from the captured copy number.
type cnvRule struct {
	pattern *regexp.Regexp
	kind    string
	cnGroup int // submatch index of the copy number, 0 when absent
}

var cnvRules = []cnvRule{
	// MET amplification / amplificazione di MET
	{pattern: regexp.MustCompile(`(?i)\b(\w+)\s+amplifi(?:cation|cazione|ed)\b`), kind: "amplification"},
	{pattern: regexp.MustCompile(`(?i)amplificazione\s+(?:di\s+|del\s+gene\s+)?(\w+)`), kind: "amplification"},
	// homozygous deletion of CDKN2A / delezione omozigote di CDKN2A /
	// CDKN2A homozygous deletion: the homozygous forms keep their own
	// subtype and outrank the plain deletion forms.
	{pattern: regexp.MustCompile(`(?i)(?:homozygous|omozigot[ae])\s+deletion\s+(?:of\s+)?(\w+)`), kind: "homozygous_deletion"},
	{pattern: regexp.MustCompile(`(?i)delezione\s+omozigote\s+(?:di\s+|del\s+gene\s+)?(\w+)`), kind: "homozygous_deletion"},
	{pattern: regexp.MustCompile(`(?i)\b(\w+)\s+(?:homozygous|omozigot[ae])\s+del(?:etion|ezione)\b`), kind: "homozygous_deletion"},
	// CDKN2A deletion / PTEN delezione / delezione di PTEN
	{pattern: regexp.MustCompile(`(?i)\b(\w+)\s+del(?:etion|ezione)\b`), kind: "deletion"},
	{pattern: regexp.MustCompile(`(?i)delezione\s+(?:di\s+|del\s+gene\s+)?(\w+)`), kind: "deletion"},
	// PTEN LOH / LOH of PTEN
	{pattern: regexp.MustCompile(`(?i)\b(\w+)\s+LOH\b`), kind: "loh"},
	{pattern: regexp.MustCompile(`(?i)\bLOH\s+(?:of\s+|di\s+)?(\w+)`), kind: "loh"},
	// ERBB2 copy number: 8 / ERBB2 CN=8
	{pattern: regexp.MustCompile(`(?i)\b(\w+)\s+copy\s+number[:=\s]+(\d+)`), cnGroup: 2},
	{pattern: regexp.MustCompile(`(?i)\b(\w+)\s+CN[:=\s]+(\d+)`), cnGroup: 2},
}

// extractCNVs finds copy-number alterations. Amplifications, deletions
// (homozygous or not) and loss of heterozygosity are Pathogenic by policy;
// numeric copy-number
// observations that fall in the neutral band stay VUS.
func (e *Extractor) extractCNVs(text string) []domain.VariantRecord {
	var cnvs []domain.VariantRecord

	for _, rule := range cnvRules {
		for _, m := range rule.pattern.FindAllStringSubmatch(text, -1) {
			gene := normalize.GeneSymbol(m[1])
			if !e.resolvesGene(gene) {
				e.logger.WithField("token", gene).Debug("Discarding CNV with unmapped gene token")
				continue
			}

			kind := rule.kind
			raw := gene + " " + kind
			if rule.cnGroup > 0 {
				cn, err := strconv.Atoi(m[rule.cnGroup])
				if err != nil {
					continue
				}
				switch {
				case cn >= amplificationCN:
					kind = "amplification"
					raw = fmt.Sprintf("%s amplification (CN=%d)", gene, cn)
				case cn <= deletionCN:
					kind = "deletion"
					raw = fmt.Sprintf("%s deletion (CN=%d)", gene, cn)
				default:
					kind = fmt.Sprintf("copy_number_variation (CN=%d)", cn)
					raw = gene + " " + kind
				}
			}

			classification := domain.VUS
			switch kind {
			case "amplification", "deletion", "homozygous_deletion", "loh":
				classification = domain.PATHOGENIC
			}

			cnvs = append(cnvs, domain.VariantRecord{
				Gene:               gene,
				ProteinChange:      kind,
				Classification:     classification,
				RawText:            raw,
				GeneVocabularyCode: e.vocab.LookupGene(gene),
			})
		}
	}

	return cnvs
}
