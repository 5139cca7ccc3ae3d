package extract

import (
	"regexp"
	"strings"

	"github.com/mtb-report-extractor/internal/domain"
	"github.com/mtb-report-extractor/internal/normalize"
)

// variantRule pairs a pattern with an arity-specific builder. The registry
// below is ordered: every family is evaluated and the matches unioned, and
// the order doubles as dedup priority (first seen wins), so high-fidelity
// tabular matches outrank loose inline or narrative ones for the same
// variant.
type variantRule struct {
	name    string
	pattern *regexp.Regexp
	build   func(m []string) *domain.VariantRecord
}

var variantRules = []variantRule{
	{
		// Detailed narrative form: "variante nell'esone 19 del gene EGFR
		// (NM_005228.4): c.2241A>C, p.(Leu747Phe), frequenza allelica 11%"
		name:    "detailed_exon",
		pattern: regexp.MustCompile(`(?i)variante\s+nell['’]esone\s+\d+\s+del\s+gene\s+(\w+)\s*\([^)]+\):\s*c\.([^,\s]+)(?:,\s*p\.\(([^)]+)\))?(?:,?\s*frequenza\s+allelica\s+(\d+(?:\.\d+)?)%)?`),
		build: func(m []string) *domain.VariantRecord {
			v := &domain.VariantRecord{
				Gene:           normalize.GeneSymbol(m[1]),
				CDNAChange:     withPrefix(m[2], "c."),
				Classification: domain.UNCLASSIFIED,
				VAF:            parseVAF(m[4]),
			}
			if m[3] != "" {
				v.ProteinChange = withPrefix(m[3], "p.")
			}
			return v
		},
	},
	{
		// Full tabular row: EGFR c.2573T>G p.Leu858Arg Pathogenic 45%
		name: "tabular_full",
		pattern: regexp.MustCompile(`(?i)(\w+)\s+c\.([^\s|]+)\s+p\.([^\s|]+)\s+(Pathogenic|VUS|Benign|Risultati discordanti|Likely Pathogenic|Likely Benign)\s+(\d+(?:\.\d+)?)%`),
		build: func(m []string) *domain.VariantRecord {
			return &domain.VariantRecord{
				Gene:           normalize.GeneSymbol(m[1]),
				CDNAChange:     withPrefix(m[2], "c."),
				ProteinChange:  withPrefix(m[3], "p."),
				Classification: normalize.Classification(m[4]),
				VAF:            parseVAF(m[5]),
			}
		},
	},
	{
		// Inline mention with VAF: EGFR c.2573T>G 45%
		name:    "inline_vaf",
		pattern: regexp.MustCompile(`(?i)(\w+)\s+([cp]\.[^\s,]+).*?(\d+(?:\.\d+)?)%`),
		build: func(m []string) *domain.VariantRecord {
			v := &domain.VariantRecord{
				Gene:           normalize.GeneSymbol(m[1]),
				Classification: domain.UNCLASSIFIED,
				VAF:            parseVAF(m[3]),
			}
			change := strings.TrimSpace(m[2])
			if strings.HasPrefix(change, "c.") {
				v.CDNAChange = change
			} else {
				v.ProteinChange = change
			}
			return v
		},
	},
	{
		// Short protein form: EGFR L858R, BRAF V600E, KRAS G12D
		name:    "protein_short",
		pattern: regexp.MustCompile(`(?i)\b(\w+)\s+([A-Z]\d+[A-Z*_]+)\b`),
		build:   buildGeneProtein,
	},
	{
		// Parenthesized protein form: EGFR (L858R)
		name:    "protein_paren",
		pattern: regexp.MustCompile(`(?i)\b(\w+)\s*\(([A-Z]\d+[A-Z*]+)\)`),
		build:   buildGeneProtein,
	},
	{
		// Narrative: "mutazione di BRAF V600E"
		name:    "mutazione_di",
		pattern: regexp.MustCompile(`(?i)mutazione\s+(?:di\s+)?(\w+)[:\s]+([\w>*\-]+)`),
		build:   buildGeneProtein,
	},
	{
		// Narrative: "alterazione di KRAS G12C"
		name:    "alterazione_di",
		pattern: regexp.MustCompile(`(?i)alterazione\s+(?:di\s+)?(\w+)[:\s]+([\w>*\-]+)`),
		build:   buildGeneProtein,
	},
	{
		// Frameshift: TP53 p.Arg273fs, BRCA1 p.Gln1756fs*12
		name:    "frameshift",
		pattern: regexp.MustCompile(`(?i)\b(\w+)\s+p\.([A-Z][a-z]{2}\d+fs[*X]?\d*)\b`),
		build:   buildGeneProteinPrefixed,
	},
	{
		// Stop-gained/nonsense: TP53 p.Arg213*
		name:    "nonsense",
		pattern: regexp.MustCompile(`(?i)\b(\w+)\s+p\.([A-Z][a-z]{2}\d+\*)`),
		build:   buildGeneProteinPrefixed,
	},
	{
		// Splice variant: BRCA2 c.8488-1G>A
		name:    "splice",
		pattern: regexp.MustCompile(`(?i)\b(\w+)\s+c\.(\d+[-+]\d+[ACGT]>[ACGT])\b`),
		build:   buildGeneCDNA,
	},
	{
		// Duplication: EGFR c.2235_2249dup
		name:    "duplication",
		pattern: regexp.MustCompile(`(?i)\b(\w+)\s+c\.(\d+_\d+dup)`),
		build:   buildGeneCDNA,
	},
}

func buildGeneProtein(m []string) *domain.VariantRecord {
	return &domain.VariantRecord{
		Gene:           normalize.GeneSymbol(m[1]),
		ProteinChange:  strings.TrimSpace(m[2]),
		Classification: domain.UNCLASSIFIED,
	}
}

func buildGeneProteinPrefixed(m []string) *domain.VariantRecord {
	return &domain.VariantRecord{
		Gene:           normalize.GeneSymbol(m[1]),
		ProteinChange:  withPrefix(m[2], "p."),
		Classification: domain.UNCLASSIFIED,
	}
}

func buildGeneCDNA(m []string) *domain.VariantRecord {
	return &domain.VariantRecord{
		Gene:           normalize.GeneSymbol(m[1]),
		CDNAChange:     withPrefix(m[2], "c."),
		Classification: domain.UNCLASSIFIED,
	}
}

// withPrefix returns s prefixed unless it already carries the prefix.
func withPrefix(s, prefix string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, prefix) {
		return s
	}
	return prefix + s
}
