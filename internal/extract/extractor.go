// Package extract implements the pattern-matching cascade that locates
// clinical and genomic entities in free-form MTB report text. Extraction is
// pure and deterministic: every pattern family is evaluated, matches are
// unioned, and redundancy is resolved by the dedup fold. Extractors return
// empty results when nothing matches, never errors.
package extract

import (
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mtb-report-extractor/internal/domain"
)

// Extractor runs the ordered pattern-family cascade against report text.
// It holds no per-call state; one instance serves concurrent pipelines.
type Extractor struct {
	vocab     domain.VocabularyService
	logger    *logrus.Logger
	drugRules []drugRule
}

// NewExtractor builds an extractor bound to a loaded vocabulary service.
// Drug patterns are compiled once here from the vocabulary's drug names.
func NewExtractor(vocab domain.VocabularyService, logger *logrus.Logger) *Extractor {
	return &Extractor{
		vocab:     vocab,
		logger:    logger,
		drugRules: compileDrugRules(vocab.DrugNames()),
	}
}

// ExtractVariants runs all variant pattern families plus the fusion, exon
// and CNV sub-extractors, gates candidates on gene-symbol validity, folds
// duplicates, and enriches surviving records with proximity-found VAF
// values. The result order is deterministic: registry order, then text
// order within each family.
func (e *Extractor) ExtractVariants(text string) []domain.VariantRecord {
	acc := newDedupAccumulator()

	for _, rule := range variantRules {
		for _, m := range rule.pattern.FindAllStringSubmatch(text, -1) {
			candidate := rule.build(m)
			if candidate == nil || candidate.Gene == "" {
				continue
			}
			if !e.gateGene(candidate) {
				continue
			}
			acc.add(candidate)
		}
	}

	acc.addAll(e.extractFusions(text))
	acc.addAll(e.extractExonAlterations(text))
	acc.addAll(e.extractCNVs(text))

	variants := acc.records()
	e.enrichVAF(variants, text)
	return variants
}

// gateGene keeps a candidate only when its gene token is a known symbol or
// itself resolves to a vocabulary code. Unmapped gene-like tokens are
// discarded silently (logged at debug only), suppressing the false
// positives inherent to low-arity word+token patterns.
func (e *Extractor) gateGene(v *domain.VariantRecord) bool {
	code := e.vocab.LookupGene(v.Gene)
	if !e.vocab.IsKnownGene(v.Gene) && code == nil {
		e.logger.WithField("token", v.Gene).Debug("Discarding unmapped gene-like token")
		return false
	}
	v.GeneVocabularyCode = code
	return true
}

// parseVAF parses a percentage string into a VAF pointer, accepting only
// values in (0, 100]. Italian decimal commas are accepted. Out-of-range and
// empty input yield nil.
func parseVAF(s string) *float64 {
	s = strings.Replace(strings.TrimSpace(s), ",", ".", 1)
	if s == "" {
		return nil
	}
	val, err := strconv.ParseFloat(s, 64)
	if err != nil || val <= 0 || val > 100 {
		return nil
	}
	return &val
}
