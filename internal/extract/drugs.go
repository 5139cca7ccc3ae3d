package extract

import (
	"regexp"
	"strings"

	"github.com/mtb-report-extractor/internal/domain"
	"github.com/mtb-report-extractor/internal/normalize"
)

// drugRule is one vocabulary-derived drug pattern. Rules are compiled once
// at extractor construction from the vocabulary drug list, in the list's
// deterministic order, so match results never depend on map iteration.
type drugRule struct {
	name    string
	pattern *regexp.Regexp
}

func compileDrugRules(names []string) []drugRule {
	rules := make([]drugRule, 0, len(names))
	for _, name := range names {
		rules = append(rules, drugRule{
			name:    name,
			pattern: regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(name) + `\b`),
		})
	}
	return rules
}

// ExtractRecommendations finds therapy mentions by matching every known
// drug name against the text. Each drug is reported at most once; the gene
// target is taken from a target gene co-mentioned in the text when the
// vocabulary lists several.
func (e *Extractor) ExtractRecommendations(text string) []domain.TherapeuticRecommendation {
	var recs []domain.TherapeuticRecommendation
	seen := make(map[string]bool)

	for _, rule := range e.drugRules {
		if !rule.pattern.MatchString(text) {
			continue
		}
		name := normalize.DrugName(rule.name)
		if seen[name] {
			continue
		}
		seen[name] = true

		rec := domain.TherapeuticRecommendation{Drug: name}
		if code := e.vocab.LookupDrug(name); code != nil {
			rec.DrugVocabularyCode = code
			rec.EvidenceLevel = code.EvidenceLevel
			rec.GeneTarget = pickTarget(code.Targets, text)
		}
		recs = append(recs, rec)
	}

	return recs
}

// pickTarget prefers a target gene that is itself mentioned in the text,
// falling back to the vocabulary's first listed target.
func pickTarget(targets []string, text string) string {
	if len(targets) == 0 {
		return ""
	}
	upper := strings.ToUpper(text)
	for _, t := range targets {
		if strings.Contains(upper, strings.ToUpper(t)) {
			return t
		}
	}
	return targets[0]
}
