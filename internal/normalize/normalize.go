// Package normalize provides pure, total canonicalization functions for the
// field families extracted from MTB report text. Every function returns a
// best-effort canonical value and never fails.
package normalize

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mtb-report-extractor/internal/domain"
)

// classificationSynonyms maps lowercase classification text, including
// Italian clinical phrasing, to the fixed classification enum.
var classificationSynonyms = map[string]domain.Classification{
	"pathogenic":                       domain.PATHOGENIC,
	"patogenetica":                     domain.PATHOGENIC,
	"patogena":                         domain.PATHOGENIC,
	"likely pathogenic":                domain.LIKELY_PATHOGENIC,
	"probabilmente patogenetica":       domain.LIKELY_PATHOGENIC,
	"vus":                              domain.VUS,
	"uncertain significance":           domain.VUS,
	"variante a significato incerto":   domain.VUS,
	"variante di significato incerto":  domain.VUS,
	"likely benign":                    domain.LIKELY_BENIGN,
	"probabilmente benigna":            domain.LIKELY_BENIGN,
	"benign":                           domain.BENIGN,
	"benigna":                          domain.BENIGN,
}

var dateSeparators = regexp.MustCompile(`[/.\-]`)

// Classification maps free-text classification labels, including
// cross-lingual synonyms, to the fixed enum. Unrecognized input falls back
// to a cleaned, title-cased copy of the original rather than the unknown
// default, so no information is lost.
func Classification(text string) domain.Classification {
	cleaned := strings.TrimSpace(text)
	if cleaned == "" {
		return domain.UNCLASSIFIED
	}
	if c, ok := classificationSynonyms[strings.ToLower(cleaned)]; ok {
		return c
	}
	return domain.Classification(titleCase(cleaned))
}

// Sex maps a small fixed set of synonyms to M/F. Anything else passes
// through uppercased and unmapped; empty input is unknown.
func Sex(text string) domain.Sex {
	cleaned := strings.ToUpper(strings.TrimSpace(text))
	switch cleaned {
	case "":
		return domain.SEX_UNKNOWN
	case "M", "MALE", "MASCHIO":
		return domain.MALE
	case "F", "FEMALE", "FEMMINA":
		return domain.FEMALE
	}
	return domain.Sex(cleaned)
}

// DateToISO converts a day-first date ("DD/MM/YYYY", also "-" or "."
// separated) to ISO form "YYYY-MM-DD". Source documents are day-first by
// convention; genuinely ambiguous day/month values are not disambiguated or
// rejected. Input that is not three-part is returned unchanged.
func DateToISO(dateStr string) string {
	parts := dateSeparators.Split(strings.TrimSpace(dateStr), -1)
	if len(parts) != 3 {
		return dateStr
	}
	// Year-first input is already ISO-ordered.
	if len(parts[0]) == 4 {
		return fmt.Sprintf("%s-%s-%s", parts[0], zfill(parts[1]), zfill(parts[2]))
	}
	day, month, year := parts[0], parts[1], parts[2]
	return fmt.Sprintf("%s-%s-%s", year, zfill(month), zfill(day))
}

func zfill(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

// GeneSymbol uppercases a gene symbol and strips label artifacts.
func GeneSymbol(gene string) string {
	cleaned := strings.ToUpper(strings.TrimSpace(gene))
	cleaned = strings.TrimPrefix(cleaned, "GENE ")
	cleaned = strings.TrimPrefix(cleaned, "GENE:")
	return strings.TrimSpace(cleaned)
}

// DrugName lowercases a drug mention and strips dosage and parenthetical
// suffixes.
func DrugName(drug string) string {
	cleaned := strings.ToLower(strings.TrimSpace(drug))
	cleaned = dosageSuffix.ReplaceAllString(cleaned, "")
	cleaned = parenSuffix.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}

var (
	dosageSuffix = regexp.MustCompile(`\s+\d+\s*mg.*$`)
	parenSuffix  = regexp.MustCompile(`\s+\(.*\)$`)
)

// exonKindSynonyms maps Italian exon-alteration kinds to English.
var exonKindSynonyms = map[string]string{
	"inserzione":   "insertion",
	"delezione":    "deletion",
	"duplicazione": "duplication",
}

// ExonAlterationKind lowercases an exon alteration kind and translates the
// Italian forms to their English equivalents.
func ExonAlterationKind(kind string) string {
	cleaned := strings.ToLower(strings.TrimSpace(kind))
	if en, ok := exonKindSynonyms[cleaned]; ok {
		return en
	}
	return cleaned
}

// AgeFromBirthDate derives age in whole years from an ISO birth date at the
// given instant, accounting for a birthday not yet reached this year.
// Returns 0 when the date does not parse.
func AgeFromBirthDate(birthDateISO string, now time.Time) int {
	birth, err := time.Parse("2006-01-02", birthDateISO)
	if err != nil {
		return 0
	}
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

// titleCase uppercases the first letter of each space-separated word,
// lowercasing the rest, matching the fallback behavior for unrecognized
// classification labels.
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
