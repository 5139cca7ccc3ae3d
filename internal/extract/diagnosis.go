package extract

import (
	"regexp"
	"strings"

	"github.com/mtb-report-extractor/internal/domain"
)

var (
	// Labeled diagnosis lines and narrative forms, bilingual. Ordered:
	// explicit labels outrank narrative phrases which outrank bare
	// morphology mentions.
	diagnosisPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)diagnosi\s*[:=]\s*([^\n.;]+)`),
		regexp.MustCompile(`(?i)diagnosis\s*[:=]\s*([^\n.;]+)`),
		regexp.MustCompile(`(?i)affett[oa]\s+da\s+([^\n.;]+)`),
		regexp.MustCompile(`(?i)diagnosed\s+with\s+([^\n.;]+)`),
		regexp.MustCompile(`(?i)quadro\s+compatibile\s+con\s+([^\n.;]+)`),
		regexp.MustCompile(`(?i)consistent\s+with\s+([^\n.;]+)`),
		regexp.MustCompile(`(?i)\b((?:adeno)?carcinoma\s+(?:\w+\s?){1,3})`),
		regexp.MustCompile(`(?i)\b((?:glioblastoma|melanoma|sarcoma|linfoma|leucemia|colangiocarcinoma)(?:\s+\w+){0,2})`),
	}

	// Stadio IIIA, Stage IV, Stadio: IIIB, stadio II B
	stagePattern = regexp.MustCompile(`(?i)\b(?:stadio|stage)\s*[:=]?\s*(IV|I{1,3})\s*([ABC])?\b`)

	// pT2aN1M0, T3 N1 M0, cT1N0M1a
	tnmPattern = regexp.MustCompile(`(?i)\b([pc]?T[0-4][a-c]?\s*N[0-3][a-c]?\s*M[01][a-c]?)\b`)

	// Istologia: adenocarcinoma / histology: squamous
	histologyPattern = regexp.MustCompile(`(?i)(?:istologia|histology|istotipo)\s*[:=]\s*([^\n.;]+)`)
)

// ExtractDiagnosis pulls the primary diagnosis, stage and histology. The
// first match in pattern priority order supplies the primary diagnosis; a
// TNM string is used as the stage only when no named stage is present.
// Vocabulary mapping failures leave the code nil, never drop the text.
func (e *Extractor) ExtractDiagnosis(text string) domain.DiagnosisRecord {
	var diagnosis domain.DiagnosisRecord

	for _, p := range diagnosisPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			diagnosis.PrimaryDiagnosis = strings.TrimSpace(m[1])
			break
		}
	}

	if m := stagePattern.FindStringSubmatch(text); m != nil {
		diagnosis.Stage = strings.ToUpper(m[1] + m[2])
	} else if m := tnmPattern.FindStringSubmatch(text); m != nil {
		diagnosis.Stage = strings.ReplaceAll(strings.ToUpper(m[1]), " ", "")
	}

	if m := histologyPattern.FindStringSubmatch(text); m != nil {
		diagnosis.Histology = strings.ToLower(strings.TrimSpace(m[1]))
	}

	if diagnosis.PrimaryDiagnosis != "" {
		diagnosis.VocabularyCode = e.vocab.LookupDiagnosis(diagnosis.PrimaryDiagnosis)
		if diagnosis.VocabularyCode == nil {
			e.logger.WithField("diagnosis", diagnosis.PrimaryDiagnosis).
				Debug("Diagnosis text not mapped to vocabulary")
		}
	}

	return diagnosis
}
