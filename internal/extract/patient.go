package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mtb-report-extractor/internal/domain"
	"github.com/mtb-report-extractor/internal/normalize"
)

// maxAge bounds plausible patient ages. Values outside (0, 120] are treated
// as pattern noise and discarded.
const maxAge = 120

var (
	// Paziente: MTB-2024-001, ID Paziente: 12345, Patient ID: PZ-4521
	patientIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:id\s+|codice\s+)?(?:paziente|patient)\s*(?:id)?\s*[:=]\s*((?:[A-Z]{2,4}[-_]?)?\d{2,6}(?:[-_]\d{1,6})?)`),
		regexp.MustCompile(`(?i)\bID\s*[:=]\s*((?:[A-Z]{2,4}[-_]?)?\d{2,6}(?:[-_]\d{1,6})?)`),
	}

	// Età: 67, age 54, 62 anni
	agePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:et[àa]|age)\s*[:=]?\s*(\d{1,3})\b`),
		regexp.MustCompile(`(?i)\b(\d{1,3})\s+anni\b`),
		regexp.MustCompile(`(?i)\baged\s+(\d{1,3})\b`),
	}

	// Sesso: M, sex female, genere: femmina
	sexPattern = regexp.MustCompile(`(?i)(?:sesso|sex|genere|gender)\s*[:=]?\s*([A-Za-z]+)`)

	// nato il 12/03/1958, data di nascita: 1958-03-12, born 12.03.1958
	birthDatePattern = regexp.MustCompile(
		`(?i)(?:nat[oa]\s+il|data\s+di\s+nascita|date\s+of\s+birth|born)\s*[:=]?\s*(\d{1,4}[/.\-]\d{1,2}[/.\-]\d{1,4})`)
)

// ExtractPatient pulls demographics from the report header area (patterns
// run over the whole text; headers just match first). Age is taken from an
// explicit mention when present; the birth date is carried alongside so the
// pipeline can derive age when the explicit mention is missing.
func (e *Extractor) ExtractPatient(text string) domain.PatientRecord {
	patient := domain.PatientRecord{Sex: domain.SEX_UNKNOWN}

	for _, p := range patientIDPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			patient.ID = strings.ToUpper(strings.TrimSpace(m[1]))
			break
		}
	}

	for _, p := range agePatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			if age, err := strconv.Atoi(m[1]); err == nil && age > 0 && age <= maxAge {
				patient.Age = age
				break
			}
		}
	}

	if m := sexPattern.FindStringSubmatch(text); m != nil {
		if sex := normalize.Sex(m[1]); sex == domain.MALE || sex == domain.FEMALE {
			patient.Sex = sex
		}
	}

	if m := birthDatePattern.FindStringSubmatch(text); m != nil {
		patient.BirthDate = normalize.DateToISO(m[1])
	}

	return patient
}
