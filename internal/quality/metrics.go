// Package quality computes extraction completeness and confidence metrics.
// Assessment is read-only over the extracted entities; it never mutates or
// filters them, only describes them.
package quality

import (
	"math"

	"github.com/mtb-report-extractor/internal/domain"
)

// Warning strings are fixed so downstream consumers can match on them.
const (
	WarnNoVariants        = "No variants extracted"
	WarnDiagnosisUnmapped = "Diagnosis not mapped to ICD-O"
	WarnPatientIncomplete = "Patient information incomplete"
	WarnTMBMissing        = "TMB not found"
)

// Field accounting: six report-level fields (patient id, age, sex, primary
// diagnosis, stage, TMB) plus three per variant (classification, gene code,
// VAF).
const (
	baseFields       = 6
	perVariantFields = 3
)

// Assess computes the quality metrics for one extraction. Completeness is
// the filled fraction of the expected fields, as a percentage rounded to
// one decimal.
func Assess(
	patient domain.PatientRecord,
	diagnosis domain.DiagnosisRecord,
	variants []domain.VariantRecord,
	recommendations []domain.TherapeuticRecommendation,
	tmb *float64,
) domain.QualityMetrics {
	m := domain.QualityMetrics{
		TotalFieldsExpected: baseFields + perVariantFields*len(variants),
		VariantsFound:       len(variants),
		DrugsIdentified:     len(recommendations),
		DiagnosisMapped:     diagnosis.VocabularyCode != nil,
		PatientComplete:     patient.IsComplete(),
	}

	filled := 0
	if patient.ID != "" {
		filled++
	}
	if patient.Age > 0 {
		filled++
	}
	if patient.Sex == domain.MALE || patient.Sex == domain.FEMALE {
		filled++
	}
	if diagnosis.PrimaryDiagnosis != "" {
		filled++
	}
	if diagnosis.Stage != "" {
		filled++
	}
	if tmb != nil {
		filled++
	}

	for _, v := range variants {
		if v.Classification.IsKnown() {
			m.VariantsClassified++
			filled++
		}
		if v.GeneVocabularyCode != nil {
			m.VariantsWithGeneCode++
			filled++
		}
		if v.VAF != nil {
			m.VariantsWithVAF++
			filled++
		}
	}

	for _, r := range recommendations {
		if r.DrugVocabularyCode != nil {
			m.DrugsMapped++
		}
	}

	m.FilledFields = filled
	m.CompletenessPct = round1(100 * float64(filled) / float64(m.TotalFieldsExpected))

	if len(variants) == 0 {
		m.AddWarning(WarnNoVariants)
	}
	if !m.DiagnosisMapped {
		m.AddWarning(WarnDiagnosisUnmapped)
	}
	if !m.PatientComplete {
		m.AddWarning(WarnPatientIncomplete)
	}
	if tmb == nil {
		m.AddWarning(WarnTMBMissing)
	}

	return m
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
