package quality

import (
	"github.com/mtb-report-extractor/internal/domain"
)

// Section weights of the overall quality score. Variants carry the largest
// weight because they are the clinical payload of an MTB report.
const (
	weightPatient      = 0.20
	weightDiagnosis    = 0.25
	weightVariants     = 0.35
	weightTherapeutics = 0.20
)

// QualityLevel is a coarse human-readable grade of the overall score.
type QualityLevel string

const (
	LevelExcellent  QualityLevel = "Excellent"
	LevelGood       QualityLevel = "Good"
	LevelAcceptable QualityLevel = "Acceptable"
	LevelPoor       QualityLevel = "Poor"
	LevelCritical   QualityLevel = "Critical"
)

// DetailedQualityReport breaks the overall score down by report section.
// All scores are 0–100.
type DetailedQualityReport struct {
	PatientScore      float64      `json:"patient_score"`
	DiagnosisScore    float64      `json:"diagnosis_score"`
	VariantsScore     float64      `json:"variants_score"`
	TherapeuticsScore float64      `json:"therapeutics_score"`
	OverallScore      float64      `json:"overall_score"`
	Level             QualityLevel `json:"level"`
	Recommendations   []string     `json:"recommendations,omitempty"`
}

// AssessDetailed scores each report section and combines them with the
// fixed section weights. Sections scoring below 60 contribute an
// improvement recommendation.
func AssessDetailed(report *domain.ExtractionReport) DetailedQualityReport {
	d := DetailedQualityReport{
		PatientScore:      scorePatient(report.Patient),
		DiagnosisScore:    scoreDiagnosis(report.Diagnosis),
		VariantsScore:     scoreVariants(report.Variants),
		TherapeuticsScore: scoreTherapeutics(report.Recommendations),
	}
	d.OverallScore = round1(
		d.PatientScore*weightPatient +
			d.DiagnosisScore*weightDiagnosis +
			d.VariantsScore*weightVariants +
			d.TherapeuticsScore*weightTherapeutics)
	d.Level = levelFor(d.OverallScore)
	d.Recommendations = recommendations(d)
	return d
}

// scorePatient: id 30, age 25, sex 25, birth date 20.
func scorePatient(p domain.PatientRecord) float64 {
	score := 0.0
	if p.ID != "" {
		score += 30
	}
	if p.Age > 0 {
		score += 25
	}
	if p.Sex == domain.MALE || p.Sex == domain.FEMALE {
		score += 25
	}
	if p.BirthDate != "" {
		score += 20
	}
	return score
}

// scoreDiagnosis: text 40, vocabulary mapping 30, stage 20, histology 10.
func scoreDiagnosis(d domain.DiagnosisRecord) float64 {
	score := 0.0
	if d.PrimaryDiagnosis != "" {
		score += 40
	}
	if d.VocabularyCode != nil {
		score += 30
	}
	if d.Stage != "" {
		score += 20
	}
	if d.Histology != "" {
		score += 10
	}
	return score
}

// scoreVariants: presence 20, then 20 each (proportional over the variant
// list) for change notation, VAF, classification and gene mapping.
func scoreVariants(variants []domain.VariantRecord) float64 {
	if len(variants) == 0 {
		return 0
	}

	notated, withVAF, classified, mapped := 0, 0, 0, 0
	for _, v := range variants {
		if v.ProteinChange != "" || v.CDNAChange != "" {
			notated++
		}
		if v.VAF != nil {
			withVAF++
		}
		if v.Classification.IsKnown() {
			classified++
		}
		if v.GeneVocabularyCode != nil {
			mapped++
		}
	}

	n := float64(len(variants))
	score := 20 +
		20*float64(notated)/n +
		20*float64(withVAF)/n +
		20*float64(classified)/n +
		20*float64(mapped)/n
	return round1(score)
}

// scoreTherapeutics: presence 30, drug mapping 40, gene targets 20,
// evidence levels 10, each proportional. A report with no recommendations
// scores the neutral 50: absence of therapy options is not per se a
// quality defect.
func scoreTherapeutics(recs []domain.TherapeuticRecommendation) float64 {
	if len(recs) == 0 {
		return 50
	}

	mapped, targeted, evidenced := 0, 0, 0
	for _, r := range recs {
		if r.DrugVocabularyCode != nil {
			mapped++
		}
		if r.GeneTarget != "" {
			targeted++
		}
		if r.EvidenceLevel != "" {
			evidenced++
		}
	}

	n := float64(len(recs))
	score := 30 +
		40*float64(mapped)/n +
		20*float64(targeted)/n +
		10*float64(evidenced)/n
	return round1(score)
}

func levelFor(score float64) QualityLevel {
	switch {
	case score >= 90:
		return LevelExcellent
	case score >= 75:
		return LevelGood
	case score >= 60:
		return LevelAcceptable
	case score >= 40:
		return LevelPoor
	default:
		return LevelCritical
	}
}

const recommendationCutoff = 60

func recommendations(d DetailedQualityReport) []string {
	var recs []string
	if d.PatientScore < recommendationCutoff {
		recs = append(recs, "Verify patient demographics in the source document")
	}
	if d.DiagnosisScore < recommendationCutoff {
		recs = append(recs, "Review diagnosis section for staging and histology detail")
	}
	if d.VariantsScore < recommendationCutoff {
		recs = append(recs, "Check the molecular results section for variant annotations")
	}
	if d.TherapeuticsScore < recommendationCutoff {
		recs = append(recs, "Confirm therapeutic recommendations against the drug list")
	}
	return recs
}
