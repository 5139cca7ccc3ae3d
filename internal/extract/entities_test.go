package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtb-report-extractor/internal/domain"
)

func TestExtractPatient(t *testing.T) {
	e := newTestExtractor()

	tests := []struct {
		name     string
		text     string
		expected domain.PatientRecord
	}{
		{
			name: "italian header",
			text: "Paziente: MTB-2024-001\nEtà: 67\nSesso: M",
			expected: domain.PatientRecord{
				ID: "MTB-2024-001", Age: 67, Sex: domain.MALE,
			},
		},
		{
			name: "english header",
			text: "Patient ID: PZ-4521, aged 54, sex: female",
			expected: domain.PatientRecord{
				ID: "PZ-4521", Age: 54, Sex: domain.FEMALE,
			},
		},
		{
			name: "numeric id with inverted label",
			text: "ID Paziente: 12345\nEtà: 65 anni\nSesso: M",
			expected: domain.PatientRecord{
				ID: "12345", Age: 65, Sex: domain.MALE,
			},
		},
		{
			name: "age from anni phrasing",
			text: "Donna di 62 anni, sesso femmina",
			expected: domain.PatientRecord{
				Age: 62, Sex: domain.FEMALE,
			},
		},
		{
			name: "birth date carried for derivation",
			text: "Paziente: AB-123, nato il 12/03/1958, sesso M",
			expected: domain.PatientRecord{
				ID: "AB-123", Sex: domain.MALE, BirthDate: "1958-03-12",
			},
		},
		{
			name:     "implausible age discarded",
			text:     "Età: 250",
			expected: domain.PatientRecord{Sex: domain.SEX_UNKNOWN},
		},
		{
			name:     "nothing found",
			text:     "referto senza dati anagrafici",
			expected: domain.PatientRecord{Sex: domain.SEX_UNKNOWN},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.ExtractPatient(tt.text)
			if tt.expected.Sex == "" {
				tt.expected.Sex = domain.SEX_UNKNOWN
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestExtractDiagnosis(t *testing.T) {
	e := newTestExtractor()

	t.Run("labeled diagnosis with stage", func(t *testing.T) {
		d := e.ExtractDiagnosis("Diagnosi: adenocarcinoma polmonare\nStadio IV")
		assert.Equal(t, "adenocarcinoma polmonare", d.PrimaryDiagnosis)
		assert.Equal(t, "IV", d.Stage)
		require.NotNil(t, d.VocabularyCode)
		assert.Equal(t, "8140/3", d.VocabularyCode.Code)
	})

	t.Run("stage with letter suffix", func(t *testing.T) {
		d := e.ExtractDiagnosis("stadio III A")
		assert.Equal(t, "IIIA", d.Stage)
	})

	t.Run("english stage label", func(t *testing.T) {
		d := e.ExtractDiagnosis("Diagnosis: lung adenocarcinoma\nStage IV")
		assert.Equal(t, "IV", d.Stage)
	})

	t.Run("labeled stage with colon", func(t *testing.T) {
		d := e.ExtractDiagnosis("Stadio: IIIB")
		assert.Equal(t, "IIIB", d.Stage)
	})

	t.Run("tnm fallback when no named stage", func(t *testing.T) {
		d := e.ExtractDiagnosis("Diagnosi: adenocarcinoma polmonare pT2aN1M0")
		assert.Equal(t, "PT2AN1M0", d.Stage)
	})

	t.Run("narrative affetto da", func(t *testing.T) {
		d := e.ExtractDiagnosis("Paziente affetto da adenocarcinoma polmonare in progressione")
		assert.Equal(t, "adenocarcinoma polmonare in progressione", d.PrimaryDiagnosis)
		assert.NotNil(t, d.VocabularyCode)
	})

	t.Run("histology line", func(t *testing.T) {
		d := e.ExtractDiagnosis("Istologia: Adenocarcinoma scarsamente differenziato")
		assert.Equal(t, "adenocarcinoma scarsamente differenziato", d.Histology)
	})

	t.Run("unmapped diagnosis keeps text", func(t *testing.T) {
		d := e.ExtractDiagnosis("Diagnosi: neoplasia rara non classificata")
		assert.Equal(t, "neoplasia rara non classificata", d.PrimaryDiagnosis)
		assert.Nil(t, d.VocabularyCode)
	})
}

func TestExtractTMB(t *testing.T) {
	e := newTestExtractor()

	tests := []struct {
		name     string
		text     string
		expected *float64
	}{
		{"labeled acronym", "TMB: 12.5 mut/Mb", ptr(12.5)},
		{"english phrase", "tumor mutational burden 8", ptr(8.0)},
		{"italian phrase with comma", "carico mutazionale: 15,2", ptr(15.2)},
		{"absent", "nessun dato di burden", nil},
		{"out of range", "TMB: 5000", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.ExtractTMB(tt.text)
			if tt.expected == nil {
				assert.Nil(t, got)
			} else {
				require.NotNil(t, got)
				assert.Equal(t, *tt.expected, *got)
			}
		})
	}
}

func TestExtractReportMetadata(t *testing.T) {
	e := newTestExtractor()

	text := "Pannello NGS: FoundationOne CDx\nData referto: 15/06/2024"
	assert.Equal(t, "FoundationOne CDx", e.ExtractNGSMethod(text))
	assert.Equal(t, "2024-06-15", e.ExtractReportDate(text))

	assert.Empty(t, e.ExtractNGSMethod("nessuna metodica indicata qui"))
	assert.Empty(t, e.ExtractReportDate("nessuna data"))
}

func TestExtractRecommendations(t *testing.T) {
	e := newTestExtractor()

	t.Run("known drug with co-mentioned target", func(t *testing.T) {
		recs := e.ExtractRecommendations("Per la mutazione EGFR si raccomanda Osimertinib 80 mg")
		require.Len(t, recs, 1)
		assert.Equal(t, "osimertinib", recs[0].Drug)
		assert.Equal(t, "EGFR", recs[0].GeneTarget)
		assert.Equal(t, "1A", recs[0].EvidenceLevel)
		require.NotNil(t, recs[0].DrugVocabularyCode)
	})

	t.Run("multi-target drug picks mentioned gene", func(t *testing.T) {
		recs := e.ExtractRecommendations("riarrangiamento di ROS1: indicato crizotinib")
		require.Len(t, recs, 1)
		assert.Equal(t, "ROS1", recs[0].GeneTarget)
	})

	t.Run("drug mentioned twice reported once", func(t *testing.T) {
		recs := e.ExtractRecommendations("alectinib raccomandato; alectinib ben tollerato")
		assert.Len(t, recs, 1)
	})

	t.Run("no known drugs", func(t *testing.T) {
		recs := e.ExtractRecommendations("si raccomanda sola osservazione")
		assert.Empty(t, recs)
	})
}
