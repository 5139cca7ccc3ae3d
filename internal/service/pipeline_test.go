package service

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtb-report-extractor/internal/domain"
	"github.com/mtb-report-extractor/internal/quality"
	"github.com/mtb-report-extractor/internal/vocab"
)

const sampleReport = `Paziente: MTB-2024-001
Età: 67
Sesso: M
Data referto: 15/06/2024
Pannello NGS: FoundationOne CDx

Diagnosi: adenocarcinoma polmonare
Stadio IV

Risultati dell'analisi:
EGFR c.2573T>G p.Leu858Arg Pathogenic 45%
fusione EML4::ALK
MET amplification

TMB: 12.5 mut/Mb

Si raccomanda osimertinib 80 mg die.`

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	vocabService, err := vocab.NewService(logger, "")
	require.NoError(t, err)
	return NewPipeline(vocabService, logger)
}

func TestParseFullReport(t *testing.T) {
	p := newTestPipeline(t)

	report, err := p.Parse(context.Background(), sampleReport)
	require.NoError(t, err)

	assert.Equal(t, "MTB-2024-001", report.Patient.ID)
	assert.Equal(t, 67, report.Patient.Age)
	assert.Equal(t, domain.MALE, report.Patient.Sex)
	assert.True(t, report.Patient.IsComplete())

	assert.Equal(t, "adenocarcinoma polmonare", report.Diagnosis.PrimaryDiagnosis)
	assert.Equal(t, "IV", report.Diagnosis.Stage)
	require.NotNil(t, report.Diagnosis.VocabularyCode)
	assert.Equal(t, "8140/3", report.Diagnosis.VocabularyCode.Code)

	assert.Equal(t, "2024-06-15", report.ReportDate)
	assert.Equal(t, "FoundationOne CDx", report.NGSMethod)

	require.NotNil(t, report.TMB)
	assert.Equal(t, 12.5, *report.TMB)
	assert.True(t, report.HasHighTMB(10))

	require.Len(t, report.Variants, 3)

	egfr := report.Variants[0]
	assert.Equal(t, "EGFR", egfr.Gene)
	assert.Equal(t, "c.2573T>G", egfr.CDNAChange)
	assert.Equal(t, "p.Leu858Arg", egfr.ProteinChange)
	assert.Equal(t, domain.PATHOGENIC, egfr.Classification)
	require.NotNil(t, egfr.VAF)
	assert.Equal(t, 45.0, *egfr.VAF)

	fusion := report.Variants[1]
	assert.Equal(t, "EML4::ALK", fusion.Gene)
	assert.True(t, fusion.IsFusion())
	assert.Equal(t, domain.PATHOGENIC, fusion.Classification)

	cnv := report.Variants[2]
	assert.Equal(t, "MET", cnv.Gene)
	assert.Equal(t, "amplification", cnv.ProteinChange)

	require.Len(t, report.Recommendations, 1)
	assert.Equal(t, "osimertinib", report.Recommendations[0].Drug)
	assert.Equal(t, "EGFR", report.Recommendations[0].GeneTarget)

	assert.True(t, report.Quality.PatientComplete)
	assert.True(t, report.Quality.DiagnosisMapped)
	assert.Equal(t, 3, report.Quality.VariantsFound)
	assert.Empty(t, report.Quality.Warnings)

	assert.Len(t, report.ActionableVariants(), 3)
	assert.Len(t, report.FusionVariants(), 1)
}

func TestParseIsIdempotent(t *testing.T) {
	p := newTestPipeline(t)
	p.now = func() time.Time { return time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC) }

	first, err := p.Parse(context.Background(), sampleReport)
	require.NoError(t, err)
	second, err := p.Parse(context.Background(), sampleReport)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestParseDerivesAgeFromBirthDate(t *testing.T) {
	p := newTestPipeline(t)
	p.now = func() time.Time { return time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC) }

	report, err := p.Parse(context.Background(),
		"Paziente: PZ-881, nato il 12/03/1958, sesso M\nDiagnosi: melanoma cutaneo")
	require.NoError(t, err)

	assert.Equal(t, "1958-03-12", report.Patient.BirthDate)
	assert.Equal(t, 66, report.Patient.Age)
	assert.True(t, report.Patient.IsComplete())
}

func TestParseEmptyInput(t *testing.T) {
	p := newTestPipeline(t)

	for _, input := range []string{"", "   ", "\n\t\n"} {
		_, err := p.Parse(context.Background(), input)
		require.Error(t, err)

		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, domain.ErrInvalidInput, verr.Code)
	}
}

func TestParseTextWithoutEntities(t *testing.T) {
	p := newTestPipeline(t)

	report, err := p.Parse(context.Background(),
		"Il campione analizzato non presenta alcun risultato utile.")
	require.NoError(t, err)

	assert.Empty(t, report.Variants)
	assert.Equal(t, []string{
		quality.WarnNoVariants,
		quality.WarnDiagnosisUnmapped,
		quality.WarnPatientIncomplete,
		quality.WarnTMBMissing,
	}, report.Quality.Warnings)
	assert.Equal(t, 0.0, report.Quality.CompletenessPct)
}

func TestParsePatientOnlyReport(t *testing.T) {
	p := newTestPipeline(t)

	report, err := p.Parse(context.Background(), "ID Paziente: 12345\nEtà: 65 anni\nSesso: M")
	require.NoError(t, err)

	assert.Equal(t, "12345", report.Patient.ID)
	assert.Equal(t, 65, report.Patient.Age)
	assert.Equal(t, domain.MALE, report.Patient.Sex)
	assert.Empty(t, report.Variants)
	assert.Equal(t, []string{
		quality.WarnNoVariants,
		quality.WarnDiagnosisUnmapped,
		quality.WarnTMBMissing,
	}, report.Quality.Warnings)
	assert.Equal(t, 50.0, report.Quality.CompletenessPct)
}

func TestParseCancelledContext(t *testing.T) {
	p := newTestPipeline(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Parse(ctx, sampleReport)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseBorderedTable(t *testing.T) {
	p := newTestPipeline(t)

	text := "Diagnosi: adenocarcinoma polmonare\n" +
		"│EGFR│c.2573T>G│p.Leu858Arg│Pathogenic│45%│\n"

	report, err := p.Parse(context.Background(), text)
	require.NoError(t, err)
	require.Len(t, report.Variants, 1)
	assert.Equal(t, "p.Leu858Arg", report.Variants[0].ProteinChange)
}

func TestAssessDetailedOnParsedReport(t *testing.T) {
	p := newTestPipeline(t)

	report, err := p.Parse(context.Background(), sampleReport)
	require.NoError(t, err)

	detailed := p.AssessDetailed(report)
	assert.Equal(t, quality.LevelExcellent, detailed.Level)
	// id 30 + age 25 + sex 25; no birth date in the sample report.
	assert.Equal(t, 80.0, detailed.PatientScore)
}
