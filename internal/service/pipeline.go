// Package service orchestrates the extraction pipeline: preprocessing,
// entity extraction, quality assessment and report assembly. The pipeline
// is deterministic and idempotent over the same input text and clock.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mtb-report-extractor/internal/domain"
	"github.com/mtb-report-extractor/internal/extract"
	"github.com/mtb-report-extractor/internal/normalize"
	"github.com/mtb-report-extractor/internal/quality"
)

// Pipeline turns raw MTB report text into an assembled ExtractionReport.
// One instance is safe for concurrent use.
type Pipeline struct {
	extractor *extract.Extractor
	logger    *logrus.Logger

	// now is the clock used for age derivation from birth dates. Injected
	// so the same text parses to the same report under test.
	now func() time.Time
}

// NewPipeline wires a pipeline over a loaded vocabulary service.
func NewPipeline(vocab domain.VocabularyService, logger *logrus.Logger) *Pipeline {
	return &Pipeline{
		extractor: extract.NewExtractor(vocab, logger),
		logger:    logger,
		now:       time.Now,
	}
}

// Parse runs the full pipeline over one report text. The returned report is
// assembled exactly once and not mutated afterwards; callers own it. Empty
// input is a validation error, a text with no extractable entities is not:
// it produces a report whose quality metrics carry the warnings.
func (p *Pipeline) Parse(ctx context.Context, text string) (*domain.ExtractionReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, domain.NewValidationError(domain.ErrInvalidInput, "text", "report text is empty", "")
	}

	cleaned := extract.Preprocess(text)

	patient := p.extractor.ExtractPatient(cleaned)
	if patient.Age == 0 && patient.BirthDate != "" {
		patient.Age = normalize.AgeFromBirthDate(patient.BirthDate, p.now())
	}

	diagnosis := p.extractor.ExtractDiagnosis(cleaned)
	variants := p.extractor.ExtractVariants(cleaned)
	recommendations := p.extractor.ExtractRecommendations(cleaned)
	tmb := p.extractor.ExtractTMB(cleaned)

	report := &domain.ExtractionReport{
		Patient:         patient,
		Diagnosis:       diagnosis,
		Variants:        variants,
		Recommendations: recommendations,
		TMB:             tmb,
		NGSMethod:       p.extractor.ExtractNGSMethod(cleaned),
		ReportDate:      p.extractor.ExtractReportDate(cleaned),
		Quality:         quality.Assess(patient, diagnosis, variants, recommendations, tmb),
	}

	p.logger.WithFields(logrus.Fields{
		"variants":     len(report.Variants),
		"drugs":        len(report.Recommendations),
		"completeness": report.Quality.CompletenessPct,
		"warnings":     len(report.Quality.Warnings),
	}).Info("Report parsed")

	return report, nil
}

// AssessDetailed scores an assembled report section by section.
func (p *Pipeline) AssessDetailed(report *domain.ExtractionReport) quality.DetailedQualityReport {
	return quality.AssessDetailed(report)
}
