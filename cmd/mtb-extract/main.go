// Package main provides the command-line entry point for the MTB report
// extractor. It reads report text from a file or stdin, runs the extraction
// pipeline, prints the assembled report as JSON and optionally archives it.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/mtb-report-extractor/internal/config"
	"github.com/mtb-report-extractor/internal/service"
	"github.com/mtb-report-extractor/internal/store"
	"github.com/mtb-report-extractor/internal/vocab"
)

func main() {
	inputPath := flag.String("input", "", "report text file (default: stdin)")
	detailed := flag.Bool("detailed", false, "include the detailed quality breakdown")
	persist := flag.Bool("persist", false, "archive the report (overrides store.enabled)")
	flag.Parse()

	manager, err := config.NewManager()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := manager.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	cfg := manager.GetConfig()

	logger := newLogger(cfg.Logging)

	text, err := readInput(*inputPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to read input")
	}

	vocabService, err := vocab.NewService(logger, cfg.Vocabulary.Dir)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load vocabularies")
	}

	pipeline := service.NewPipeline(vocabService, logger)

	ctx := context.Background()
	report, err := pipeline.Parse(ctx, text)
	if err != nil {
		logger.WithError(err).Fatal("Extraction failed")
	}

	if cfg.Store.Enabled || *persist {
		archive, err := store.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			logger.WithError(err).Fatal("Failed to open report archive")
		}
		defer archive.Close()

		id, err := archive.Save(ctx, report)
		if err != nil {
			logger.WithError(err).Fatal("Failed to archive report")
		}
		logger.WithField("report_id", id).Info("Report archived")
	}

	output := map[string]interface{}{"report": report}
	if *detailed {
		output["detailed_quality"] = pipeline.AssessDetailed(report)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(output); err != nil {
		logger.WithError(err).Fatal("Failed to write output")
	}
}

func newLogger(cfg config.LoggingConfig) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	if level, err := logrus.ParseLevel(cfg.Level); err == nil {
		logger.SetLevel(level)
	}
	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}

func readInput(path string) (string, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}
