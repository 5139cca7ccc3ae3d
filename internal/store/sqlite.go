// Package store archives assembled extraction reports in SQLite. Reports
// are stored as JSON documents keyed by a generated UUID, with the summary
// columns denormalized for listing without deserialization.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mtb-report-extractor/internal/domain"
)

// StoredReport is an archived report with its storage identity.
type StoredReport struct {
	ID        string                   `json:"id"`
	CreatedAt time.Time                `json:"created_at"`
	Report    *domain.ExtractionReport `json:"report"`
}

// Summary is the listing row for one archived report.
type Summary struct {
	ID              string    `json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	PatientID       string    `json:"patient_id,omitempty"`
	Diagnosis       string    `json:"diagnosis,omitempty"`
	VariantCount    int       `json:"variant_count"`
	CompletenessPct float64   `json:"completeness_pct"`
}

// SQLiteStore archives reports in a single SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the archive at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL mode for concurrent readers
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS reports (
		id TEXT PRIMARY KEY,
		patient_id TEXT DEFAULT '',
		diagnosis TEXT DEFAULT '',
		variant_count INTEGER NOT NULL DEFAULT 0,
		completeness_pct REAL NOT NULL DEFAULT 0,
		document TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_reports_patient_id ON reports(patient_id);
	CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports(created_at);
	`

	_, err := db.Exec(schema)
	return err
}

// Save archives a report and returns its generated id.
func (s *SQLiteStore) Save(ctx context.Context, report *domain.ExtractionReport) (string, error) {
	document, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("failed to serialize report: %w", err)
	}

	id := uuid.New().String()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO reports (id, patient_id, diagnosis, variant_count, completeness_pct, document, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, report.Patient.ID, report.Diagnosis.PrimaryDiagnosis,
		len(report.Variants), report.Quality.CompletenessPct,
		string(document), time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert report: %w", err)
	}
	return id, nil
}

// Get retrieves one archived report by id. Returns sql.ErrNoRows when the
// id is unknown.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*StoredReport, error) {
	var document string
	stored := &StoredReport{ID: id}

	err := s.db.QueryRowContext(ctx,
		"SELECT document, created_at FROM reports WHERE id = ?", id,
	).Scan(&document, &stored.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(document), &stored.Report); err != nil {
		return nil, fmt.Errorf("failed to deserialize report %s: %w", id, err)
	}
	return stored, nil
}

// List returns report summaries, newest first, up to limit.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, patient_id, diagnosis, variant_count, completeness_pct, created_at
		FROM reports ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.PatientID, &s.Diagnosis,
			&s.VariantCount, &s.CompletenessPct, &s.CreatedAt); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
