// Package storage persists run audit trails into a session-scoped
// SQLite file: one row per pipeline run plus its correction records.
// The database lives in the transient session output directory and is
// deleted with the session.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/strandsoft/wcomp/internal/model"
	"github.com/strandsoft/wcomp/internal/reclassify"
)

// Store is a SQLite-backed audit store.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Run is one persisted pipeline run.
type Run struct {
	CreatedAt  time.Time
	SourceFile string
	RuleSet    string
	Totals     model.ValidationSummary
	ID         int64
	Records    int
	Earnings   string
}

// NewStore opens (and migrates) the audit database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("dbPath is required")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db, dbPath: dbPath}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at TIMESTAMP NOT NULL,
	source_file TEXT NOT NULL,
	rule_set TEXT NOT NULL,
	record_count INTEGER NOT NULL,
	total_earnings TEXT NOT NULL,
	validated INTEGER NOT NULL,
	corrected INTEGER NOT NULL,
	drive_time_corrected INTEGER NOT NULL,
	wage_corrected INTEGER NOT NULL,
	skipped INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS corrections (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	row_num INTEGER NOT NULL,
	employee TEXT NOT NULL,
	job_no TEXT NOT NULL,
	earn_type TEXT NOT NULL,
	original_code INTEGER NOT NULL,
	corrected_code INTEGER NOT NULL,
	category TEXT NOT NULL,
	reason TEXT NOT NULL,
	hours TEXT NOT NULL,
	rate TEXT NOT NULL,
	earnings TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_corrections_run ON corrections(run_id);`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to migrate audit schema: %w", err)
	}
	return nil
}

// SaveRun persists one pipeline run and its audit report, returning the
// run ID.
func (s *Store) SaveRun(ctx context.Context, sourceFile string, recordCount int, totalEarnings string, report *reclassify.Report) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (created_at, source_file, rule_set, record_count, total_earnings,
			validated, corrected, drive_time_corrected, wage_corrected, skipped)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UTC(), sourceFile, report.RuleSet, recordCount, totalEarnings,
		report.Summary.Validated, report.Summary.Corrected,
		report.Summary.DriveTimeCorrected, report.Summary.WageCorrected, report.Summary.Skipped)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO corrections (run_id, row_num, employee, job_no, earn_type,
			original_code, corrected_code, category, reason, hours, rate, earnings)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare correction insert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for _, c := range report.Corrections {
		if _, err := stmt.ExecContext(ctx, runID, c.Row, c.Employee, c.JobNo, c.EarnType,
			c.OriginalCode, c.CorrectedCode, string(c.Category), c.Reason,
			c.Hours.StringFixed(2), c.Rate.StringFixed(4), c.Earnings.StringFixed(2)); err != nil {
			return 0, fmt.Errorf("failed to insert correction: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

// ListRuns returns all persisted runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, source_file, rule_set, record_count, total_earnings,
			validated, corrected, drive_time_corrected, wage_corrected, skipped
		FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.SourceFile, &r.RuleSet, &r.Records, &r.Earnings,
			&r.Totals.Validated, &r.Totals.Corrected, &r.Totals.DriveTimeCorrected,
			&r.Totals.WageCorrected, &r.Totals.Skipped); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.Totals.Total = r.Records
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Corrections returns the audit corrections recorded for one run.
func (s *Store) Corrections(ctx context.Context, runID int64) ([]model.Correction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT row_num, employee, job_no, earn_type, original_code, corrected_code, category, reason
		FROM corrections WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query corrections: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []model.Correction
	for rows.Next() {
		var c model.Correction
		var category string
		if err := rows.Scan(&c.Row, &c.Employee, &c.JobNo, &c.EarnType,
			&c.OriginalCode, &c.CorrectedCode, &category, &c.Reason); err != nil {
			return nil, fmt.Errorf("failed to scan correction: %w", err)
		}
		c.Category = model.CorrectionCategory(category)
		out = append(out, c)
	}
	return out, rows.Err()
}
