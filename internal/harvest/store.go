// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package harvest

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/oa-harvest/pkg/types"
)

// Store is a write-only SQLite audit trail of harvest runs. It is never
// consulted during a run; in particular it does not deduplicate references
// across runs.
type Store struct {
	db *sql.DB
}

// OpenStore opens or creates the archive database at path, creating the
// schema if it does not exist.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening archive database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating archive schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			processed INTEGER NOT NULL,
			succeeded INTEGER NOT NULL,
			failed INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS reports (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id),
			position INTEGER NOT NULL,
			doi TEXT NOT NULL,
			pdf_found INTEGER NOT NULL,
			source TEXT,
			download_status TEXT NOT NULL,
			file_path TEXT,
			error_message TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_run_id ON reports(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// ArchiveRun inserts one run row plus one row per report, preserving input
// order via the position column, and returns the new run ID.
func (s *Store) ArchiveRun(startedAt time.Time, result Result) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning archive transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO runs (started_at, processed, succeeded, failed) VALUES (?, ?, ?, ?)`,
		startedAt.UTC().Format(time.RFC3339), result.Total(), result.Succeeded, result.Failed,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO reports (run_id, position, doi, pdf_found, source, download_status, file_path, error_message)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return 0, fmt.Errorf("preparing report insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range result.Reports {
		if _, err := stmt.Exec(runID, i, r.DOI, r.PDFFound, r.Source,
			string(r.DownloadStatus), r.FilePath, r.ErrorMessage); err != nil {
			return 0, fmt.Errorf("inserting report for %s: %w", r.DOI, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing archive transaction: %w", err)
	}
	return runID, nil
}

// RunReports loads the archived reports for a run in input order.
func (s *Store) RunReports(runID int64) ([]types.ReferenceReport, error) {
	rows, err := s.db.Query(
		`SELECT doi, pdf_found, source, download_status, file_path, error_message
		 FROM reports WHERE run_id = ? ORDER BY position`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying reports: %w", err)
	}
	defer rows.Close()

	var reports []types.ReferenceReport
	for rows.Next() {
		var r types.ReferenceReport
		var status string
		if err := rows.Scan(&r.DOI, &r.PDFFound, &r.Source, &status, &r.FilePath, &r.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scanning report: %w", err)
		}
		r.DownloadStatus = types.DownloadStatus(status)
		reports = append(reports, r)
	}
	return reports, rows.Err()
}
