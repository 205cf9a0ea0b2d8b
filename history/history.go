// Package history persists batch runs and their per-operation outcomes in
// a local SQLite database, so past runs can be inspected from the CLI.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"batchcut/models"
)

// Run summarizes one batch execution.
type Run struct {
	ID         string
	BatchPath  string
	StartedAt  time.Time
	FinishedAt time.Time
	Operations int
	Failures   int
}

// OperationRecord is one stored outcome of a run.
type OperationRecord struct {
	ID        string
	RunID     string
	Name      string
	Index     int
	Success   bool
	Outputs   []string
	Error     string
	ElapsedMS int64
}

// Store is the SQLite-backed run history.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	batch_path TEXT NOT NULL,
	started_at INTEGER NOT NULL,
	finished_at INTEGER NOT NULL,
	operations INTEGER NOT NULL,
	failures INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at DESC);

CREATE TABLE IF NOT EXISTS operations (
	id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL,
	name TEXT NOT NULL,
	op_index INTEGER NOT NULL,
	success INTEGER NOT NULL,
	outputs TEXT NOT NULL DEFAULT '',
	error TEXT NOT NULL DEFAULT '',
	elapsed_ms INTEGER NOT NULL,
	FOREIGN KEY (run_id) REFERENCES runs(id)
);
CREATE INDEX IF NOT EXISTS idx_operations_run_id ON operations(run_id);
`

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun stores one run and all its outcomes in a single transaction.
func (s *Store) RecordRun(run Run, outcomes []*models.Outcome) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin history transaction: %w", err)
	}
	defer tx.Rollback()

	failures := 0
	for _, oc := range outcomes {
		if !oc.Success() {
			failures++
		}
	}

	_, err = tx.Exec(
		`INSERT INTO runs (id, batch_path, started_at, finished_at, operations, failures)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.BatchPath, run.StartedAt.Unix(), run.FinishedAt.Unix(),
		len(outcomes), failures,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for _, oc := range outcomes {
		errText := ""
		if oc.Err != nil {
			errText = oc.Err.Error()
		}
		_, err = tx.Exec(
			`INSERT INTO operations (id, run_id, name, op_index, success, outputs, error, elapsed_ms)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			oc.ID, run.ID, oc.Operation, oc.Index, boolToInt(oc.Success()),
			strings.Join(oc.Outputs, "\n"), errText, oc.Elapsed.Milliseconds(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert outcome %s: %w", oc.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit history transaction: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, batch_path, started_at, finished_at, operations, failures
		 FROM runs ORDER BY started_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, finished int64
		if err := rows.Scan(&r.ID, &r.BatchPath, &started, &finished, &r.Operations, &r.Failures); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.StartedAt = time.Unix(started, 0)
		r.FinishedAt = time.Unix(finished, 0)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// ListOperations returns the stored outcomes of one run in declaration
// order.
func (s *Store) ListOperations(runID string) ([]OperationRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, run_id, name, op_index, success, outputs, error, elapsed_ms
		 FROM operations WHERE run_id = ? ORDER BY op_index`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query operations: %w", err)
	}
	defer rows.Close()

	var records []OperationRecord
	for rows.Next() {
		var rec OperationRecord
		var success int
		var outputs string
		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.Name, &rec.Index, &success, &outputs, &rec.Error, &rec.ElapsedMS); err != nil {
			return nil, fmt.Errorf("failed to scan operation: %w", err)
		}
		rec.Success = success != 0
		if outputs != "" {
			rec.Outputs = strings.Split(outputs, "\n")
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
