// Package sqlite implements storage.Repository on SQLite via the pure-Go
// modernc.org driver, so audit history works without a server or cgo.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"catalogaudit/internal/profile"
	"catalogaudit/internal/storage"
)

// Repo implements storage.Repository for SQLite.
//
// SQLite has no TIMESTAMPTZ type; run timestamps are stored as RFC3339Nano
// strings for reliable round-trip behavior and easy debugging.
type Repo struct {
	db *sql.DB
}

func init() {
	storage.Register("sqlite", New)
}

// New opens (or creates) the SQLite database at cfg.DSN.
func New(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Repo{db: db}, nil
}

func (r *Repo) Close() { _ = r.db.Close() }

// EnsureSchema creates the audit tables when missing, keeping startup
// idempotent across repeated runs against the same file.
func (r *Repo) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements() {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite: ensure schema: %w", err)
		}
	}
	return nil
}

func schemaStatements() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS audit_runs (
			run_id INTEGER PRIMARY KEY AUTOINCREMENT,
			job TEXT NOT NULL,
			source TEXT NOT NULL,
			row_count INTEGER NOT NULL,
			column_count INTEGER NOT NULL,
			key_column TEXT NOT NULL,
			duplicate_count INTEGER NOT NULL,
			started_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS audit_column_profiles (
			run_id INTEGER NOT NULL REFERENCES audit_runs(run_id),
			column_name TEXT NOT NULL,
			total INTEGER NOT NULL,
			filled INTEGER NOT NULL,
			empty INTEGER NOT NULL,
			fill_rate TEXT NOT NULL,
			unique_count INTEGER NOT NULL,
			PRIMARY KEY (run_id, column_name)
		)`,
		`CREATE TABLE IF NOT EXISTS audit_duplicates (
			run_id INTEGER NOT NULL REFERENCES audit_runs(run_id),
			key_column TEXT NOT NULL,
			key_value TEXT NOT NULL,
			row_index INTEGER NOT NULL,
			row_json TEXT NOT NULL,
			PRIMARY KEY (run_id, row_index)
		)`,
	}
}

// InsertRun records one audit run and returns its rowid.
func (r *Repo) InsertRun(ctx context.Context, run storage.RunRecord) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_runs (job, source, row_count, column_count, key_column, duplicate_count, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.Job, run.Source, run.RowCount, run.ColumnCount, run.KeyColumn, run.DuplicateCount,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("sqlite: insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("sqlite: run id: %w", err)
	}
	return id, nil
}

// InsertColumnProfiles stores the per-column statistics of a run.
func (r *Repo) InsertColumnProfiles(ctx context.Context, runID int64, profiles []profile.ColumnProfile) error {
	if len(profiles) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO audit_column_profiles (run_id, column_name, total, filled, empty, fill_rate, unique_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("sqlite: prepare profiles: %w", err)
	}
	defer stmt.Close()

	for _, p := range profiles {
		if _, err := stmt.ExecContext(ctx, runID, p.Column, p.Total, p.Filled, p.Empty, p.FillRate, p.UniqueCount); err != nil {
			return fmt.Errorf("sqlite: insert profile %s: %w", p.Column, err)
		}
	}
	return tx.Commit()
}

// InsertDuplicates stores the duplicated rows of a run as JSON text.
func (r *Repo) InsertDuplicates(ctx context.Context, runID int64, set profile.DuplicateSet) error {
	rows, err := storage.EncodeDuplicateRows(set)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO audit_duplicates (run_id, key_column, key_value, row_index, row_json)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("sqlite: prepare duplicates: %w", err)
	}
	defer stmt.Close()

	for _, d := range rows {
		if _, err := stmt.ExecContext(ctx, runID, set.KeyColumn, d.KeyValue, d.RowIndex, string(d.RowJSON)); err != nil {
			return fmt.Errorf("sqlite: insert duplicate %d: %w", d.RowIndex, err)
		}
	}
	return tx.Commit()
}
