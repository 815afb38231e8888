// Package postgres implements storage.Repository on Postgres via pgx.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"catalogaudit/internal/profile"
	"catalogaudit/internal/storage"
)

// Repo implements storage.Repository for Postgres.
//
// Duplicate row payloads are stored as jsonb so downstream SQL can query
// individual fields of the offending records.
type Repo struct {
	pool *pgxpool.Pool
}

func init() {
	storage.Register("postgres", New)
}

// New connects a pgx pool to cfg.DSN.
func New(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Repo{pool: pool}, nil
}

func (r *Repo) Close() { r.pool.Close() }

// EnsureSchema creates the audit tables when missing. Idempotent.
func (r *Repo) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements() {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("postgres: ensure schema: %w", err)
		}
	}
	return nil
}

func schemaStatements() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS audit_runs (
			run_id BIGSERIAL PRIMARY KEY,
			job TEXT NOT NULL,
			source TEXT NOT NULL,
			row_count INT NOT NULL,
			column_count INT NOT NULL,
			key_column TEXT NOT NULL,
			duplicate_count INT NOT NULL,
			started_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS audit_column_profiles (
			run_id BIGINT NOT NULL REFERENCES audit_runs(run_id),
			column_name TEXT NOT NULL,
			total INT NOT NULL,
			filled INT NOT NULL,
			empty INT NOT NULL,
			fill_rate TEXT NOT NULL,
			unique_count INT NOT NULL,
			PRIMARY KEY (run_id, column_name)
		)`,
		`CREATE TABLE IF NOT EXISTS audit_duplicates (
			run_id BIGINT NOT NULL REFERENCES audit_runs(run_id),
			key_column TEXT NOT NULL,
			key_value TEXT NOT NULL,
			row_index INT NOT NULL,
			row_json JSONB NOT NULL,
			PRIMARY KEY (run_id, row_index)
		)`,
	}
}

// InsertRun records one audit run and returns the generated id.
func (r *Repo) InsertRun(ctx context.Context, run storage.RunRecord) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO audit_runs (job, source, row_count, column_count, key_column, duplicate_count, started_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING run_id`,
		run.Job, run.Source, run.RowCount, run.ColumnCount, run.KeyColumn, run.DuplicateCount, run.StartedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("postgres: insert run: %w", err)
	}
	return id, nil
}

// InsertColumnProfiles stores the per-column statistics of a run in one batch.
func (r *Repo) InsertColumnProfiles(ctx context.Context, runID int64, profiles []profile.ColumnProfile) error {
	if len(profiles) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, p := range profiles {
		batch.Queue(
			`INSERT INTO audit_column_profiles (run_id, column_name, total, filled, empty, fill_rate, unique_count)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			runID, p.Column, p.Total, p.Filled, p.Empty, p.FillRate, p.UniqueCount,
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range profiles {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("postgres: insert profiles: %w", err)
		}
	}
	return nil
}

// InsertDuplicates stores the duplicated rows of a run as jsonb.
func (r *Repo) InsertDuplicates(ctx context.Context, runID int64, set profile.DuplicateSet) error {
	rows, err := storage.EncodeDuplicateRows(set)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, d := range rows {
		batch.Queue(
			`INSERT INTO audit_duplicates (run_id, key_column, key_value, row_index, row_json)
			 VALUES ($1, $2, $3, $4, $5)`,
			runID, set.KeyColumn, d.KeyValue, d.RowIndex, d.RowJSON,
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range rows {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("postgres: insert duplicates: %w", err)
		}
	}
	return nil
}
