// Package mssql implements storage.Repository on Microsoft SQL Server.
package mssql

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/microsoft/go-mssqldb"

	"catalogaudit/internal/profile"
	"catalogaudit/internal/storage"
)

// Repo implements storage.Repository for SQL Server.
//
// Identity values are read back with OUTPUT INSERTED, which is reliable under
// concurrent writers (unlike @@IDENTITY).
type Repo struct {
	db *sql.DB
}

func init() {
	storage.Register("mssql", New)
}

// New opens a connection pool to cfg.DSN using the sqlserver driver.
func New(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
	db, err := sql.Open("sqlserver", cfg.DSN)
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

// EnsureSchema creates the audit tables when missing. SQL Server has no
// CREATE TABLE IF NOT EXISTS, so existence is guarded via OBJECT_ID checks.
func (r *Repo) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements() {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("mssql: ensure schema: %w", err)
		}
	}
	return nil
}

func schemaStatements() []string {
	return []string{
		`IF OBJECT_ID('dbo.audit_runs', 'U') IS NULL
		CREATE TABLE dbo.audit_runs (
			run_id BIGINT IDENTITY(1,1) PRIMARY KEY,
			job NVARCHAR(255) NOT NULL,
			source NVARCHAR(1024) NOT NULL,
			row_count INT NOT NULL,
			column_count INT NOT NULL,
			key_column NVARCHAR(255) NOT NULL,
			duplicate_count INT NOT NULL,
			started_at DATETIMEOFFSET NOT NULL
		)`,
		`IF OBJECT_ID('dbo.audit_column_profiles', 'U') IS NULL
		CREATE TABLE dbo.audit_column_profiles (
			run_id BIGINT NOT NULL REFERENCES dbo.audit_runs(run_id),
			column_name NVARCHAR(255) NOT NULL,
			total INT NOT NULL,
			filled INT NOT NULL,
			empty INT NOT NULL,
			fill_rate NVARCHAR(16) NOT NULL,
			unique_count INT NOT NULL,
			PRIMARY KEY (run_id, column_name)
		)`,
		`IF OBJECT_ID('dbo.audit_duplicates', 'U') IS NULL
		CREATE TABLE dbo.audit_duplicates (
			run_id BIGINT NOT NULL REFERENCES dbo.audit_runs(run_id),
			key_column NVARCHAR(255) NOT NULL,
			key_value NVARCHAR(1024) NOT NULL,
			row_index INT NOT NULL,
			row_json NVARCHAR(MAX) NOT NULL,
			PRIMARY KEY (run_id, row_index)
		)`,
	}
}

// InsertRun records one audit run and returns the identity value.
func (r *Repo) InsertRun(ctx context.Context, run storage.RunRecord) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO dbo.audit_runs (job, source, row_count, column_count, key_column, duplicate_count, started_at)
		 OUTPUT INSERTED.run_id
		 VALUES (@p1, @p2, @p3, @p4, @p5, @p6, @p7)`,
		run.Job, run.Source, run.RowCount, run.ColumnCount, run.KeyColumn, run.DuplicateCount, run.StartedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("mssql: insert run: %w", err)
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
		return fmt.Errorf("mssql: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, p := range profiles {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO dbo.audit_column_profiles (run_id, column_name, total, filled, empty, fill_rate, unique_count)
			 VALUES (@p1, @p2, @p3, @p4, @p5, @p6, @p7)`,
			runID, p.Column, p.Total, p.Filled, p.Empty, p.FillRate, p.UniqueCount,
		)
		if err != nil {
			return fmt.Errorf("mssql: insert profile %s: %w", p.Column, err)
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
		return fmt.Errorf("mssql: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, d := range rows {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO dbo.audit_duplicates (run_id, key_column, key_value, row_index, row_json)
			 VALUES (@p1, @p2, @p3, @p4, @p5)`,
			runID, set.KeyColumn, d.KeyValue, d.RowIndex, string(d.RowJSON),
		)
		if err != nil {
			return fmt.Errorf("mssql: insert duplicate %d: %w", d.RowIndex, err)
		}
	}
	return tx.Commit()
}
