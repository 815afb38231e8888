// Package storage persists audit runs so fill rates and duplicate counts can
// be compared across catalog versions. Backends register themselves under a
// kind string; the rest of the tool depends only on the Repository interface.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"catalogaudit/internal/profile"
)

// Config is the minimal configuration needed to open a repository.
//
// Edge cases:
//   - Kind must be non-empty and must match a registered backend kind.
//   - DSN is passed through to the backend factory; validation is
//     backend-specific.
type Config struct {
	Kind string
	DSN  string
}

// RunRecord describes one audit run.
type RunRecord struct {
	Job            string
	Source         string
	RowCount       int
	ColumnCount    int
	KeyColumn      string
	DuplicateCount int
	StartedAt      time.Time
}

// Repository is a backend-agnostic store for audit results.
//
// IMPORTANT: This interface is intentionally minimal and focused on what the
// audit command needs. Each backend implements the semantics in its own
// idiomatic way (Postgres RETURNING, SQLite last_insert_rowid, MSSQL OUTPUT).
type Repository interface {
	// Close releases backend resources. Treat as "call once" at shutdown.
	Close()

	// EnsureSchema creates the audit tables when missing. Idempotent.
	EnsureSchema(ctx context.Context) error

	// InsertRun records a run and returns its backend-assigned id.
	InsertRun(ctx context.Context, run RunRecord) (int64, error)

	// InsertColumnProfiles stores the per-column statistics of a run.
	InsertColumnProfiles(ctx context.Context, runID int64, profiles []profile.ColumnProfile) error

	// InsertDuplicates stores the duplicated rows of a run. Row payloads are
	// backend-encoded (JSON text), keyed by the duplicate key value.
	InsertDuplicates(ctx context.Context, runID int64, set profile.DuplicateSet) error
}

type factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]factory{}
)

// Register registers a backend under a kind (e.g. "sqlite", "postgres").
//
// Call Register from an init() function in a backend package. Registering the
// same kind twice panics: failing fast beats ambiguous backend selection.
func Register(kind string, f factory) {
	mu.Lock()
	defer mu.Unlock()

	if kind == "" {
		panic("storage: Register called with empty kind")
	}
	if f == nil {
		panic("storage: Register called with nil factory")
	}
	if _, exists := factories[kind]; exists {
		panic(fmt.Sprintf("storage: factory already registered for kind=%q", kind))
	}

	factories[kind] = f
}

// New constructs a Repository using the registered backend factory.
//
// Errors:
//   - cfg.Kind empty or unregistered.
//   - Whatever the factory returns.
func New(ctx context.Context, cfg Config) (Repository, error) {
	if cfg.Kind == "" {
		return nil, fmt.Errorf("storage: missing Kind")
	}

	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("storage: unsupported backend kind %q", cfg.Kind)
	}
	return f(ctx, cfg)
}

// Kinds returns the registered backend kinds, for error messages and usage text.
func Kinds() []string {
	mu.RLock()
	defer mu.RUnlock()

	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
