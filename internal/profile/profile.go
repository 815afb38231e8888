// Package profile implements the diagnostic core: per-column descriptive
// statistics and exact-key duplicate detection over a catalog.Table.
//
// Design constraints:
//   - Both operations are pure, single-pass scans over a read-only snapshot.
//     They never mutate the input table and are safe to call from multiple
//     goroutines against the same table.
//   - Recoverable conditions (missing column, unsupported method, empty
//     table) yield sentinel/empty results, never errors. The surrounding
//     tooling guards the genuinely fatal cases upstream.
package profile

import (
	"fmt"

	"catalogaudit/internal/catalog"
)

// maxSamples bounds the example values carried in a ColumnProfile.
const maxSamples = 5

// ColumnProfile is a read-only fill-rate and cardinality summary for one column.
type ColumnProfile struct {
	// Column is the profiled column name.
	Column string `json:"column"`

	// Total is the row count of the whole table, not the non-null count.
	Total int `json:"total"`

	// Filled counts non-null values in the column.
	Filled int `json:"filled"`

	// Empty counts null values. Always equals Total-Filled; it is counted
	// from the null side independently rather than derived.
	Empty int `json:"empty"`

	// FillRate is Filled/Total*100 formatted with one fractional digit and a
	// trailing percent sign, e.g. "87.3%". An empty table reports "0.0%".
	FillRate string `json:"fill_rate"`

	// UniqueCount is the number of distinct non-null values, using
	// catalog.NormalizeKey as the canonical form.
	UniqueCount int `json:"unique_count"`

	// Samples holds up to 5 non-null values in original row order.
	Samples []any `json:"samples"`
}

// AnalyzeColumn computes a ColumnProfile for one column.
//
// A missing column is a lookup miss, not a failure: ok is false and the
// returned profile is the zero value. Callers probing optional columns
// branch on ok.
func AnalyzeColumn(t *catalog.Table, column string) (ColumnProfile, bool) {
	ix, ok := t.ColumnIndex(column)
	if !ok {
		return ColumnProfile{}, false
	}

	p := ColumnProfile{
		Column:  column,
		Total:   t.Len(),
		Samples: []any{},
	}

	distinct := make(map[string]struct{})

	for i := 0; i < t.Len(); i++ {
		v := t.Row(i)[ix]
		if v == nil {
			p.Empty++
			continue
		}

		p.Filled++
		distinct[catalog.NormalizeKey(v)] = struct{}{}

		if len(p.Samples) < maxSamples {
			p.Samples = append(p.Samples, v)
		}
	}

	p.UniqueCount = len(distinct)
	p.FillRate = formatFillRate(p.Filled, p.Total)

	return p, true
}

// formatFillRate renders filled/total as a percentage string with exactly one
// fractional digit. The zero-row case is guarded explicitly: dividing by zero
// here would render "NaN%", so an empty table reports "0.0%".
func formatFillRate(filled, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(filled)/float64(total)*100)
}
