// Package report turns profiler output into the structured summaries and
// artifacts the surrounding tooling renders: catalog overview metrics,
// category histograms with per-category samples, a human-readable text
// report, and delimited export of duplicate sets.
package report

import (
	"sort"

	"catalogaudit/internal/catalog"
	"catalogaudit/internal/profile"
)

// Overview carries the headline metrics of one catalog snapshot.
type Overview struct {
	TotalItems  int `json:"total_items"`
	ColumnCount int `json:"column_count"`

	// UniqueIdentifiers is the distinct non-null count of the identifier
	// column, 0 when the column is absent.
	UniqueIdentifiers int `json:"unique_identifiers"`

	// PossibleDuplicates is TotalItems-UniqueIdentifiers: a quick upper-bound
	// signal, counting null identifiers as candidates too. The exact figure
	// comes from profile.FindDuplicates.
	PossibleDuplicates int `json:"possible_duplicates"`
}

// Summarize computes the overview for a table. idColumn follows the
// lookup-miss policy: when absent, identifier metrics report zero.
func Summarize(t *catalog.Table, idColumn string) Overview {
	o := Overview{
		TotalItems:  t.Len(),
		ColumnCount: t.ColumnCount(),
	}

	if p, ok := profile.AnalyzeColumn(t, idColumn); ok {
		o.UniqueIdentifiers = p.UniqueCount
		o.PossibleDuplicates = o.TotalItems - p.UniqueCount
	}

	return o
}

// CategoryCount is one bar of the category histogram.
type CategoryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// CountByColumn computes value counts for a column, most frequent first.
// Ties break on the value string so output is deterministic across runs.
// Null cells are excluded, matching the fill-rate notion of "meaningful".
// An absent column yields an empty slice.
func CountByColumn(t *catalog.Table, column string) []CategoryCount {
	ix, ok := t.ColumnIndex(column)
	if !ok {
		return nil
	}

	counts := make(map[string]int)
	for i := 0; i < t.Len(); i++ {
		v := t.Row(i)[ix]
		if v == nil {
			continue
		}
		counts[catalog.NormalizeKey(v)]++
	}

	out := make([]CategoryCount, 0, len(counts))
	for v, n := range counts {
		out = append(out, CategoryCount{Value: v, Count: n})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Value < out[j].Value
		}
		return out[i].Count > out[j].Count
	})

	return out
}

// CategorySamples returns the first limit rows whose category column matches
// value, projected to the requested columns. It backs the per-category
// drill-down listing. An absent category column yields an empty table with
// the projected schema.
func CategorySamples(t *catalog.Table, categoryColumn, value string, columns []string, limit int) *catalog.Table {
	ix, ok := t.ColumnIndex(categoryColumn)
	if !ok {
		return t.Select(nil).Project(columns)
	}

	var rows []int
	for i := 0; i < t.Len() && len(rows) < limit; i++ {
		v := t.Row(i)[ix]
		if v == nil {
			continue
		}
		if catalog.NormalizeKey(v) == value {
			rows = append(rows, i)
		}
	}

	return t.Select(rows).Project(columns)
}
