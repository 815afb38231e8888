package report

import (
	"reflect"
	"strings"
	"testing"

	"catalogaudit/internal/catalog"
	"catalogaudit/internal/profile"
)

func mustTable(t *testing.T, columns []string, rows ...[]any) *catalog.Table {
	t.Helper()

	tab, err := catalog.New(columns)
	if err != nil {
		t.Fatalf("catalog.New(%v): %v", columns, err)
	}
	for i, r := range rows {
		if err := tab.AppendRow(r); err != nil {
			t.Fatalf("AppendRow %d: %v", i, err)
		}
	}
	return tab
}

// TestSummarize verifies the overview metrics, including the
// possible-duplicates delta between row count and distinct identifiers.
func TestSummarize(t *testing.T) {
	t.Parallel()

	tab := mustTable(t, []string{"sku", "name", "category"},
		[]any{"a", "one", "x"},
		[]any{"b", "two", "x"},
		[]any{"a", "three", "y"},
	)

	o := Summarize(tab, "sku")
	want := Overview{TotalItems: 3, ColumnCount: 3, UniqueIdentifiers: 2, PossibleDuplicates: 1}
	if o != want {
		t.Fatalf("Summarize()=%+v, want %+v", o, want)
	}
}

// TestSummarize_MissingIDColumn verifies identifier metrics degrade to zero
// when the identifier column is absent.
func TestSummarize_MissingIDColumn(t *testing.T) {
	t.Parallel()

	tab := mustTable(t, []string{"name"}, []any{"one"})
	o := Summarize(tab, "sku")
	if o.UniqueIdentifiers != 0 || o.PossibleDuplicates != 0 {
		t.Fatalf("identifier metrics=(%d,%d), want zeros", o.UniqueIdentifiers, o.PossibleDuplicates)
	}
	if o.TotalItems != 1 || o.ColumnCount != 1 {
		t.Fatalf("table metrics=(%d,%d), want (1,1)", o.TotalItems, o.ColumnCount)
	}
}

// TestCountByColumn verifies histogram ordering: count descending, ties
// broken by value, nulls excluded, missing column yields nil.
func TestCountByColumn(t *testing.T) {
	t.Parallel()

	tab := mustTable(t, []string{"category"},
		[]any{"b"}, []any{"a"}, []any{nil}, []any{"b"}, []any{"c"}, []any{"a"},
	)

	got := CountByColumn(tab, "category")
	want := []CategoryCount{
		{Value: "a", Count: 2},
		{Value: "b", Count: 2},
		{Value: "c", Count: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("CountByColumn()=%v, want %v", got, want)
	}

	if got := CountByColumn(tab, "missing"); got != nil {
		t.Fatalf("CountByColumn(missing)=%v, want nil", got)
	}
}

// TestCategorySamples verifies per-category drill-down: first N matching
// rows, projected columns, bounded by limit.
func TestCategorySamples(t *testing.T) {
	t.Parallel()

	tab := mustTable(t, []string{"sku", "name", "category"},
		[]any{"1", "one", "x"},
		[]any{"2", "two", "y"},
		[]any{"3", "three", "x"},
		[]any{"4", "four", "x"},
	)

	sub := CategorySamples(tab, "category", "x", []string{"sku", "name"}, 2)
	if got := sub.Columns(); !reflect.DeepEqual(got, []string{"sku", "name"}) {
		t.Fatalf("Columns()=%v, want [sku name]", got)
	}
	if sub.Len() != 2 {
		t.Fatalf("Len()=%d, want 2 (limit)", sub.Len())
	}
	if v, _ := sub.Value(0, "sku"); v != "1" {
		t.Fatalf("row 0 sku=%v, want 1", v)
	}
	if v, _ := sub.Value(1, "sku"); v != "3" {
		t.Fatalf("row 1 sku=%v, want 3", v)
	}
}

// TestFormatReport verifies the text artifact carries the headline numbers
// and the per-column rows.
func TestFormatReport(t *testing.T) {
	t.Parallel()

	tab := mustTable(t, []string{"sku", "category"},
		[]any{"a", "x"},
		[]any{"a", "x"},
		[]any{"b", nil},
	)

	o := Summarize(tab, "sku")
	p, _ := profile.AnalyzeColumn(tab, "category")
	dups := profile.FindDuplicates(tab, []string{"sku"}, profile.MethodExact)

	out := FormatReport(o, []profile.ColumnProfile{p}, CountByColumn(tab, "category"), dups)

	for _, want := range []string{
		"items=3",
		"unique_ids=2",
		"category",
		"66.7%",
		"duplicates:\tkey=sku\trows=2",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}

// TestFormatReport_NoDuplicates verifies the explicit "none" line so scripts
// can grep for a stable token.
func TestFormatReport_NoDuplicates(t *testing.T) {
	t.Parallel()

	tab := mustTable(t, []string{"sku"}, []any{"a"}, []any{"b"})
	dups := profile.FindDuplicates(tab, []string{"sku"}, profile.MethodExact)

	out := FormatReport(Summarize(tab, "sku"), nil, nil, dups)
	if !strings.Contains(out, "duplicates:\tnone") {
		t.Fatalf("report missing duplicates none line:\n%s", out)
	}
}
