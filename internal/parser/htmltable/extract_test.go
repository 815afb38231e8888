package htmltable

import (
	"reflect"
	"testing"
)

// TestExtract_HeaderAndRows verifies the common shape: th header row,
// normalized column names, td body rows, empty cells as nulls.
func TestExtract_HeaderAndRows(t *testing.T) {
	t.Parallel()

	html := `<html><body><table>
		<tr><th>SKU</th><th>Product Name</th></tr>
		<tr><td>A1</td><td>Widget</td></tr>
		<tr><td>A2</td><td></td></tr>
	</table></body></html>`

	tab, err := Extract(html, "")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if got := tab.Columns(); !reflect.DeepEqual(got, []string{"sku", "product_name"}) {
		t.Fatalf("Columns()=%v, want [sku product_name]", got)
	}
	if tab.Len() != 2 {
		t.Fatalf("Len()=%d, want 2", tab.Len())
	}
	if v, _ := tab.Value(0, "sku"); v != "A1" {
		t.Fatalf("row 0 sku=%v, want A1", v)
	}
	if v, _ := tab.Value(1, "product_name"); v != nil {
		t.Fatalf("row 1 product_name=%v, want nil", v)
	}
}

// TestExtract_TDHeader verifies the fallback when the table has no th cells:
// the first row becomes the header.
func TestExtract_TDHeader(t *testing.T) {
	t.Parallel()

	html := `<table>
		<tr><td>sku</td><td>name</td></tr>
		<tr><td>A1</td><td>Widget</td></tr>
	</table>`

	tab, err := Extract(html, "")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got := tab.Columns(); !reflect.DeepEqual(got, []string{"sku", "name"}) {
		t.Fatalf("Columns()=%v, want [sku name]", got)
	}
	if tab.Len() != 1 {
		t.Fatalf("Len()=%d, want 1", tab.Len())
	}
}

// TestExtract_Selector verifies a CSS selector picks the intended table when
// the page carries several.
func TestExtract_Selector(t *testing.T) {
	t.Parallel()

	html := `<body>
		<table id="nav"><tr><th>link</th></tr><tr><td>home</td></tr></table>
		<table id="catalog"><tr><th>sku</th></tr><tr><td>A1</td></tr></table>
	</body>`

	tab, err := Extract(html, "table#catalog")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if v, _ := tab.Value(0, "sku"); v != "A1" {
		t.Fatalf("row 0 sku=%v, want A1", v)
	}
}

// TestExtract_SkipsMismatchedRows verifies rows with a wrong cell count are
// dropped rather than failing the extraction.
func TestExtract_SkipsMismatchedRows(t *testing.T) {
	t.Parallel()

	html := `<table>
		<tr><th>sku</th><th>name</th></tr>
		<tr><td colspan="2">section break</td></tr>
		<tr><td>A1</td><td>Widget</td></tr>
	</table>`

	tab, err := Extract(html, "")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if tab.Len() != 1 {
		t.Fatalf("Len()=%d, want 1 (spanning row skipped)", tab.Len())
	}
}

// TestExtract_NoMatch verifies an unmatched selector is a hard error.
func TestExtract_NoMatch(t *testing.T) {
	t.Parallel()

	if _, err := Extract("<p>no tables here</p>", ""); err == nil {
		t.Fatal("Extract without a table: want error, got nil")
	}
	if _, err := Extract("<table><tr><th>sku</th></tr></table>", "table.missing"); err == nil {
		t.Fatal("Extract with unmatched selector: want error, got nil")
	}
}

// TestExtract_HeaderOnly verifies a table with only a header yields an empty
// table, leaving the "no rows" call to the profiler.
func TestExtract_HeaderOnly(t *testing.T) {
	t.Parallel()

	tab, err := Extract("<table><tr><th>sku</th></tr></table>", "")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if tab.Len() != 0 {
		t.Fatalf("Len()=%d, want 0", tab.Len())
	}
}
