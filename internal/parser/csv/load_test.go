package csv

import (
	"context"
	"strings"
	"testing"
)

// TestLoad_BasicTable verifies the common path: header normalization, cells
// loaded in order, empty cells as nulls.
func TestLoad_BasicTable(t *testing.T) {
	t.Parallel()

	in := "SKU,Product Name,Category\nA1,Widget,tools\nA2,,tools\n"
	tab, err := Load(context.Background(), strings.NewReader(in), Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	wantCols := []string{"sku", "product_name", "category"}
	cols := tab.Columns()
	if len(cols) != len(wantCols) {
		t.Fatalf("Columns()=%v, want %v", cols, wantCols)
	}
	for i := range wantCols {
		if cols[i] != wantCols[i] {
			t.Fatalf("Columns()=%v, want %v", cols, wantCols)
		}
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

// TestLoad_BOMHeader verifies a UTF-8 BOM on the first header cell does not
// leak into the column name.
func TestLoad_BOMHeader(t *testing.T) {
	t.Parallel()

	in := "\uFEFFsku,name\nA1,Widget\n"
	tab, err := Load(context.Background(), strings.NewReader(in), Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := tab.ColumnIndex("sku"); !ok {
		t.Fatalf("Columns()=%v, want first column sku", tab.Columns())
	}
}

// TestLoad_HeaderMap verifies raw localized headers can be pinned to
// canonical names before normalization.
func TestLoad_HeaderMap(t *testing.T) {
	t.Parallel()

	in := "Código SKU,Nome\nA1,Widget\n"
	tab, err := Load(context.Background(), strings.NewReader(in), Options{
		HeaderMap: map[string]string{"Código SKU": "sku", "Nome": "name"},
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := tab.ColumnIndex("sku"); !ok {
		t.Fatalf("Columns()=%v, want sku mapped", tab.Columns())
	}
	if _, ok := tab.ColumnIndex("name"); !ok {
		t.Fatalf("Columns()=%v, want name mapped", tab.Columns())
	}
}

// TestLoad_SkipsBadRows verifies rows with the wrong field count are
// reported and skipped without failing the load.
func TestLoad_SkipsBadRows(t *testing.T) {
	t.Parallel()

	in := "sku,name\nA1,Widget\nA2\nA3,Gadget\n"
	var badLines []int
	tab, err := Load(context.Background(), strings.NewReader(in), Options{
		OnError: func(line int, err error) { badLines = append(badLines, line) },
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tab.Len() != 2 {
		t.Fatalf("Len()=%d, want 2 (bad row skipped)", tab.Len())
	}
	if len(badLines) != 1 || badLines[0] != 3 {
		t.Fatalf("OnError lines=%v, want [3]", badLines)
	}
}

// TestLoad_TrimSpace verifies cell trimming turns whitespace-only cells into
// nulls when enabled.
func TestLoad_TrimSpace(t *testing.T) {
	t.Parallel()

	in := "sku,name\n A1 ,   \n"
	tab, err := Load(context.Background(), strings.NewReader(in), Options{TrimSpace: true})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if v, _ := tab.Value(0, "sku"); v != "A1" {
		t.Fatalf("sku=%q, want A1", v)
	}
	if v, _ := tab.Value(0, "name"); v != nil {
		t.Fatalf("name=%v, want nil", v)
	}
}

// TestLoad_Semicolon verifies alternate delimiters, common in European
// exports.
func TestLoad_Semicolon(t *testing.T) {
	t.Parallel()

	in := "sku;name\nA1;Widget\n"
	tab, err := Load(context.Background(), strings.NewReader(in), Options{Comma: ';'})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if v, _ := tab.Value(0, "name"); v != "Widget" {
		t.Fatalf("name=%v, want Widget", v)
	}
}

// TestLoad_EmptyInput verifies a stream with no header is a hard error, not
// an empty table.
func TestLoad_EmptyInput(t *testing.T) {
	t.Parallel()

	if _, err := Load(context.Background(), strings.NewReader(""), Options{}); err == nil {
		t.Fatal("Load of empty input: want error, got nil")
	}
}

// TestLoad_ContextCanceled verifies cancellation stops the scan.
func TestLoad_ContextCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in := "sku\nA1\nA2\n"
	if _, err := Load(ctx, strings.NewReader(in), Options{}); err != context.Canceled {
		t.Fatalf("Load with canceled ctx: err=%v, want context.Canceled", err)
	}
}

// TestLoad_HeaderOnly verifies a header with no data rows yields an empty
// table rather than an error.
func TestLoad_HeaderOnly(t *testing.T) {
	t.Parallel()

	tab, err := Load(context.Background(), strings.NewReader("sku,name\n"), Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tab.Len() != 0 {
		t.Fatalf("Len()=%d, want 0", tab.Len())
	}
	if tab.ColumnCount() != 2 {
		t.Fatalf("ColumnCount()=%d, want 2", tab.ColumnCount())
	}
}
