package catalog

import "testing"

// TestNormalizeColumn verifies header canonicalization: BOM strip, trim,
// accent folding, lowercasing, underscore substitution.
func TestNormalizeColumn(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "sku", want: "sku"},
		{name: "trim_and_lower", in: "  SKU  ", want: "sku"},
		{name: "spaces_to_underscores", in: "Product Name", want: "product_name"},
		{name: "bom_stripped", in: "\uFEFFsku", want: "sku"},
		{name: "accents_folded", in: "Categoria Única", want: "categoria_unica"},
		{name: "cedilla", in: "Descrição", want: "descricao"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeColumn(tt.in); got != tt.want {
				t.Fatalf("NormalizeColumn(%q)=%q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// TestNormalizeKey verifies value canonicalization across the scalar types
// parsers produce, including the nil-to-empty contract.
func TestNormalizeKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "nil", in: nil, want: ""},
		{name: "string_trimmed", in: "  SKU-1 ", want: "SKU-1"},
		{name: "bytes", in: []byte(" b "), want: "b"},
		{name: "int", in: 42, want: "42"},
		{name: "int64", in: int64(42), want: "42"},
		{name: "bool_fallback", in: true, want: "true"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeKey(tt.in); got != tt.want {
				t.Fatalf("NormalizeKey(%v)=%q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
