package catalog

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// accentFolder strips combining marks after canonical decomposition, so
// "Categoria Única" and "Categoria Unica" normalize to the same key.
// Catalog exports are frequently accent-inconsistent between systems.
var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeColumn converts a raw header cell into a canonical column name:
// BOM and surrounding space stripped, accents folded, lowercased, inner
// spaces replaced with underscores.
func NormalizeColumn(raw string) string {
	s := strings.TrimPrefix(raw, "\uFEFF")
	s = strings.TrimSpace(s)
	if folded, _, err := transform.String(accentFolder, s); err == nil {
		s = folded
	}
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, " ", "_")
}

// NormalizeKey converts a cell value to a canonical string form, suitable for
// distinct counting and duplicate-key grouping (e.g. "SKU-001 " and "SKU-001"
// group together).
//
// nil normalizes to the empty string, which makes null keys compare equal to
// each other. Callers relying on that behavior should note that parsers store
// empty cells as nil, so "" never collides with a real value.
func NormalizeKey(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case []byte:
		return strings.TrimSpace(string(t))
	case int64:
		return fmt.Sprintf("%d", t)
	case int:
		return fmt.Sprintf("%d", t)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
