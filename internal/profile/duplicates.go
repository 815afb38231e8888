package profile

import (
	"catalogaudit/internal/catalog"
)

// Method selects the duplicate-detection strategy.
//
// The selector is a closed set so the extension points stay explicit:
// name-similarity and combined matching are reserved variants that currently
// yield empty results deterministically rather than guessing similarity
// semantics.
type Method uint8

const (
	// MethodExact groups rows by the canonical value of the identifier column.
	MethodExact Method = iota

	// MethodNameSimilarity is reserved for fuzzy matching on the name column.
	// Not implemented; FindDuplicates returns an empty set.
	MethodNameSimilarity

	// MethodCombined is reserved for identifier+name matching.
	// Not implemented; FindDuplicates returns an empty set.
	MethodCombined
)

func (m Method) String() string {
	switch m {
	case MethodExact:
		return "exact"
	case MethodNameSimilarity:
		return "name-similarity"
	case MethodCombined:
		return "combined"
	}
	return "unknown"
}

// ParseMethod resolves a method tag. ok is false for unknown tags.
func ParseMethod(s string) (Method, bool) {
	switch s {
	case "exact":
		return MethodExact, true
	case "name-similarity":
		return MethodNameSimilarity, true
	case "combined":
		return MethodCombined, true
	}
	return MethodExact, false
}

// DefaultKeyColumns is the key set used when the caller passes none:
// identifier first, then name. Only the first entry is consulted by the
// exact method; the name column is carried for the reserved methods.
var DefaultKeyColumns = []string{"sku", "name"}

// DuplicateSet holds the rows of a table whose key value occurs at least
// twice. Rows keep their full column set and original relative order.
type DuplicateSet struct {
	// KeyColumn is the identifier column the grouping used. Empty when the
	// set is empty because the method was unsupported or the column absent.
	KeyColumn string

	// Rows is the subset table. Never nil; empty when nothing matched.
	Rows *catalog.Table
}

// Len returns the number of duplicated rows.
func (d DuplicateSet) Len() int {
	if d.Rows == nil {
		return 0
	}
	return d.Rows.Len()
}

// FindDuplicates returns every row whose value in the key column occurs two
// or more times in the table. This is a mark-all policy: all occurrences are
// returned, not only the extras, so the result is directly reviewable and
// exportable as-is.
//
// Only the first entry of keyColumns is used by MethodExact. When keyColumns
// is empty, DefaultKeyColumns applies.
//
// Deterministic empty results, never errors:
//   - method other than MethodExact
//   - key column absent from the table
//
// Keys are canonicalized with catalog.NormalizeKey, so nil keys group with
// each other: two rows both missing an identifier are reported as duplicates.
func FindDuplicates(t *catalog.Table, keyColumns []string, method Method) DuplicateSet {
	if len(keyColumns) == 0 {
		keyColumns = DefaultKeyColumns
	}
	key := keyColumns[0]

	if method != MethodExact {
		return DuplicateSet{Rows: t.Select(nil)}
	}

	ix, ok := t.ColumnIndex(key)
	if !ok {
		return DuplicateSet{Rows: t.Select(nil)}
	}

	// Pass 1: key multiplicities.
	counts := make(map[string]int, t.Len())
	for i := 0; i < t.Len(); i++ {
		counts[catalog.NormalizeKey(t.Row(i)[ix])]++
	}

	// Pass 2: collect all rows of keys seen more than once, original order.
	var dup []int
	for i := 0; i < t.Len(); i++ {
		if counts[catalog.NormalizeKey(t.Row(i)[ix])] >= 2 {
			dup = append(dup, i)
		}
	}

	return DuplicateSet{KeyColumn: key, Rows: t.Select(dup)}
}
