// Package catalog provides the in-memory table model shared by the parsers,
// the profiler and the report layer.
//
// A Table is an ordered set of uniform-schema records: a fixed column list
// plus row-major storage. Cells are nullable scalars; nil represents a null.
// Tables are append-only while being loaded and treated as read-only
// snapshots afterwards, so they are safe to share across concurrent readers.
package catalog

import "fmt"

// Table holds an ordered column list and row-major cell storage.
//
// Invariants:
//   - Every row has exactly len(Columns()) cells.
//   - Column names are unique (enforced by New).
//   - nil cells represent nulls.
type Table struct {
	cols  []string
	colIx map[string]int
	rows  [][]any
}

// New creates an empty table with the given column set.
//
// Errors:
//   - Returns an error if columns is empty, contains an empty name, or
//     contains duplicates. Callers (parsers) normalize names first.
func New(columns []string) (*Table, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("catalog: table needs at least one column")
	}

	ix := make(map[string]int, len(columns))
	for i, c := range columns {
		if c == "" {
			return nil, fmt.Errorf("catalog: empty column name at position %d", i)
		}
		if _, dup := ix[c]; dup {
			return nil, fmt.Errorf("catalog: duplicate column %q", c)
		}
		ix[c] = i
	}

	return &Table{
		cols:  append([]string(nil), columns...),
		colIx: ix,
		rows:  nil,
	}, nil
}

// Columns returns the column names in schema order.
// The returned slice is a copy; mutating it does not affect the table.
func (t *Table) Columns() []string {
	return append([]string(nil), t.cols...)
}

// ColumnCount returns the number of columns.
func (t *Table) ColumnCount() int { return len(t.cols) }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// ColumnIndex resolves a column name to its schema position.
//
// A missing column is a recoverable lookup miss, not a fault: ok is false and
// no error is raised. This mirrors how callers probe for optional columns
// ("category", "name") that a given catalog export may or may not carry.
func (t *Table) ColumnIndex(name string) (int, bool) {
	i, ok := t.colIx[name]
	return i, ok
}

// AppendRow appends one record. The cell count must match the column count.
func (t *Table) AppendRow(cells []any) error {
	if len(cells) != len(t.cols) {
		return fmt.Errorf("catalog: row has %d cells, table has %d columns", len(cells), len(t.cols))
	}
	t.rows = append(t.rows, cells)
	return nil
}

// Row returns the cells of row i in schema order.
// The slice is shared with the table; callers must not mutate it.
func (t *Table) Row(i int) []any { return t.rows[i] }

// Value returns the cell at (row, column). ok is false when the column does
// not exist. A nil cell with ok=true is a genuine null.
func (t *Table) Value(row int, column string) (any, bool) {
	i, ok := t.colIx[column]
	if !ok {
		return nil, false
	}
	return t.rows[row][i], true
}

// Select builds a subset table containing the given rows, in the given order,
// with the full column set. Row slices are shared with the receiver, which is
// safe because tables are read-only once loaded.
func (t *Table) Select(rows []int) *Table {
	sub := &Table{
		cols:  t.cols,
		colIx: t.colIx,
		rows:  make([][]any, 0, len(rows)),
	}
	for _, i := range rows {
		sub.rows = append(sub.rows, t.rows[i])
	}
	return sub
}

// Project builds a subset table restricted to the given columns, preserving
// row order. Unknown columns are skipped rather than failing, consistent with
// the lookup-miss policy of ColumnIndex.
func (t *Table) Project(columns []string) *Table {
	var keep []string
	var keepIx []int
	for _, c := range columns {
		if i, ok := t.colIx[c]; ok {
			keep = append(keep, c)
			keepIx = append(keepIx, i)
		}
	}

	ix := make(map[string]int, len(keep))
	for i, c := range keep {
		ix[c] = i
	}

	sub := &Table{
		cols:  keep,
		colIx: ix,
		rows:  make([][]any, 0, len(t.rows)),
	}
	for _, r := range t.rows {
		cells := make([]any, len(keepIx))
		for j, src := range keepIx {
			cells[j] = r[src]
		}
		sub.rows = append(sub.rows, cells)
	}
	return sub
}
