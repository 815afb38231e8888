package storage

import (
	"encoding/json"
	"fmt"

	"catalogaudit/internal/catalog"
	"catalogaudit/internal/profile"
)

// DuplicateRow is the backend-neutral wire form of one duplicated record:
// the canonical key value, the position within the duplicate set, and the
// full record as a JSON object keyed by column name.
type DuplicateRow struct {
	KeyValue string
	RowIndex int
	RowJSON  []byte
}

// EncodeDuplicateRows flattens a duplicate set for insertion. Backends share
// this encoding so a run stored in SQLite reads back the same as one stored
// in Postgres.
func EncodeDuplicateRows(set profile.DuplicateSet) ([]DuplicateRow, error) {
	if set.Rows == nil || set.Rows.Len() == 0 {
		return nil, nil
	}

	cols := set.Rows.Columns()
	out := make([]DuplicateRow, 0, set.Rows.Len())

	for i := 0; i < set.Rows.Len(); i++ {
		row := set.Rows.Row(i)

		obj := make(map[string]any, len(cols))
		for j, c := range cols {
			obj[c] = row[j]
		}
		payload, err := json.Marshal(obj)
		if err != nil {
			return nil, fmt.Errorf("storage: encode duplicate row %d: %w", i, err)
		}

		key := ""
		if v, ok := set.Rows.Value(i, set.KeyColumn); ok {
			key = catalog.NormalizeKey(v)
		}

		out = append(out, DuplicateRow{
			KeyValue: key,
			RowIndex: i,
			RowJSON:  payload,
		})
	}
	return out, nil
}
