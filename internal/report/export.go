package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"catalogaudit/internal/catalog"
)

// WriteCSV serializes a table as delimited text: header row first, then data
// rows in table order. Null cells render as empty fields. This backs the
// "export duplicates" artifact, so it must round-trip through the CSV parser
// (which reads empty fields back as nulls).
func WriteCSV(w io.Writer, t *catalog.Table) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.Columns()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	record := make([]string, t.ColumnCount())
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		for j, v := range row {
			if v == nil {
				record[j] = ""
				continue
			}
			record[j] = fmt.Sprint(v)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
