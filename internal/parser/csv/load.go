// Package csv loads delimited catalog exports into a catalog.Table.
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"catalogaudit/internal/catalog"
)

// Options control CSV parsing. The zero value is usable: comma separator,
// trimmed cells, strict quoting.
type Options struct {
	// Comma is the field separator. 0 means ','.
	Comma rune

	// TrimSpace trims surrounding whitespace from every cell. Headers are
	// always trimmed regardless.
	TrimSpace bool

	// LazyQuotes tolerates bare quotes inside fields; some upstream exports
	// need it.
	LazyQuotes bool

	// HeaderMap maps a raw (trimmed) header cell to a target column name,
	// applied before the default normalization. Lets callers pin localized
	// headers ("Código SKU") to canonical names ("sku").
	HeaderMap map[string]string

	// OnError receives recoverable row-level errors with their 1-based line
	// number. Bad rows are skipped, never fatal. May be nil.
	OnError func(line int, err error)
}

// Load reads an entire CSV stream into a table.
//
// Header handling: the first record is the header. Each cell is trimmed,
// BOM-stripped, passed through Options.HeaderMap, and otherwise normalized
// with catalog.NormalizeColumn.
//
// Cell handling: empty cells become nil (null). Rows with a field count
// different from the header are reported through OnError and skipped; a
// malformed row must not fail the load.
//
// Cancellation: ctx is checked between records, so a caller-imposed timeout
// bounds the scan of arbitrarily large inputs.
func Load(ctx context.Context, r io.Reader, opt Options) (*catalog.Table, error) {
	comma := opt.Comma
	if comma == 0 {
		comma = ','
	}

	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.ReuseRecord = true
	cr.LazyQuotes = opt.LazyQuotes
	// Field-count mismatches are handled per row, not as reader errors.
	cr.FieldsPerRecord = -1

	line := 0
	readRec := func() ([]string, error) {
		line++
		return cr.Read()
	}

	hdr, err := readRec()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("csv: empty input, no header")
		}
		return nil, fmt.Errorf("csv: read header: %w", err)
	}

	columns := make([]string, len(hdr))
	for i, h := range hdr {
		h = strings.TrimSpace(h)
		if i == 0 {
			h = strings.TrimPrefix(h, "\uFEFF")
		}
		if mapped, ok := opt.HeaderMap[h]; ok {
			columns[i] = mapped
			continue
		}
		columns[i] = catalog.NormalizeColumn(h)
	}

	t, err := catalog.New(columns)
	if err != nil {
		return nil, fmt.Errorf("csv: header: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		rec, err := readRec()
		if err == io.EOF {
			return t, nil
		}
		if err != nil {
			if opt.OnError != nil {
				opt.OnError(line, fmt.Errorf("csv read: %w", err))
			}
			continue
		}
		if len(rec) != len(columns) {
			if opt.OnError != nil {
				opt.OnError(line, fmt.Errorf("csv: %d fields, header has %d", len(rec), len(columns)))
			}
			continue
		}

		cells := make([]any, len(columns))
		for i, v := range rec {
			if opt.TrimSpace {
				v = strings.TrimSpace(v)
			}
			if v == "" {
				cells[i] = nil
			} else {
				cells[i] = v
			}
		}

		if err := t.AppendRow(cells); err != nil {
			// Unreachable given the arity check above; surface it anyway.
			if opt.OnError != nil {
				opt.OnError(line, err)
			}
		}
	}
}
