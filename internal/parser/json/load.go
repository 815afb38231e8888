// Package json loads JSON catalog exports into a catalog.Table.
//
// Supported shapes:
//   - root array of objects: each element becomes one row
//   - root object containing an array-of-objects field: the first such field
//     is streamed as the record set (envelope pattern)
//   - root object with no array-of-objects field: one row
package json

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"catalogaudit/internal/catalog"
)

// Options control JSON parsing.
type Options struct {
	// ArrayJoinSeparator flattens array values ([]any of scalars) into one
	// scalar string. Empty means ",".
	ArrayJoinSeparator string

	// KeyMap maps a raw object key to a target column name, applied before
	// the default normalization.
	KeyMap map[string]string

	// OnError receives recoverable record-level errors with a 1-based record
	// number. Bad records are skipped. May be nil.
	OnError func(record int, err error)
}

// Load reads a whole JSON document into a table.
//
// Columns are the union of keys across records, in first-seen order, with
// names normalized via Options.KeyMap then catalog.NormalizeColumn. Rows
// decoded before a late-appearing key hold nil for it, which is exactly the
// null semantics the profiler expects from sparse exports.
//
// Scalar handling: numbers decode as json.Number (no float rounding in the
// profile samples), null as nil, arrays of scalars flatten with the join
// separator, nested objects are skipped as non-tabular with an OnError
// notification.
func Load(ctx context.Context, r io.Reader, opt Options) (*catalog.Table, error) {
	sep := strings.TrimSpace(opt.ArrayJoinSeparator)
	if sep == "" {
		sep = ","
	}

	dec := json.NewDecoder(r)
	dec.UseNumber()

	var (
		columns []string
		colIx   = map[string]int{}
		rows    [][]any
		record  int
	)

	appendObject := func(obj map[string]any) {
		record++

		// Register unseen keys first so the row can be sized to the current
		// schema. Decoded maps lose document order, so keys introduced by the
		// same record are registered alphabetically to keep the column order
		// deterministic across runs.
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			name := normalizeKeyName(k, opt.KeyMap)
			if _, ok := colIx[name]; !ok {
				colIx[name] = len(columns)
				columns = append(columns, name)
			}
		}

		cells := make([]any, len(columns))
		for k, v := range obj {
			name := normalizeKeyName(k, opt.KeyMap)
			sv, ok := flattenScalar(v, sep)
			if !ok {
				if opt.OnError != nil {
					opt.OnError(record, fmt.Errorf("json: field %q is not tabular (%T)", k, v))
				}
				continue
			}
			cells[colIx[name]] = sv
		}
		rows = append(rows, cells)
	}

	if err := streamObjects(ctx, dec, appendObject, opt.OnError); err != nil {
		return nil, err
	}

	if len(columns) == 0 {
		return nil, fmt.Errorf("json: no records with fields found")
	}

	t, err := catalog.New(columns)
	if err != nil {
		return nil, fmt.Errorf("json: columns: %w", err)
	}
	for _, cells := range rows {
		// Earlier rows can be shorter than the final schema; pad with nulls.
		if len(cells) < len(columns) {
			padded := make([]any, len(columns))
			copy(padded, cells)
			cells = padded
		}
		if err := t.AppendRow(cells); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func normalizeKeyName(k string, keyMap map[string]string) string {
	if mapped, ok := keyMap[k]; ok {
		return mapped
	}
	return catalog.NormalizeColumn(k)
}

// flattenScalar converts a decoded JSON value into a nullable table scalar.
// ok is false for values that have no tabular representation (nested objects,
// arrays containing objects).
func flattenScalar(v any, sep string) (any, bool) {
	switch t := v.(type) {
	case nil:
		return nil, true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil, true
		}
		return s, true
	case json.Number, bool:
		return t, true
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			se, ok := flattenScalar(e, sep)
			if !ok {
				return nil, false
			}
			if se == nil {
				continue
			}
			parts = append(parts, fmt.Sprint(se))
		}
		if len(parts) == 0 {
			return nil, true
		}
		return strings.Join(parts, sep), true
	default:
		return nil, false
	}
}

// streamObjects walks the document with a streaming decoder so a large root
// array never needs to be buffered as one value.
func streamObjects(ctx context.Context, dec *json.Decoder, emit func(map[string]any), onErr func(record int, err error)) error {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return fmt.Errorf("json: empty input")
		}
		return fmt.Errorf("json: read first token: %w", err)
	}

	d, ok := tok.(json.Delim)
	if !ok {
		return fmt.Errorf("json: unsupported root token %T (want object or array)", tok)
	}

	switch d {
	case '[':
		n := 0
		for dec.More() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			n++
			var raw any
			if err := dec.Decode(&raw); err != nil {
				return fmt.Errorf("json: decode array element %d: %w", n, err)
			}
			if raw == nil {
				continue
			}
			obj, ok := raw.(map[string]any)
			if !ok {
				if onErr != nil {
					onErr(n, fmt.Errorf("json: array element is %T, not an object", raw))
				}
				continue
			}
			emit(obj)
		}
		return nil

	case '{':
		// Envelope or single object: buffer the root object, then pick the
		// first array-of-objects field if one exists.
		root, order, err := decodeObjectFields(dec)
		if err != nil {
			return err
		}

		for _, k := range order {
			arr, ok := root[k].([]any)
			if !ok || len(arr) == 0 {
				continue
			}
			if _, isObj := arr[0].(map[string]any); !isObj {
				continue
			}
			for i, e := range arr {
				obj, ok := e.(map[string]any)
				if !ok {
					if onErr != nil {
						onErr(i+1, fmt.Errorf("json: envelope element is %T, not an object", e))
					}
					continue
				}
				emit(obj)
			}
			return nil
		}

		emit(root)
		return nil

	default:
		return fmt.Errorf("json: unsupported root delimiter %q", d)
	}
}

// decodeObjectFields reads the fields of the current object (opening brace
// already consumed) into a map plus document-order key list, then consumes
// the closing brace. Key order matters for picking the first envelope field
// deterministically.
func decodeObjectFields(dec *json.Decoder) (map[string]any, []string, error) {
	obj := make(map[string]any)
	var order []string
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil, fmt.Errorf("json: read object key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("json: object key is %T, not a string", keyTok)
		}
		var val any
		if err := dec.Decode(&val); err != nil {
			return nil, nil, fmt.Errorf("json: decode value of %q: %w", key, err)
		}
		obj[key] = val
		order = append(order, key)
	}
	if end, err := dec.Token(); err != nil {
		return nil, nil, fmt.Errorf("json: read object end: %w", err)
	} else if end != json.Delim('}') {
		return nil, nil, fmt.Errorf("json: expected object end, got %v", end)
	}
	return obj, order, nil
}
