// Package htmltable extracts catalog rows from an HTML <table> element.
//
// Some upstream catalogs are only published as rendered pages; this package
// lets the audit run directly against such a page without an intermediate
// CSV export step.
package htmltable

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"catalogaudit/internal/catalog"
)

// Extract parses html and converts the first table matched by selector into
// a catalog.Table. An empty selector means "table".
//
// Header detection: the first row containing <th> cells is the header; when
// no row has <th>, the first row's <td> cells are used. Header cells are
// normalized with catalog.NormalizeColumn.
//
// Body rows with a cell count different from the header are skipped rather
// than failing, consistent with the parsers' best-effort policy. Empty cells
// become nil.
//
// A selector that matches nothing is an error: unlike a missing column, an
// absent table means the page is not the catalog the caller thinks it is.
func Extract(html, selector string) (*catalog.Table, error) {
	if strings.TrimSpace(selector) == "" {
		selector = "table"
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("htmltable: parse html: %w", err)
	}

	tableSel := doc.Find(selector).First()
	if tableSel.Length() == 0 {
		return nil, fmt.Errorf("htmltable: selector %q matched no table", selector)
	}

	var (
		t       *catalog.Table
		loadErr error
	)

	tableSel.Find("tr").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		if t == nil {
			header := cellTexts(tr, "th")
			if len(header) == 0 {
				header = cellTexts(tr, "td")
			}
			if len(header) == 0 {
				// Spacer row before the header; keep looking.
				return true
			}

			columns := make([]string, len(header))
			for i, h := range header {
				columns[i] = catalog.NormalizeColumn(h)
			}
			t, loadErr = catalog.New(columns)
			return loadErr == nil
		}

		cells := cellTexts(tr, "td")
		if len(cells) == 0 || len(cells) != t.ColumnCount() {
			return true
		}

		row := make([]any, len(cells))
		for i, v := range cells {
			if v == "" {
				row[i] = nil
			} else {
				row[i] = v
			}
		}
		loadErr = t.AppendRow(row)
		return loadErr == nil
	})

	if loadErr != nil {
		return nil, fmt.Errorf("htmltable: %w", loadErr)
	}
	if t == nil {
		return nil, fmt.Errorf("htmltable: table has no rows")
	}
	return t, nil
}

// cellTexts collects trimmed text of the given cell tag within one row,
// preserving DOM order.
func cellTexts(tr *goquery.Selection, tag string) []string {
	var out []string
	tr.Find(tag).Each(func(_ int, cell *goquery.Selection) {
		out = append(out, strings.TrimSpace(cell.Text()))
	})
	return out
}
