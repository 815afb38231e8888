package report

import (
	"fmt"
	"strings"

	"catalogaudit/internal/profile"
)

// FormatReport renders the audit summary as plain text for terminals and
// scripts: overview line, per-column profile table, category histogram and
// the duplicate count. Chart rendering stays with the caller; this output is
// deliberately grep-friendly.
func FormatReport(o Overview, profiles []profile.ColumnProfile, categories []CategoryCount, dups profile.DuplicateSet) string {
	var b strings.Builder

	fmt.Fprintf(&b, "catalog audit:\titems=%d\tcolumns=%d\tunique_ids=%d\tpossible_dups=%d\n",
		o.TotalItems, o.ColumnCount, o.UniqueIdentifiers, o.PossibleDuplicates)

	if len(profiles) > 0 {
		fmt.Fprintf(&b, "%-20s\t%-7s\t%-7s\t%-7s\t%-8s\tunique\n", "col", "total", "filled", "empty", "fill")
		for _, p := range profiles {
			fmt.Fprintf(&b, "%-20s\t%-7d\t%-7d\t%-7d\t%-8s\t%d\n",
				p.Column, p.Total, p.Filled, p.Empty, p.FillRate, p.UniqueCount)
		}
	}

	if len(categories) > 0 {
		fmt.Fprintf(&b, "categories:\n")
		for _, c := range categories {
			fmt.Fprintf(&b, "%-20s\t%d\n", c.Value, c.Count)
		}
	}

	if dups.Len() > 0 {
		fmt.Fprintf(&b, "duplicates:\tkey=%s\trows=%d\n", dups.KeyColumn, dups.Len())
	} else {
		fmt.Fprintf(&b, "duplicates:\tnone\n")
	}

	return strings.TrimRight(b.String(), "\n")
}
