// Package table provides the in-memory relation passed between pipeline
// stages: an ordered column list plus a slice of records. Stages never mutate
// a table they receive; every operation returns a freshly built table, so
// intermediate results can be held or compared without aliasing surprises.
package table

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zeebo/xxh3"

	"oews/pkg/records"
)

// Table is a fully materialized relation. Column order is significant: it
// determines serialization order for export and fingerprinting.
type Table struct {
	cols []string
	rows []records.Record
}

// New returns an empty table with the given column order.
func New(cols []string) *Table {
	return &Table{cols: append([]string(nil), cols...)}
}

// Columns returns the column names in order. The returned slice is a copy.
func (t *Table) Columns() []string {
	return append([]string(nil), t.cols...)
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Rows returns the backing row slice. Callers must treat it as read-only.
func (t *Table) Rows() []records.Record { return t.rows }

// Row returns row i.
func (t *Table) Row(i int) records.Record { return t.rows[i] }

// Append adds a row. Keys not present in the column list are ignored by
// serialization; missing keys read as nil.
func (t *Table) Append(r records.Record) { t.rows = append(t.rows, r) }

// HasColumn reports whether name is one of the table's columns.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.cols {
		if c == name {
			return true
		}
	}
	return false
}

// RequireColumns returns an error naming the first column from names that the
// table lacks. Used for structural preconditions at the pipeline boundary.
func (t *Table) RequireColumns(names ...string) error {
	for _, n := range names {
		if !t.HasColumn(n) {
			return fmt.Errorf("missing required column %q (have: %s)", n, strings.Join(t.cols, ", "))
		}
	}
	return nil
}

// Filter returns a new table containing only the rows for which pred returns
// true. Row order is preserved; rows are shared, not copied.
func (t *Table) Filter(pred func(records.Record) bool) *Table {
	out := New(t.cols)
	for _, r := range t.rows {
		if pred(r) {
			out.rows = append(out.rows, r)
		}
	}
	return out
}

// DropColumns returns a new table without the named columns. Names not
// present are ignored, mirroring the permissive drop of the source system.
func (t *Table) DropColumns(names ...string) *Table {
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		drop[n] = struct{}{}
	}
	var keep []string
	for _, c := range t.cols {
		if _, ok := drop[c]; !ok {
			keep = append(keep, c)
		}
	}
	out := New(keep)
	for _, r := range t.rows {
		nr := make(records.Record, len(keep))
		for _, c := range keep {
			nr[c] = r[c]
		}
		out.rows = append(out.rows, nr)
	}
	return out
}

// Select returns a new table with exactly the named columns, in the given
// order. Missing source columns read as nil in every row.
func (t *Table) Select(names ...string) *Table {
	out := New(names)
	for _, r := range t.rows {
		nr := make(records.Record, len(names))
		for _, c := range names {
			nr[c] = r[c]
		}
		out.rows = append(out.rows, nr)
	}
	return out
}

// Fingerprint returns an xxh3 hash over a canonical serialization of the
// table (column order, then rows in order, with typed cell encoding). Two
// tables with identical schema and contents always hash equal, so repeated
// pipeline runs can be compared cheaply for the determinism guarantee.
func (t *Table) Fingerprint() uint64 {
	h := xxh3.New()
	for _, c := range t.cols {
		h.WriteString(c)
		h.Write([]byte{0x1f})
	}
	h.Write([]byte{0x1e})
	for _, r := range t.rows {
		for _, c := range t.cols {
			h.WriteString(encodeCell(r[c]))
			h.Write([]byte{0x1f})
		}
		h.Write([]byte{0x1e})
	}
	return h.Sum64()
}

// encodeCell renders a cell with a type tag so that nil, "" and 0 never
// collide in the fingerprint.
func encodeCell(v any) string {
	switch x := v.(type) {
	case nil:
		return "n:"
	case string:
		return "s:" + x
	case float64:
		return "f:" + strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return "o:" + fmt.Sprint(x)
	}
}
