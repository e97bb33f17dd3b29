package pipeline

import (
	"oews/internal/table"
	"oews/pkg/records"
)

// rightSuffix disambiguates right-side columns whose names collide with a
// left-side column during a join. Collisions are resolved explicitly instead
// of silently overwriting the left value.
const rightSuffix = "_right"

// leftJoin performs an order-preserving left-outer hash join of left and
// right on the named key column.
//
// Semantics:
//   - Every left row appears in the output at least once, in input order.
//   - A left row matching n right rows fans out to n output rows (matches in
//     right-table input order); deduplication is not this stage's job.
//   - Unmatched left rows carry nil for every right-side column.
//   - A nil key on either side never matches anything.
//   - Right-side non-key columns that collide with a left column are renamed
//     with the "_right" suffix.
func leftJoin(left, right *table.Table, key string) *table.Table {
	// Output name for each right column; the key column is not duplicated.
	rightCols := make([]string, 0, len(right.Columns()))
	rightNames := make(map[string]string)
	for _, c := range right.Columns() {
		if c == key {
			continue
		}
		name := c
		if left.HasColumn(name) {
			name = name + rightSuffix
		}
		rightCols = append(rightCols, c)
		rightNames[c] = name
	}

	cols := left.Columns()
	for _, c := range rightCols {
		cols = append(cols, rightNames[c])
	}

	// Hash the right relation by key, preserving per-key input order.
	index := make(map[string][]records.Record, right.Len())
	for _, r := range right.Rows() {
		k, ok := keyOf(r, key)
		if !ok {
			continue
		}
		index[k] = append(index[k], r)
	}

	out := table.New(cols)
	for _, lr := range left.Rows() {
		k, ok := keyOf(lr, key)
		var matches []records.Record
		if ok {
			matches = index[k]
		}
		if len(matches) == 0 {
			out.Append(mergeRows(lr, nil, rightCols, rightNames))
			continue
		}
		for _, rr := range matches {
			out.Append(mergeRows(lr, rr, rightCols, rightNames))
		}
	}
	return out
}

// keyOf extracts the join key as a string. nil keys report false so they
// never participate in matching.
func keyOf(r records.Record, key string) (string, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	return "", false
}

// mergeRows builds a fresh output record from a left row and an optional
// matching right row. A nil right row fills every right-side column with nil.
func mergeRows(lr, rr records.Record, rightCols []string, rightNames map[string]string) records.Record {
	out := lr.Clone()
	for _, c := range rightCols {
		if rr == nil {
			out[rightNames[c]] = nil
			continue
		}
		out[rightNames[c]] = rr[c]
	}
	return out
}

// fillMissing returns a new table in which every nil cell of the named column
// is replaced by sentinel. It guarantees the pivot stage a non-nil grouping
// label for every row, so unlabeled rows can never be silently dropped or
// mis-bucketed.
func fillMissing(t *table.Table, col, sentinel string) (*table.Table, int) {
	out := table.New(t.Columns())
	var filled int
	for _, r := range t.Rows() {
		if r[col] != nil {
			out.Append(r)
			continue
		}
		nr := r.Clone()
		nr[col] = sentinel
		out.Append(nr)
		filled++
	}
	return out, filled
}
