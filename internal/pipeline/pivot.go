package pipeline

import (
	"sort"
	"strings"

	"oews/internal/table"
	"oews/pkg/records"
)

// pivot reshapes a long-format relation (one value per row) into wide format:
// one output row per distinct composite key, one column per distinct label.
//
// Policies, all deterministic:
//   - Grouping: output rows appear in first-encounter order of their key.
//   - Cell value: the first non-nil value encountered in input order for a
//     (key, label) pair wins. Later non-nil values for an already-populated
//     cell are counted as collisions and discarded; series that fan out to
//     multiple reporting periods lose everything after the first.
//   - Column order: key columns first, then the distinct labels sorted
//     lexicographically, so output column order is reproducible across runs
//     regardless of input arrangement.
//
// Rows whose label cell is not a string are impossible after the null-fill
// stage and are skipped defensively. Cells with no value for a label stay nil.
func pivot(t *table.Table, keyCols []string, labelCol, valueCol string) (*table.Table, int) {
	type group struct {
		keys  records.Record
		cells map[string]any
	}

	var (
		order      []string          // group keys in first-encounter order
		groups     = map[string]*group{}
		labelSeen  = map[string]struct{}{}
		collisions int
	)

	for _, r := range t.Rows() {
		label, ok := r[labelCol].(string)
		if !ok {
			continue
		}
		labelSeen[label] = struct{}{}

		gk := compositeKey(r, keyCols)
		g, ok := groups[gk]
		if !ok {
			keys := make(records.Record, len(keyCols))
			for _, c := range keyCols {
				keys[c] = r[c]
			}
			g = &group{keys: keys, cells: map[string]any{}}
			groups[gk] = g
			order = append(order, gk)
		}

		v := r[valueCol]
		if v == nil {
			continue
		}
		if _, taken := g.cells[label]; taken {
			collisions++
			continue
		}
		g.cells[label] = v
	}

	labels := make([]string, 0, len(labelSeen))
	for l := range labelSeen {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	out := table.New(append(append([]string(nil), keyCols...), labels...))
	for _, gk := range order {
		g := groups[gk]
		row := make(records.Record, len(keyCols)+len(labels))
		for _, c := range keyCols {
			row[c] = g.keys[c]
		}
		for _, l := range labels {
			row[l] = g.cells[l] // nil when the group never saw the label
		}
		out.Append(row)
	}
	return out, collisions
}

// compositeKey renders the key columns of a row into a single map key. The
// unit separator keeps ("a","bc") and ("ab","c") distinct; nil is encoded
// apart from the empty string.
func compositeKey(r records.Record, keyCols []string) string {
	var b strings.Builder
	for i, c := range keyCols {
		if i > 0 {
			b.WriteByte(0x1f)
		}
		switch v := r[c].(type) {
		case nil:
			b.WriteByte(0x00)
		case string:
			b.WriteString(v)
		}
	}
	return b.String()
}
