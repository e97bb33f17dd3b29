// Package records defines the dynamic record shape shared by parsers,
// pipeline stages, and storage sinks. A Record maps column names to cell
// values; a nil value represents SQL-style NULL (missing data), which is
// distinct from an absent key (column not present at all).
package records

// Record is one row of a table keyed by column name.
type Record map[string]any

// Clone returns a shallow copy of the record. Cell values are shared, which
// is safe because the pipeline treats cells as immutable once parsed.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// String returns the value for key as a string, or "" when the value is nil,
// absent, or not a string.
func (r Record) String(key string) string {
	if v, ok := r[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Float returns the value for key as a float64 plus whether a float was
// present. nil and non-float values report false.
func (r Record) Float(key string) (float64, bool) {
	if v, ok := r[key]; ok {
		if f, ok := v.(float64); ok {
			return f, true
		}
	}
	return 0, false
}
