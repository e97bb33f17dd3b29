// Package export serializes the final relation. The CSV writer stages output
// in a temporary file and renames it into place, so a failed run never leaves
// a partially written dataset behind.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"oews/internal/table"
)

// WriteCSV writes t to path as RFC 4180 CSV with a header row. nil cells
// render as empty fields; floats render with the minimal digits that
// round-trip. The write is atomic: data goes to a temp file in the target
// directory first and is renamed over path only after a successful flush.
func WriteCSV(t *table.Table, path string) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("export csv: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	w := csv.NewWriter(tmp)
	cols := t.Columns()
	if err = w.Write(cols); err != nil {
		return fmt.Errorf("export csv: header: %w", err)
	}

	row := make([]string, len(cols))
	for _, r := range t.Rows() {
		for i, c := range cols {
			row[i] = formatCell(r[c])
		}
		if err = w.Write(row); err != nil {
			return fmt.Errorf("export csv: %w", err)
		}
	}

	w.Flush()
	if err = w.Error(); err != nil {
		return fmt.Errorf("export csv: flush: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("export csv: close: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("export csv: rename: %w", err)
	}
	return nil
}

// formatCell renders one cell for CSV output.
func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
