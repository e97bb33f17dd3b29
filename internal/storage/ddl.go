package storage

import (
	"context"
	"fmt"
	"strings"
)

// ColumnDef is one column of the destination table.
type ColumnDef struct {
	Name    string
	SQLType string
}

// textColumns are the final relation's string-valued columns; every other
// column is a pivoted wage measure and therefore numeric.
var textColumns = map[string]struct{}{
	"occupation_code":        {},
	"area_code":              {},
	"occupation_name":        {},
	"occupation_description": {},
}

// DefsFromColumns derives the destination schema from the final relation's
// column order. The pivot-label columns are only known at runtime, so the
// schema cannot be declared statically.
func DefsFromColumns(cols []string) []ColumnDef {
	defs := make([]ColumnDef, len(cols))
	for i, c := range cols {
		typ := "REAL"
		if _, ok := textColumns[c]; ok {
			typ = "TEXT"
		}
		defs[i] = ColumnDef{Name: c, SQLType: typ}
	}
	return defs
}

// EnsureTable creates the destination table if it does not exist. The
// generated DDL uses double-quoted identifiers, which both supported backends
// accept; label columns contain spaces and must be quoted.
func EnsureTable(ctx context.Context, repo Repository, table string, defs []ColumnDef) error {
	if len(defs) == 0 {
		return fmt.Errorf("ensure table %s: no columns", table)
	}
	parts := make([]string, len(defs))
	for i, d := range defs {
		parts[i] = QuoteIdent(d.Name) + " " + d.SQLType
	}
	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", QuoteIdent(table), strings.Join(parts, ", "))
	if err := repo.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensure table %s: %w", table, err)
	}
	return nil
}

// QuoteIdent double-quotes an SQL identifier, escaping embedded quotes.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Store bulk-inserts rows in batches of batchSize and returns the total
// written. Rows must be aligned to columns.
func Store(ctx context.Context, repo Repository, columns []string, rows [][]any, batchSize int) (int64, error) {
	if batchSize <= 0 {
		return 0, fmt.Errorf("batchSize must be > 0")
	}
	var total int64
	for start := 0; start < len(rows); start += batchSize {
		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		n, err := repo.CopyFrom(ctx, columns, rows[start:end])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
