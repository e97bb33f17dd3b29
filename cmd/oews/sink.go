// Sink wiring for the merge binary. This file keeps the CLI layer thin: it
// depends only on the storage-agnostic interfaces and never imports database
// drivers directly.
package main

import (
	"context"
	"fmt"

	"oews/internal/config"
	"oews/internal/export"
	"oews/internal/storage"
	"oews/internal/table"

	// register all backends with the storage factory.
	_ "oews/internal/storage/all"
)

// dbBatchSize bounds the per-transaction row count for database sinks.
const dbBatchSize = 10000

// writeOutput serializes the final relation to the configured sink.
func writeOutput(ctx context.Context, out config.Output, t *table.Table) error {
	switch out.Kind {
	case "csv":
		return export.WriteCSV(t, out.Path)
	case "sqlite", "postgres":
		return writeDB(ctx, out, t)
	default:
		return fmt.Errorf("unsupported output.kind=%s", out.Kind)
	}
}

// writeDB opens the configured repository, optionally creates the
// destination table, and bulk-inserts the relation.
func writeDB(ctx context.Context, out config.Output, t *table.Table) error {
	repo, err := storage.New(ctx, storage.Config{
		Kind:  out.Kind,
		DSN:   out.DB.DSN,
		Table: out.DB.Table,
	})
	if err != nil {
		return fmt.Errorf("init repo: %w", err)
	}
	defer repo.Close()

	cols := t.Columns()
	if out.DB.AutoCreateTable {
		if err := storage.EnsureTable(ctx, repo, out.DB.Table, storage.DefsFromColumns(cols)); err != nil {
			return err
		}
	}

	rows := make([][]any, t.Len())
	for i, r := range t.Rows() {
		row := make([]any, len(cols))
		for j, c := range cols {
			row[j] = r[c]
		}
		rows[i] = row
	}

	if _, err := storage.Store(ctx, repo, cols, rows, dbBatchSize); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	return nil
}
