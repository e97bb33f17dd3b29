package storage

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

// fakeRepo records every statement and batch it receives.
type fakeRepo struct {
	execs   []string
	batches [][][]any
	copyErr error
}

func (f *fakeRepo) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if f.copyErr != nil {
		return 0, f.copyErr
	}
	f.batches = append(f.batches, rows)
	return int64(len(rows)), nil
}

func (f *fakeRepo) Exec(ctx context.Context, sql string) error {
	f.execs = append(f.execs, sql)
	return nil
}

func (f *fakeRepo) Close() {}

func TestDefsFromColumns(t *testing.T) {
	cols := []string{"occupation_code", "area_code", "Annual median wage", "occupation_name", "occupation_description"}
	got := DefsFromColumns(cols)
	want := []ColumnDef{
		{"occupation_code", "TEXT"},
		{"area_code", "TEXT"},
		{"Annual median wage", "REAL"},
		{"occupation_name", "TEXT"},
		{"occupation_description", "TEXT"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("defs = %v, want %v", got, want)
	}
}

func TestEnsureTable(t *testing.T) {
	repo := &fakeRepo{}
	defs := []ColumnDef{
		{"occupation_code", "TEXT"},
		{"Annual median wage", "REAL"},
	}
	if err := EnsureTable(context.Background(), repo, "oews_wide", defs); err != nil {
		t.Fatalf("EnsureTable: %v", err)
	}
	want := `CREATE TABLE IF NOT EXISTS "oews_wide" ("occupation_code" TEXT, "Annual median wage" REAL)`
	if len(repo.execs) != 1 || repo.execs[0] != want {
		t.Fatalf("ddl = %q, want %q", repo.execs, want)
	}
}

func TestEnsureTableNoColumns(t *testing.T) {
	if err := EnsureTable(context.Background(), &fakeRepo{}, "t", nil); err == nil {
		t.Fatal("want error for empty schema")
	}
}

func TestQuoteIdent(t *testing.T) {
	tests := []struct{ in, want string }{
		{"plain", `"plain"`},
		{"Annual median wage", `"Annual median wage"`},
		{`tricky"name`, `"tricky""name"`},
	}
	for _, tt := range tests {
		if got := QuoteIdent(tt.in); got != tt.want {
			t.Errorf("QuoteIdent(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestStoreBatches(t *testing.T) {
	repo := &fakeRepo{}
	rows := make([][]any, 5)
	for i := range rows {
		rows[i] = []any{i}
	}
	total, err := Store(context.Background(), repo, []string{"a"}, rows, 2)
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if total != 5 {
		t.Fatalf("total = %d, want 5", total)
	}
	sizes := make([]int, len(repo.batches))
	for i, b := range repo.batches {
		sizes[i] = len(b)
	}
	if !reflect.DeepEqual(sizes, []int{2, 2, 1}) {
		t.Fatalf("batch sizes = %v, want [2 2 1]", sizes)
	}
}

func TestStoreBadBatchSize(t *testing.T) {
	if _, err := Store(context.Background(), &fakeRepo{}, nil, nil, 0); err == nil {
		t.Fatal("want error for batchSize 0")
	}
}

func TestStorePropagatesCopyError(t *testing.T) {
	repo := &fakeRepo{copyErr: errors.New("copy failed")}
	_, err := Store(context.Background(), repo, []string{"a"}, [][]any{{1}}, 10)
	if err == nil || err.Error() != "copy failed" {
		t.Fatalf("err = %v", err)
	}
}

func TestFactoryRegistry(t *testing.T) {
	Register("fake", func(ctx context.Context, cfg Config) (Repository, error) {
		return &fakeRepo{}, nil
	})
	repo, err := New(context.Background(), Config{Kind: "fake"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	repo.Close()

	if _, err := New(context.Background(), Config{Kind: "unregistered"}); err == nil {
		t.Fatal("want error for unknown kind")
	}
}
