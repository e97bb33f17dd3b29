package table

import (
	"reflect"
	"testing"

	"oews/pkg/records"
)

func sample() *Table {
	t := New([]string{"a", "b", "c"})
	t.Append(records.Record{"a": "1", "b": "x", "c": nil})
	t.Append(records.Record{"a": "2", "b": "y", "c": 3.5})
	return t
}

func TestFilterPreservesOrder(t *testing.T) {
	tbl := New([]string{"a"})
	for _, v := range []string{"3", "1", "2"} {
		tbl.Append(records.Record{"a": v})
	}
	got := tbl.Filter(func(r records.Record) bool { return r.String("a") != "1" })
	if got.Len() != 2 {
		t.Fatalf("Len = %d, want 2", got.Len())
	}
	if got.Row(0)["a"] != "3" || got.Row(1)["a"] != "2" {
		t.Fatalf("order not preserved: %v, %v", got.Row(0), got.Row(1))
	}
	if tbl.Len() != 3 {
		t.Fatalf("input mutated: Len = %d", tbl.Len())
	}
}

func TestDropColumns(t *testing.T) {
	got := sample().DropColumns("b", "nope")
	if want := []string{"a", "c"}; !reflect.DeepEqual(got.Columns(), want) {
		t.Fatalf("Columns = %v, want %v", got.Columns(), want)
	}
	if _, ok := got.Row(0)["b"]; ok {
		t.Fatalf("dropped column still present in row: %v", got.Row(0))
	}
}

func TestSelectMissingColumnReadsNil(t *testing.T) {
	got := sample().Select("a", "zz")
	if want := []string{"a", "zz"}; !reflect.DeepEqual(got.Columns(), want) {
		t.Fatalf("Columns = %v, want %v", got.Columns(), want)
	}
	if v := got.Row(0)["zz"]; v != nil {
		t.Fatalf("missing column = %v, want nil", v)
	}
}

func TestRequireColumns(t *testing.T) {
	tbl := sample()
	if err := tbl.RequireColumns("a", "c"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tbl.RequireColumns("a", "value"); err == nil {
		t.Fatal("want error for missing column")
	}
}

func TestFingerprintDeterministic(t *testing.T) {
	if sample().Fingerprint() != sample().Fingerprint() {
		t.Fatal("identical tables produced different fingerprints")
	}
}

func TestFingerprintDistinguishesCells(t *testing.T) {
	base := sample().Fingerprint()

	// nil vs empty string vs zero must all hash apart.
	variants := []any{"", float64(0), "0"}
	for _, v := range variants {
		tbl := New([]string{"a", "b", "c"})
		tbl.Append(records.Record{"a": "1", "b": "x", "c": v})
		tbl.Append(records.Record{"a": "2", "b": "y", "c": 3.5})
		if tbl.Fingerprint() == base {
			t.Fatalf("cell %#v collided with nil", v)
		}
	}
}

func TestFingerprintDependsOnColumnOrder(t *testing.T) {
	a := New([]string{"x", "y"})
	a.Append(records.Record{"x": "1", "y": "2"})
	b := New([]string{"y", "x"})
	b.Append(records.Record{"x": "1", "y": "2"})
	if a.Fingerprint() == b.Fingerprint() {
		t.Fatal("column order should affect the fingerprint")
	}
}
