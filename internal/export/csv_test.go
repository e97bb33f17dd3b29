package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"oews/internal/table"
	"oews/pkg/records"
)

func TestWriteCSV(t *testing.T) {
	tab := table.New([]string{"occupation_code", "area_code", "Annual median wage"})
	tab.Append(records.Record{"occupation_code": "O1", "area_code": "A1", "Annual median wage": 45000.0})
	tab.Append(records.Record{"occupation_code": "O2", "area_code": "A1", "Annual median wage": nil})
	tab.Append(records.Record{"occupation_code": "O3", "area_code": "A2", "Annual median wage": 12345.5})

	path := filepath.Join(t.TempDir(), "out.csv")
	if err := WriteCSV(tab, path); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	want := "occupation_code,area_code,Annual median wage\n" +
		"O1,A1,45000\n" +
		"O2,A1,\n" +
		"O3,A2,12345.5\n"
	if string(data) != want {
		t.Fatalf("output:\n%s\nwant:\n%s", data, want)
	}
}

func TestWriteCSVNoTempLeftover(t *testing.T) {
	dir := t.TempDir()
	tab := table.New([]string{"a"})
	tab.Append(records.Record{"a": "1"})

	if err := WriteCSV(tab, filepath.Join(dir, "out.csv")); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}

func TestWriteCSVBadDirectory(t *testing.T) {
	tab := table.New([]string{"a"})
	if err := WriteCSV(tab, filepath.Join(t.TempDir(), "missing", "out.csv")); err == nil {
		t.Fatal("want error for nonexistent directory")
	}
}

func TestFormatCell(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"text", "text"},
		{45000.0, "45000"},
		{0.1, "0.1"},
		{int(7), "7"},
	}
	for _, tt := range tests {
		if got := formatCell(tt.in); got != tt.want {
			t.Errorf("formatCell(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
