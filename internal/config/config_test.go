package config

import (
	"reflect"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	in := `{
	  "job": "oews_merge",
	  "sources": {
	    "series":       { "kind": "file", "path": "data/oe.series" },
	    "observations": { "kind": "http", "url": "https://download.bls.gov/pub/time.series/oe/oe.data.0.Current" },
	    "datatypes":    { "kind": "file", "path": "data/oe.datatype", "encoding": "utf-8" },
	    "occupations":  { "kind": "file", "path": "data/oe.occupation" }
	  },
	  "filter": { "area_type_code": "S", "missing_label": "N/A" },
	  "output": { "kind": "csv", "path": "final_dataset.csv" }
	}`
	p, err := Load(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Job != "oews_merge" {
		t.Errorf("Job = %q", p.Job)
	}
	if p.Sources.Observations.Kind != "http" || p.Sources.Observations.URL == "" {
		t.Errorf("observations source = %+v", p.Sources.Observations)
	}
	if p.Sources.Datatypes.Encoding != "utf-8" {
		t.Errorf("datatypes encoding = %q", p.Sources.Datatypes.Encoding)
	}
	if p.Filter.AreaTypeCode != "S" || p.Filter.MissingLabel != "N/A" {
		t.Errorf("filter = %+v", p.Filter)
	}
	if p.Output.Kind != "csv" || p.Output.Path != "final_dataset.csv" {
		t.Errorf("output = %+v", p.Output)
	}
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	if _, err := Load(strings.NewReader(`{"job": `)); err == nil {
		t.Fatal("want decode error")
	}
}

func TestFilterWithDefaults(t *testing.T) {
	got := Filter{}.WithDefaults()
	if got.AreaTypeCode != DefaultAreaTypeCode {
		t.Errorf("AreaTypeCode = %q", got.AreaTypeCode)
	}
	if !reflect.DeepEqual(got.DatatypeCodes, DefaultDatatypeCodes) {
		t.Errorf("DatatypeCodes = %v", got.DatatypeCodes)
	}
	if !reflect.DeepEqual(got.DatatypeNames, DefaultDatatypeNames) {
		t.Errorf("DatatypeNames = %v", got.DatatypeNames)
	}
	if got.MissingLabel != DefaultMissingLabel {
		t.Errorf("MissingLabel = %q", got.MissingLabel)
	}
}

func TestFilterWithDefaultsHonorsEmptySlices(t *testing.T) {
	// nil means "use defaults"; an explicitly empty allow-list is a legal
	// degenerate filter and must survive.
	got := Filter{DatatypeCodes: []string{}, DatatypeNames: []string{}}.WithDefaults()
	if len(got.DatatypeCodes) != 0 {
		t.Errorf("DatatypeCodes = %v, want empty", got.DatatypeCodes)
	}
	if len(got.DatatypeNames) != 0 {
		t.Errorf("DatatypeNames = %v, want empty", got.DatatypeNames)
	}
}

func TestFilterWithDefaultsKeepsOverrides(t *testing.T) {
	got := Filter{AreaTypeCode: "S", DatatypeCodes: []string{"01"}}.WithDefaults()
	if got.AreaTypeCode != "S" {
		t.Errorf("AreaTypeCode = %q, want S", got.AreaTypeCode)
	}
	if !reflect.DeepEqual(got.DatatypeCodes, []string{"01"}) {
		t.Errorf("DatatypeCodes = %v", got.DatatypeCodes)
	}
	// Untouched fields still default.
	if got.MissingLabel != DefaultMissingLabel {
		t.Errorf("MissingLabel = %q", got.MissingLabel)
	}
}
