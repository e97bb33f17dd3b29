// Package config defines the canonical, JSON-serializable configuration model
// for the OEWS merge pipeline. It is intentionally small, explicit, and
// dependency-free so that pipelines can be loaded from disk (or other sources)
// and passed through the program without additional glue code.
//
// The model makes the historical "script variant" divergence explicit: the
// two original jobs differed only in which filters and column drops were
// active, so those knobs live here as enumerated options rather than in
// duplicated pipeline code. Every zero value defaults to the constants of the
// standard BLS OE merge (metro-area granularity, annual wage percentiles).
//
// Example (trimmed):
//
//	{
//	  "job": "oews_merge",
//	  "sources": {
//	    "series":       { "kind": "file", "path": "data/oe.series" },
//	    "observations": { "kind": "file", "path": "data/oe.data.0.Current" },
//	    "datatypes":    { "kind": "file", "path": "data/oe.datatype" },
//	    "occupations":  { "kind": "file", "path": "data/oe.occupation" }
//	  },
//	  "output": { "kind": "csv", "path": "final_dataset.csv" }
//	}
package config

import (
	"encoding/json"
	"io"
)

// Pipeline is the top-level object decoded from a pipeline file.
type Pipeline struct {
	// Job names the run; it is used for metrics labeling and log prefixes.
	Job string `json:"job"`

	// Sources locates the four input tables.
	Sources Sources `json:"sources"`

	// Filter carries the row/column selection applied before joining.
	// Omitted fields fall back to the standard OE merge constants.
	Filter Filter `json:"filter"`

	// Output describes where the final wide relation is written.
	Output Output `json:"output"`
}

// Sources names the four required input tables.
type Sources struct {
	// Series is the series catalog (one row per series_id).
	Series TableSource `json:"series"`

	// Observations is the wage observation fact table (series_id, value).
	Observations TableSource `json:"observations"`

	// Datatypes is the data-type lookup (datatype_code, datatype_name).
	Datatypes TableSource `json:"datatypes"`

	// Occupations is the occupation lookup (code, name, description).
	Occupations TableSource `json:"occupations"`
}

// TableSource identifies one tab-delimited input. Additional kinds can be
// added over time.
type TableSource struct {
	// Kind selects the source implementation: "file" or "http".
	Kind string `json:"kind"`

	// Path is the local filesystem path for the "file" kind.
	Path string `json:"path,omitempty"`

	// URL is the download location for the "http" kind.
	URL string `json:"url,omitempty"`

	// Encoding names the character encoding of the raw bytes. BLS flat files
	// ship as Windows-1252; the default is "cp1252". "utf-8" skips decoding.
	Encoding string `json:"encoding,omitempty"`
}

// Filter enumerates the row predicates and column drops applied to the
// source tables before joining. nil slices mean "use the defaults below";
// explicitly empty slices are honored (an empty allow-list filters every
// row out, which is a valid, degenerate run).
type Filter struct {
	// AreaTypeCode keeps only series rows at this area granularity ("M" =
	// metropolitan areas in the OE survey).
	AreaTypeCode string `json:"area_type_code,omitempty"`

	// DatatypeCodes is the allow-list of series datatype codes.
	DatatypeCodes []string `json:"datatype_codes,omitempty"`

	// DatatypeNames is the allow-list of data-type labels kept from the
	// lookup table; each surviving label becomes one pivot column.
	DatatypeNames []string `json:"datatype_names,omitempty"`

	// SeriesDropColumns, ObservationDropColumns, and OccupationDropColumns
	// prune columns not needed downstream. Names absent from a table are
	// ignored.
	SeriesDropColumns      []string `json:"series_drop_columns,omitempty"`
	ObservationDropColumns []string `json:"observation_drop_columns,omitempty"`
	OccupationDropColumns  []string `json:"occupation_drop_columns,omitempty"`

	// MissingLabel is the sentinel substituted for observations whose
	// datatype_code has no match in the lookup table.
	MissingLabel string `json:"missing_label,omitempty"`
}

// Output selects the sink for the final relation.
type Output struct {
	// Kind selects the sink implementation: "csv", "sqlite", or "postgres".
	Kind string `json:"kind"`

	// Path is the destination file for the "csv" kind.
	Path string `json:"path,omitempty"`

	// DB configures the database sinks.
	DB DBConfig `json:"db,omitempty"`
}

// DBConfig configures a database sink.
type DBConfig struct {
	// DSN is the connection string (pgx pool DSN for postgres, file path or
	// URI for sqlite).
	DSN string `json:"dsn"`

	// Table is the destination table name.
	Table string `json:"table"`

	// AutoCreateTable creates the destination table from the final relation's
	// columns before inserting.
	AutoCreateTable bool `json:"auto_create_table"`
}

// Defaults for the standard OE merge. These mirror the constants of the
// original production job.
var (
	// DefaultDatatypeCodes are the series codes for the annual wage
	// percentile measures (10th, 25th, median, 75th, 90th).
	DefaultDatatypeCodes = []string{"11", "12", "13", "14", "15"}

	// DefaultDatatypeNames are the human-readable labels kept from the
	// data-type lookup.
	DefaultDatatypeNames = []string{
		"Annual 10th percentile wage",
		"Annual 25th percentile wage",
		"Annual 75th percentile wage",
		"Annual 90th percentile wage",
		"Annual median wage",
	}

	// DefaultSeriesDropColumns are catalog columns with no downstream use.
	DefaultSeriesDropColumns = []string{
		"footnote_codes", "begin_year", "begin_period", "end_period",
		"seasonal", "areatype_code", "industry_code", "state_code",
		"sector_code", "series_title",
	}

	// DefaultObservationDropColumns are fact columns with no downstream use.
	DefaultObservationDropColumns = []string{"footnote_codes", "year", "period"}

	// DefaultOccupationDropColumns are lookup columns with no downstream use.
	DefaultOccupationDropColumns = []string{"selectable", "display_level"}
)

const (
	// DefaultAreaTypeCode marks metro-area series in the OE catalog.
	DefaultAreaTypeCode = "M"

	// DefaultMissingLabel is the sentinel for unmatched datatype codes.
	DefaultMissingLabel = "MISSING"

	// DefaultEncoding is the character encoding of BLS flat files.
	DefaultEncoding = "cp1252"
)

// WithDefaults returns a copy of f with every unset field replaced by the
// standard OE merge constant. nil slices default; empty slices do not.
func (f Filter) WithDefaults() Filter {
	if f.AreaTypeCode == "" {
		f.AreaTypeCode = DefaultAreaTypeCode
	}
	if f.DatatypeCodes == nil {
		f.DatatypeCodes = DefaultDatatypeCodes
	}
	if f.DatatypeNames == nil {
		f.DatatypeNames = DefaultDatatypeNames
	}
	if f.SeriesDropColumns == nil {
		f.SeriesDropColumns = DefaultSeriesDropColumns
	}
	if f.ObservationDropColumns == nil {
		f.ObservationDropColumns = DefaultObservationDropColumns
	}
	if f.OccupationDropColumns == nil {
		f.OccupationDropColumns = DefaultOccupationDropColumns
	}
	if f.MissingLabel == "" {
		f.MissingLabel = DefaultMissingLabel
	}
	return f
}

// Load decodes a Pipeline from JSON.
func Load(r io.Reader) (Pipeline, error) {
	var p Pipeline
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return Pipeline{}, err
	}
	return p, nil
}
