// Static validation of Pipeline values: checks return a list of issues
// (errors and warnings) that callers can surface in a CLI or tests.

package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation/lint finding for a Pipeline.
//
// Path is a dotted path into the config (e.g. "output.kind",
// "sources.series.path"). Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// ValidatePipeline performs static validation / linting of a Pipeline.
//
// It does not mutate the pipeline. Instead it returns a slice of Issue values.
// Callers may decide whether to treat warnings as fatal or not.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue

	if strings.TrimSpace(p.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "job",
			Message:  "job is empty; metrics and log lines will use the default job name",
		})
	}

	issues = append(issues, validateSource("sources.series", p.Sources.Series)...)
	issues = append(issues, validateSource("sources.observations", p.Sources.Observations)...)
	issues = append(issues, validateSource("sources.datatypes", p.Sources.Datatypes)...)
	issues = append(issues, validateSource("sources.occupations", p.Sources.Occupations)...)
	issues = append(issues, validateFilter(p.Filter)...)
	issues = append(issues, validateOutput(p.Output)...)

	return issues
}

func validateSource(path string, s TableSource) []Issue {
	var issues []Issue
	switch s.Kind {
	case "file":
		if strings.TrimSpace(s.Path) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path + ".path",
				Message:  `path is required when kind is "file"`,
			})
		}
	case "http":
		if strings.TrimSpace(s.URL) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path + ".url",
				Message:  `url is required when kind is "http"`,
			})
		} else if !strings.HasPrefix(s.URL, "http://") && !strings.HasPrefix(s.URL, "https://") {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path + ".url",
				Message:  "url must start with http:// or https://",
			})
		}
	case "":
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     path + ".kind",
			Message:  `kind is required (one of "file", "http")`,
		})
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     path + ".kind",
			Message:  fmt.Sprintf("unsupported kind %q", s.Kind),
		})
	}

	switch s.Encoding {
	case "", "cp1252", "windows-1252", "utf-8", "utf8":
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     path + ".encoding",
			Message:  fmt.Sprintf("unsupported encoding %q (supported: cp1252, utf-8)", s.Encoding),
		})
	}

	return issues
}

func validateFilter(f Filter) []Issue {
	var issues []Issue

	// Explicitly empty allow-lists are legal but almost always a mistake:
	// the run completes with an empty output.
	if f.DatatypeCodes != nil && len(f.DatatypeCodes) == 0 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "filter.datatype_codes",
			Message:  "empty allow-list: every series row will be filtered out",
		})
	}
	if f.DatatypeNames != nil && len(f.DatatypeNames) == 0 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "filter.datatype_names",
			Message:  `empty allow-list: every label becomes the missing-label sentinel`,
		})
	}
	return issues
}

func validateOutput(o Output) []Issue {
	var issues []Issue
	switch o.Kind {
	case "csv":
		if strings.TrimSpace(o.Path) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "output.path",
				Message:  `path is required when kind is "csv"`,
			})
		}
	case "sqlite", "postgres":
		if strings.TrimSpace(o.DB.DSN) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "output.db.dsn",
				Message:  "dsn is required for database sinks",
			})
		}
		if strings.TrimSpace(o.DB.Table) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "output.db.table",
				Message:  "table is required for database sinks",
			})
		}
	case "":
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "output.kind",
			Message:  `kind is required (one of "csv", "sqlite", "postgres")`,
		})
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "output.kind",
			Message:  fmt.Sprintf("unsupported kind %q", o.Kind),
		})
	}
	return issues
}
