package pipeline

import (
	"strconv"
	"strings"

	"oews/internal/config"
	"oews/internal/table"
	"oews/pkg/records"
)

// filterSeries keeps only catalog rows at the configured area granularity and
// with an allow-listed datatype code, then prunes columns with no downstream
// use. The area-type predicate is skipped when the source lacks the column
// (it is optional in the input contract). An empty result is a valid outcome
// and flows through the rest of the pipeline as empty joins.
func filterSeries(t *table.Table, f config.Filter) *table.Table {
	out := t
	if f.AreaTypeCode != "" && t.HasColumn("areatype_code") {
		out = out.Filter(func(r records.Record) bool {
			return r.String("areatype_code") == f.AreaTypeCode
		})
	}
	codes := stringSet(f.DatatypeCodes)
	out = out.Filter(func(r records.Record) bool {
		_, ok := codes[r.String("datatype_code")]
		return ok
	})
	return out.DropColumns(f.SeriesDropColumns...)
}

// filterDatatypes keeps only the allow-listed wage-measure labels. Codes
// filtered out here surface later as the missing-label sentinel, never as a
// dropped row.
func filterDatatypes(t *table.Table, f config.Filter) *table.Table {
	names := stringSet(f.DatatypeNames)
	return t.Filter(func(r records.Record) bool {
		_, ok := names[r.String("datatype_name")]
		return ok
	})
}

// prepareOccupations prunes lookup columns not projected into the output.
func prepareOccupations(t *table.Table, f config.Filter) *table.Table {
	return t.DropColumns(f.OccupationDropColumns...)
}

// coerceObservations prunes the reporting-period columns and converts the raw
// text value column to float64. Unparseable values become nil rather than an
// error, and the count of such coercions is returned for the run summary. The
// flat files' "no data" placeholder (a lone dash, possibly padded) also
// becomes nil but is not counted as a failure.
func coerceObservations(t *table.Table, f config.Filter) (*table.Table, int) {
	out := t.DropColumns(f.ObservationDropColumns...)
	var failures int
	for _, r := range out.Rows() {
		v, ok := r["value"]
		if !ok || v == nil {
			r["value"] = nil
			continue
		}
		s, isStr := v.(string)
		if !isStr {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" || s == "-" {
			r["value"] = nil
			continue
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			r["value"] = nil
			failures++
			continue
		}
		r["value"] = n
	}
	return out, failures
}

func stringSet(ss []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ss))
	for _, s := range ss {
		set[s] = struct{}{}
	}
	return set
}
