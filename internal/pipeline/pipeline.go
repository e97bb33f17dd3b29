// Package pipeline implements the OEWS merge: four normalized wage tables in,
// one denormalized wide relation keyed by (occupation_code, area_code) out.
//
// The transformation itself is single-threaded, synchronous, and batch: each
// stage fully consumes its predecessor's output and produces a fresh
// relation, so stages never share mutable state. Only the boundary I/O (the
// four source loads) runs concurrently.
//
// Stage order:
//
//	load → filter → join (series ⟕ observations ⟕ labels) → null policy
//	     → pivot → enrich
//
// The logger and metrics backend are injected so stages can be tested in
// isolation without global side effects.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"oews/internal/config"
	"oews/internal/datasource"
	"oews/internal/datasource/file"
	"oews/internal/datasource/httpds"
	"oews/internal/metrics"
	"oews/internal/parser/tsv"
	"oews/internal/table"
)

// Required columns per source table. A missing column is a structural error:
// fatal, surfaced before any join, no partial output.
var (
	requiredSeriesColumns      = []string{"series_id", "datatype_code", "occupation_code", "area_code"}
	requiredObservationColumns = []string{"series_id", "value"}
	requiredDatatypeColumns    = []string{"datatype_code", "datatype_name"}
	requiredOccupationColumns  = []string{"occupation_code", "occupation_name", "occupation_description"}
)

// StructuralError reports a source table whose schema violates the input
// contract (a required column is absent). It is always fatal.
type StructuralError struct {
	Table string
	Err   error
}

func (e *StructuralError) Error() string { return fmt.Sprintf("%s table: %v", e.Table, e.Err) }
func (e *StructuralError) Unwrap() error { return e.Err }

// Pipeline executes a configured merge run.
type Pipeline struct {
	cfg    config.Pipeline
	filter config.Filter
	logger *log.Logger
	mb     metrics.Backend

	// openSource is a seam for tests; production points at openSource below.
	openSource func(config.TableSource) (datasource.Source, error)
}

// New builds a Pipeline. A nil logger discards output; a nil backend records
// nothing.
func New(cfg config.Pipeline, logger *log.Logger, mb metrics.Backend) *Pipeline {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if mb == nil {
		mb = metrics.Nop{}
	}
	return &Pipeline{
		cfg:        cfg,
		filter:     cfg.Filter.WithDefaults(),
		logger:     logger,
		mb:         mb,
		openSource: openSource,
	}
}

// Job returns the metrics/log job name for the run.
func (p *Pipeline) Job() string {
	if p.cfg.Job != "" {
		return p.cfg.Job
	}
	return "oews_merge"
}

// sourceTables holds the four loaded inputs.
type sourceTables struct {
	series       *table.Table
	observations *table.Table
	datatypes    *table.Table
	occupations  *table.Table
}

// Run executes the merge and returns the final wide relation with columns
//
//	occupation_code, area_code, <one column per label, sorted>,
//	occupation_name, occupation_description.
//
// It either returns a complete relation or an error; it never produces a
// partial result.
func (p *Pipeline) Run(ctx context.Context) (*table.Table, error) {
	src, err := p.loadSources(ctx)
	if err != nil {
		return nil, err
	}

	series := p.stage("filter_series", func() *table.Table {
		return filterSeries(src.series, p.filter)
	})
	datatypes := p.stage("filter_datatypes", func() *table.Table {
		return filterDatatypes(src.datatypes, p.filter)
	})
	occupations := p.stage("prepare_occupations", func() *table.Table {
		return prepareOccupations(src.occupations, p.filter)
	})

	var coerceFailures int
	observations := p.stage("coerce_observations", func() *table.Table {
		t, n := coerceObservations(src.observations, p.filter)
		coerceFailures = n
		return t
	})
	if coerceFailures > 0 {
		p.logger.Printf("coerce: %d observation values were not numeric and became null", coerceFailures)
		metrics.RecordRows(p.mb, p.Job(), "coerce_failures", int64(coerceFailures))
	}

	merged := p.stage("join_observations", func() *table.Table {
		return leftJoin(series, observations, "series_id")
	})
	merged = p.stage("join_labels", func() *table.Table {
		return leftJoin(merged, datatypes, "datatype_code")
	})

	var filled int
	merged = p.stage("fill_missing_labels", func() *table.Table {
		t, n := fillMissing(merged, "datatype_name", p.filter.MissingLabel)
		filled = n
		return t
	})
	if filled > 0 {
		p.logger.Printf("null policy: %d rows had no label match; filled with %q", filled, p.filter.MissingLabel)
		metrics.RecordRows(p.mb, p.Job(), "missing_labels", int64(filled))
	}

	// The join keys have served their purpose; they must not survive into
	// the pivoted output.
	merged = merged.DropColumns("series_id", "datatype_code")

	var collisions int
	wide := p.stage("pivot", func() *table.Table {
		t, n := pivot(merged, []string{"occupation_code", "area_code"}, "datatype_name", "value")
		collisions = n
		return t
	})
	if collisions > 0 {
		p.logger.Printf("pivot: %d duplicate (key, label) values discarded by first-wins tie-break", collisions)
		metrics.RecordRows(p.mb, p.Job(), "pivot_collisions", int64(collisions))
	}

	final := p.stage("enrich", func() *table.Table {
		return enrich(wide, occupations)
	})

	metrics.RecordRows(p.mb, p.Job(), "final_rows", int64(final.Len()))
	p.logger.Printf("run complete: rows=%d columns=%d fingerprint=%016x",
		final.Len(), len(final.Columns()), final.Fingerprint())
	return final, nil
}

// stage runs one transformation, logging its row yield and recording timing.
func (p *Pipeline) stage(name string, fn func() *table.Table) *table.Table {
	start := time.Now()
	out := fn()
	d := time.Since(start)
	metrics.RecordStage(p.mb, p.Job(), name, nil, d)
	p.logger.Printf("%s: rows=%d (%s)", name, out.Len(), d.Truncate(time.Microsecond))
	return out
}

// loadSources fetches and parses the four inputs concurrently, then checks
// the structural preconditions. The observation table's value column is
// verified here, before any join is attempted.
func (p *Pipeline) loadSources(ctx context.Context) (*sourceTables, error) {
	var src sourceTables
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		src.series, err = p.loadTable(gctx, "series", p.cfg.Sources.Series, requiredSeriesColumns)
		return err
	})
	g.Go(func() (err error) {
		src.observations, err = p.loadTable(gctx, "observations", p.cfg.Sources.Observations, requiredObservationColumns)
		return err
	})
	g.Go(func() (err error) {
		src.datatypes, err = p.loadTable(gctx, "datatypes", p.cfg.Sources.Datatypes, requiredDatatypeColumns)
		return err
	})
	g.Go(func() (err error) {
		src.occupations, err = p.loadTable(gctx, "occupations", p.cfg.Sources.Occupations, requiredOccupationColumns)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := src.series.Len() + src.observations.Len() + src.datatypes.Len() + src.occupations.Len()
	metrics.RecordRows(p.mb, p.Job(), "loaded", int64(total))
	metrics.RecordStage(p.mb, p.Job(), "load", nil, time.Since(start))
	p.logger.Printf("loaded: series=%d observations=%d datatypes=%d occupations=%d",
		src.series.Len(), src.observations.Len(), src.datatypes.Len(), src.occupations.Len())
	return &src, nil
}

// loadTable opens one source, parses it, and enforces its required columns.
func (p *Pipeline) loadTable(ctx context.Context, name string, ts config.TableSource, required []string) (*table.Table, error) {
	src, err := p.openSource(ts)
	if err != nil {
		return nil, fmt.Errorf("%s source: %w", name, err)
	}
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s source: %w", name, err)
	}
	defer rc.Close()

	parser := tsv.NewParser(tsv.Options{TrimSpace: true, Encoding: ts.Encoding})
	t, skipped, err := parser.Parse(rc)
	if err != nil {
		return nil, fmt.Errorf("%s parse: %w", name, err)
	}
	if skipped > 0 {
		p.logger.Printf("%s: skipped %d malformed rows", name, skipped)
	}
	if err := t.RequireColumns(required...); err != nil {
		return nil, &StructuralError{Table: name, Err: err}
	}
	return t, nil
}

// openSource maps a source config onto a concrete datasource.
func openSource(ts config.TableSource) (datasource.Source, error) {
	switch ts.Kind {
	case "file":
		return file.NewLocal(ts.Path), nil
	case "http":
		return httpds.NewClient(ts.URL, httpds.Config{}), nil
	default:
		return nil, fmt.Errorf("unsupported source kind %q", ts.Kind)
	}
}
