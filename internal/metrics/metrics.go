// Package metrics provides a small, backend-agnostic abstraction for recording
// operational metrics from the merge pipeline.
//
// The package is intentionally minimal and opinionated:
//
//   - It exposes a narrow interface (Backend) focused on counters and timing
//     data.
//   - The backend is injected into the pipeline rather than held in package
//     state, so unit tests can observe metrics without global side effects.
//   - Concrete metric systems are isolated in subpackages (see prompush).
package metrics

import "time"

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
// It is intentionally generic so we can plug in Prometheus, Datadog, etc.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveDuration records a duration-style value in seconds.
	ObserveDuration(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

// Nop is a Backend that discards everything. It is the safe default wherever
// no real backend is configured.
type Nop struct{}

func (Nop) IncCounter(name string, delta float64, labels Labels)      {}
func (Nop) ObserveDuration(name string, value float64, labels Labels) {}
func (Nop) Flush() error                                              { return nil }

// RecordStage is a convenience for the common pattern: measure latency plus
// success/failure per pipeline stage.
func RecordStage(b Backend, job, stage string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{
		"job":    job,
		"stage":  stage,
		"status": status,
	}
	b.IncCounter("oews_stage_total", 1, lbls)
	b.ObserveDuration("oews_stage_duration_seconds", d.Seconds(), lbls)
}

// RecordRows increments a row-level counter for the given job and kind.
//
// Typical kinds mirror the run summary fields, e.g.:
//   - "loaded"
//   - "series_filtered"
//   - "joined"
//   - "coerce_failures"
//   - "missing_labels"
//   - "pivot_collisions"
//   - "exported"
func RecordRows(b Backend, job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	b.IncCounter("oews_rows_total", float64(delta), Labels{
		"job":  job,
		"kind": kind,
	})
}
