// Package storage contains storage-agnostic contracts and the backend
// factory. Concrete backends (sqlite, postgres) register themselves at init
// time; callers select one by kind and stay decoupled from drivers.
package storage

import (
	"context"
	"fmt"
	"sync"
)

// Config identifies a database sink.
type Config struct {
	// Kind selects the registered backend ("sqlite", "postgres").
	Kind string
	// DSN is the backend connection string.
	DSN string
	// Table is the destination table name.
	Table string
}

// Repository is the minimal write interface the pipeline needs from a
// database sink.
type Repository interface {
	// CopyFrom bulk-inserts rows aligned to the given column order and
	// returns the number of rows written.
	CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error)
	// Exec runs an arbitrary statement (typically DDL).
	Exec(ctx context.Context, sql string) error
	// Close releases the underlying connections.
	Close()
}

// Factory constructs a Repository for a Config.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs (or replaces) the factory for a storage kind. It is
// typically called from backend packages' init() functions.
func Register(kind string, fn Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = fn
}

// New opens a Repository for cfg.Kind using the registered factory.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	fn, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no storage backend registered for kind=%q", cfg.Kind)
	}
	return fn(ctx, cfg)
}
