// Package storage defines the backend-agnostic persistence contract for the
// clean orders table, plus a factory registry the backends register into.
//
// The clean table is terminal output: one flat table, replaceable. Backends
// only need to create the destination table and write rows under a conflict
// policy; there is no update or versioning surface.
package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"orderetl/internal/table"
)

// Config is the minimal configuration needed to create a repository.
type Config struct {
	Kind string
	DSN  string
}

// WriteMode is the conflict policy for an existing destination table.
type WriteMode string

const (
	// Replace drops/empties the destination before writing.
	Replace WriteMode = "replace"
	// Append leaves existing rows in place.
	Append WriteMode = "append"
)

// ColumnKind is the portable column type each backend maps to its own DDL.
type ColumnKind string

const (
	KindText      ColumnKind = "text"
	KindReal      ColumnKind = "real"
	KindTimestamp ColumnKind = "timestamp"
)

type ColumnSpec struct {
	Name string
	Kind ColumnKind
}

type TableSpec struct {
	Name    string
	Columns []ColumnSpec
}

// Repository is the persistence collaborator consumed by cmd/orderetl.
//
// WriteRows is all-or-nothing: a failed write must not leave a partially
// replaced table. Backends achieve this with a single transaction around the
// replace+insert.
type Repository interface {
	// Close releases backend resources. Call once at process shutdown.
	Close()

	// EnsureTable creates the destination table if it does not exist.
	EnsureTable(ctx context.Context, spec TableSpec) error

	// WriteRows writes the rows under the given mode and returns the number
	// of rows persisted.
	WriteRows(ctx context.Context, spec TableSpec, rows [][]any, mode WriteMode) (int64, error)
}

// SpecFromTable infers a portable table spec from the clean table: a column
// is a timestamp if it holds any time.Time, real if it holds any float64 and
// no strings, text otherwise. All-nil columns fall back to text.
func SpecFromTable(name string, t *table.Table) TableSpec {
	spec := TableSpec{Name: name, Columns: make([]ColumnSpec, 0, len(t.Columns))}
	for _, col := range t.Columns {
		spec.Columns = append(spec.Columns, ColumnSpec{Name: col, Kind: inferKind(t, col)})
	}
	return spec
}

func inferKind(t *table.Table, col string) ColumnKind {
	sawFloat := false
	for _, r := range t.Rows {
		switch r[col].(type) {
		case time.Time:
			return KindTimestamp
		case string:
			return KindText
		case float64:
			sawFloat = true
		}
	}
	if sawFloat {
		return KindReal
	}
	return KindText
}

// RowsFromTable flattens the table into positional rows aligned with
// spec column order.
func RowsFromTable(t *table.Table) [][]any {
	out := make([][]any, len(t.Rows))
	for i, r := range t.Rows {
		row := make([]any, len(t.Columns))
		for j, c := range t.Columns {
			row[j] = r[c]
		}
		out[i] = row
	}
	return out
}

// ---- factory registry ----

type factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	regMu     sync.RWMutex
	factories = map[string]factory{}
)

// Register registers a backend under a kind (e.g. "sqlite"). Call from an
// init() in the backend package.
//
// Panics:
//   - If kind is empty.
//   - If f is nil.
//   - If kind is already registered. Failing fast avoids ambiguous backend
//     selection.
func Register(kind string, f factory) {
	regMu.Lock()
	defer regMu.Unlock()

	if kind == "" {
		panic("storage: Register called with empty kind")
	}
	if f == nil {
		panic("storage: Register called with nil factory")
	}
	if _, exists := factories[kind]; exists {
		panic(fmt.Sprintf("storage: factory already registered for kind=%q", kind))
	}

	factories[kind] = f
}

// New constructs a Repository using the registered backend factory.
func New(ctx context.Context, cfg Config) (Repository, error) {
	if cfg.Kind == "" {
		return nil, fmt.Errorf("storage: missing Kind")
	}

	regMu.RLock()
	f := factories[cfg.Kind]
	regMu.RUnlock()

	if f == nil {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}
