// Package storage contains storage-agnostic contracts for the inventory
// table. Concrete backends (mysql, postgres, sqlite, mssql) live in
// subpackages and register themselves with the factory at init time; callers
// open a Repository through New and stay backend-agnostic from then on.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"invdb/internal/inventory"
)

// Config selects and parameterizes a backend. It is derived from the
// application config (internal/config) by the wiring layer.
type Config struct {
	// Kind selects the backend implementation, e.g. "mysql".
	Kind string

	// DSN is the driver connection string.
	DSN string

	// Table is the inventory table name. May be schema-qualified where the
	// backend supports it (e.g. "public.inventory").
	Table string

	// AutoCreateTable requests DDL bootstrap before first use.
	AutoCreateTable bool
}

// Repository is the minimal contract the inventory CLI needs from a backend.
// One Repository is opened per invocation and closed unconditionally on exit.
type Repository interface {
	// SelectRows returns the full table ordered by ascending id, so that
	// slice order is storage read order (last-write-wins depends on it).
	SelectRows(ctx context.Context) ([]inventory.Row, error)

	// InsertRows appends rows inside a single transaction and reports the
	// number inserted. The id column is left to the database.
	InsertRows(ctx context.Context, rows []inventory.Row) (int64, error)

	// Ping verifies connectivity.
	Ping(ctx context.Context) error

	// Exec runs an arbitrary statement (typically DDL).
	Exec(ctx context.Context, sql string) error

	// Close releases the connection or pool.
	Close()
}

// Factory constructs a Repository for one backend kind.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	regMu     sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs (or replaces) the factory for a backend kind. It is
// called from backend packages' init functions; tests may re-register a kind
// to stub out real connections.
func Register(kind string, f Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	factories[kind] = f
}

// New opens a Repository for cfg.Kind. Unregistered kinds are an error.
func New(ctx context.Context, cfg Config) (Repository, error) {
	regMu.RLock()
	f, ok := factories[cfg.Kind]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}

// ListKinds returns a sorted snapshot of the registered backend kinds.
func ListKinds() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	kinds := make([]string, 0, len(factories))
	for k := range factories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
