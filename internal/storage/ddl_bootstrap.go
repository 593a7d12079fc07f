package storage

import (
	"context"
	"fmt"
	"sync"
)

// DDLBootstrapper creates the inventory table for one backend kind, typically
// via repo.Exec with a CREATE TABLE IF NOT EXISTS statement. Backends
// register their implementation at init time alongside their factory.
type DDLBootstrapper func(ctx context.Context, repo Repository, cfg Config) error

var (
	ddlMu  sync.RWMutex
	ddlFns = map[string]DDLBootstrapper{}
)

// RegisterDDL registers (or replaces) a DDLBootstrapper for the given
// storage kind.
func RegisterDDL(kind string, fn DDLBootstrapper) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	ddlFns[kind] = fn
}

// EnsureTable locates the DDLBootstrapper for cfg.Kind and invokes it.
// Callers do not need to know which backend they are using; they pass the
// config and the already-open Repository.
func EnsureTable(ctx context.Context, cfg Config, repo Repository) error {
	ddlMu.RLock()
	fn, ok := ddlFns[cfg.Kind]
	ddlMu.RUnlock()
	if !ok {
		return fmt.Errorf("no DDL bootstrapper registered for storage.kind=%q", cfg.Kind)
	}
	return fn(ctx, repo, cfg)
}
