// Package sqlite wires the SQLite backend into the storage factory. It
// exposes a storage.Repository implementation without forcing callers to
// import this package directly; registration happens in init.
package sqlite

import (
	"context"
	"fmt"

	"invdb/internal/storage"
)

// newRepository is a test hook that points to NewRepository by default.
// Tests may replace this variable to avoid real DB connections.
var newRepository = NewRepository

// wrappedRepo adapts *sqlite.Repository to the storage.Repository interface,
// adding a Close method that calls the cleanup function returned by
// NewRepository.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

// Close implements storage.Repository.Close.
func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

// Ensure wrappedRepo satisfies the interface at compile time.
var _ storage.Repository = (*wrappedRepo)(nil)

// createTableFmt is the inventory table DDL. The id column defines read
// order; host/grp/var_key stay nullable so legacy rows with NULLs scan
// cleanly as empty strings.
const createTableFmt = `CREATE TABLE IF NOT EXISTS %s (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	host TEXT,
	grp TEXT,
	var_key TEXT,
	var_value TEXT
)`

func init() {
	storage.Register("sqlite", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{
			DSN:   cfg.DSN,
			Table: cfg.Table,
		})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})

	storage.RegisterDDL("sqlite", func(ctx context.Context, repo storage.Repository, cfg storage.Config) error {
		return repo.Exec(ctx, fmt.Sprintf(createTableFmt, cfg.Table))
	})
}
