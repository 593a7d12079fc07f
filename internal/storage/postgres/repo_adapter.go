// Package postgres wires the Postgres backend into the storage factory.
package postgres

import (
	"context"
	"fmt"

	"invdb/internal/storage"
)

// newRepository is a test hook that points to NewRepository by default.
// Tests may replace this variable to avoid real DB connections.
var newRepository = NewRepository

var _ storage.Repository = (*wrappedRepo)(nil)

const createTableFmt = `CREATE TABLE IF NOT EXISTS %s (
	id BIGSERIAL PRIMARY KEY,
	host TEXT,
	grp TEXT,
	var_key TEXT,
	var_value TEXT
)`

// init registers the "postgres" backend with the factory.
func init() {
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{
			DSN:   cfg.DSN,
			Table: cfg.Table,
		})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})

	storage.RegisterDDL("postgres", func(ctx context.Context, repo storage.Repository, cfg storage.Config) error {
		return repo.Exec(ctx, fmt.Sprintf(createTableFmt, cfg.Table))
	})
}

// wrappedRepo adapts *postgres.Repository to storage.Repository and provides
// Close.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

// Close closes the underlying pool.
func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}
