// Package mssql wires the SQL Server backend into the storage factory.
package mssql

import (
	"context"
	"fmt"

	"invdb/internal/storage"
)

// newRepository is a test hook that points to NewRepository by default.
// Tests may replace this variable to avoid real DB connections.
var newRepository = NewRepository

var _ storage.Repository = (*wrappedRepo)(nil)

// createTableFmt guards with OBJECT_ID because SQL Server has no
// CREATE TABLE IF NOT EXISTS.
const createTableFmt = `IF OBJECT_ID(N'%[1]s', N'U') IS NULL
CREATE TABLE %[1]s (
	id BIGINT IDENTITY(1,1) PRIMARY KEY,
	host NVARCHAR(255),
	grp NVARCHAR(255),
	var_key NVARCHAR(255),
	var_value NVARCHAR(MAX)
)`

// init registers the "mssql" backend with the factory.
func init() {
	storage.Register("mssql", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{
			DSN:   cfg.DSN,
			Table: cfg.Table,
		})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})

	storage.RegisterDDL("mssql", func(ctx context.Context, repo storage.Repository, cfg storage.Config) error {
		return repo.Exec(ctx, fmt.Sprintf(createTableFmt, cfg.Table))
	})
}

// wrappedRepo adapts *mssql.Repository to storage.Repository and provides
// Close.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

// Close closes the underlying connection pool.
func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}
