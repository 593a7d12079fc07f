// Package postgres implements a Postgres-backed storage.Repository using pgx
// v5. Reads go through the pool directly; inserts use the COPY protocol,
// which handles the handful of rows an `add` produces just as happily as a
// bulk import.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"invdb/internal/inventory"
)

// Config holds Postgres repository configuration derived from storage.Config.
type Config struct {
	// DSN is a pgx/pgxpool connection string, e.g. "postgresql://...".
	DSN string

	// Table is the inventory table name, optionally schema-qualified
	// ("public.inventory").
	Table string
}

// Repository is a Postgres-backed implementation of storage.Repository.
type Repository struct {
	pool *pgxpool.Pool
	cfg  Config
}

// NewRepository constructs a Repository and returns a Close function for
// cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("postgres: DSN must not be empty")
	}
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("postgres: pgxpool: %w", err)
	}
	closeFn := func() { pool.Close() }
	return &Repository{pool: pool, cfg: cfg}, closeFn, nil
}

// tableIdent splits an optionally schema-qualified table name into a pgx
// identifier for COPY.
func tableIdent(table string) pgx.Identifier {
	return pgx.Identifier(strings.Split(table, "."))
}

// SelectRows reads the full inventory table ordered by ascending id.
func (r *Repository) SelectRows(ctx context.Context) ([]inventory.Row, error) {
	q := fmt.Sprintf(
		"SELECT id, COALESCE(host, ''), COALESCE(grp, ''), COALESCE(var_key, ''), COALESCE(var_value, '') FROM %s ORDER BY id",
		r.cfg.Table,
	)
	rs, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("postgres: select: %w", err)
	}
	defer rs.Close()

	var rows []inventory.Row
	for rs.Next() {
		var row inventory.Row
		if err := rs.Scan(&row.ID, &row.Host, &row.Group, &row.Key, &row.Value); err != nil {
			return nil, fmt.Errorf("postgres: scan: %w", err)
		}
		rows = append(rows, row)
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate: %w", err)
	}
	return rows, nil
}

// InsertRows appends rows via COPY inside a single transaction.
func (r *Repository) InsertRows(ctx context.Context, rows []inventory.Row) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	src := make([][]any, 0, len(rows))
	for _, row := range rows {
		src = append(src, []any{row.Host, row.Group, row.Key, row.Value})
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("postgres: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	n, err := tx.CopyFrom(
		ctx,
		tableIdent(r.cfg.Table),
		[]string{"host", "grp", "var_key", "var_value"},
		pgx.CopyFromRows(src),
	)
	if err != nil {
		return 0, fmt.Errorf("postgres: copy: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("postgres: commit: %w", err)
	}
	return n, nil
}

// Ping verifies connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: ping: %w", err)
	}
	return nil
}

// Exec executes an arbitrary SQL statement (typically DDL).
func (r *Repository) Exec(ctx context.Context, sql string) error {
	if strings.TrimSpace(sql) == "" {
		return nil
	}
	if _, err := r.pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("postgres: exec: %w", err)
	}
	return nil
}
