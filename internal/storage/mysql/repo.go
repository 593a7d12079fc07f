// Package mysql implements a MySQL-backed storage.Repository using
// database/sql with the go-sql-driver. MySQL is the primary backend: the
// inventory table this tool replaces historically lived in a MySQL server.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	// MySQL driver.
	_ "github.com/go-sql-driver/mysql"

	"invdb/internal/inventory"
)

// Config holds MySQL repository configuration derived from storage.Config.
type Config struct {
	// DSN is a go-sql-driver DSN, e.g.:
	//   "user:pass@tcp(127.0.0.1:3306)/db?timeout=10s"
	DSN string

	// Table is the inventory table name.
	Table string
}

// Repository is a MySQL-backed implementation of storage.Repository.
type Repository struct {
	db  *sql.DB
	cfg Config
}

// NewRepository opens a MySQL connection pool and returns a Repository plus
// a Close function for cleanup. The pool is scoped to one CLI invocation, so
// a single idle connection is enough.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("mysql: DSN must not be empty")
	}

	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("mysql: open: %w", err)
	}
	db.SetMaxIdleConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("mysql: ping: %w", err)
	}

	closeFn := func() { db.Close() }
	return &Repository{db: db, cfg: cfg}, closeFn, nil
}

// SelectRows reads the full inventory table ordered by ascending id.
func (r *Repository) SelectRows(ctx context.Context) ([]inventory.Row, error) {
	q := fmt.Sprintf(
		"SELECT id, host, grp, var_key, var_value FROM %s ORDER BY id",
		r.cfg.Table,
	)
	rs, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("mysql: select: %w", err)
	}
	defer rs.Close()

	var rows []inventory.Row
	for rs.Next() {
		var (
			row                   inventory.Row
			host, grp, key, value sql.NullString
		)
		if err := rs.Scan(&row.ID, &host, &grp, &key, &value); err != nil {
			return nil, fmt.Errorf("mysql: scan: %w", err)
		}
		row.Host, row.Group, row.Key, row.Value = host.String, grp.String, key.String, value.String
		rows = append(rows, row)
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("mysql: iterate: %w", err)
	}
	return rows, nil
}

// InsertRows appends rows inside a single transaction using a prepared
// statement.
func (r *Repository) InsertRows(ctx context.Context, rows []inventory.Row) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	stmtSQL := fmt.Sprintf(
		"INSERT INTO %s (host, grp, var_key, var_value) VALUES (?, ?, ?, ?)",
		r.cfg.Table,
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("mysql: begin tx: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, stmtSQL)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("mysql: prepare insert: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row.Host, row.Group, row.Key, row.Value); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("mysql: insert: %w", err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("mysql: commit: %w", err)
	}
	return inserted, nil
}

// Ping verifies connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("mysql: ping: %w", err)
	}
	return nil
}

// Exec executes an arbitrary SQL statement (typically DDL).
func (r *Repository) Exec(ctx context.Context, sql string) error {
	if strings.TrimSpace(sql) == "" {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, sql); err != nil {
		return fmt.Errorf("mysql: exec: %w", err)
	}
	return nil
}
