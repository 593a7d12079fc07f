// Package sqlite implements a SQLite-backed storage.Repository using
// database/sql. SQLite is the zero-setup option: handy for local testing and
// for small installations where the inventory file can live next to the
// playbooks.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	// SQLite driver; replace with your preferred driver if desired.
	_ "modernc.org/sqlite" // alternative: github.com/mattn/go-sqlite3

	"invdb/internal/inventory"
)

// Config holds SQLite repository configuration derived from storage.Config.
type Config struct {
	// DSN is a SQLite connection string or file path, e.g.:
	//   "file:inventory.db?cache=shared"
	//   "inventory.db" (interpreted by the driver)
	DSN string

	// Table is the inventory table name.
	Table string
}

// Repository is a SQLite-backed implementation of storage.Repository.
type Repository struct {
	db  *sql.DB
	cfg Config
}

// NewRepository opens a SQLite connection using the provided DSN and returns
// a Repository plus a Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("sqlite: DSN must not be empty")
	}

	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: open: %w", err)
	}

	// A single connection keeps :memory: databases stable across statements
	// and is plenty for a one-shot CLI.
	db.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	// Enable foreign keys by default; ignore error if driver doesn't support it.
	_, _ = db.ExecContext(ctx, "PRAGMA foreign_keys = ON;")

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
		return nil, fmt.Errorf("sqlite: select: %w", err)
	}
	defer rs.Close()

	var rows []inventory.Row
	for rs.Next() {
		var (
			row                   inventory.Row
			host, grp, key, value sql.NullString
		)
		if err := rs.Scan(&row.ID, &host, &grp, &key, &value); err != nil {
			return nil, fmt.Errorf("sqlite: scan: %w", err)
		}
		row.Host, row.Group, row.Key, row.Value = host.String, grp.String, key.String, value.String
		rows = append(rows, row)
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate: %w", err)
	}
	return rows, nil
}

// InsertRows appends rows inside a single transaction using a prepared
// statement, the same shape the other database/sql backends use.
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
		return 0, fmt.Errorf("sqlite: begin tx: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, stmtSQL)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row.Host, row.Group, row.Key, row.Value); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("sqlite: insert: %w", err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sqlite: commit: %w", err)
	}
	return inserted, nil
}

// Ping verifies connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite: ping: %w", err)
	}
	return nil
}

// Exec executes an arbitrary SQL statement (typically DDL) using the
// underlying database/sql connection.
func (r *Repository) Exec(ctx context.Context, sql string) error {
	if strings.TrimSpace(sql) == "" {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, sql); err != nil {
		return fmt.Errorf("sqlite: exec: %w", err)
	}
	return nil
}
