// Command invcheck verifies that a configured inventory backend is usable:
// it pings the database, optionally bootstraps the table, and counts the
// rows it can read. Checks run concurrently and each reports one line.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"invdb/internal/config"
	"invdb/internal/storage"

	_ "invdb/internal/storage/all"
)

type checkResult struct {
	name   string
	detail string
	err    error
}

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "config JSON path (default $INVENTORY_CONFIG, then "+config.DefaultPath+")")
	timeout := flag.Duration("timeout", 30*time.Second, "overall deadline for all checks")
	ensure := flag.Bool("ensure-table", false, "bootstrap the table before checking, regardless of config")
	flag.Parse()

	log.SetOutput(os.Stderr)

	cfg, err := config.Load(config.ResolvePath(cfgPath))
	if err != nil {
		log.Fatalf("ERROR: %v", err)
	}
	issues := config.Validate(cfg)
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		log.Fatalf("ERROR: configuration is invalid")
	}

	scfg := storage.Config{
		Kind:            cfg.Storage.Kind,
		DSN:             cfg.Storage.DB.DSN,
		Table:           cfg.Storage.DB.Table,
		AutoCreateTable: cfg.Storage.DB.AutoCreateTable,
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	repo, err := storage.New(ctx, scfg)
	if err != nil {
		log.Fatalf("ERROR: open storage: %v", err)
	}
	defer repo.Close()

	results := runChecks(ctx, repo, scfg, *ensure)

	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			fmt.Printf("FAIL  %-12s %v\n", r.name, r.err)
			continue
		}
		fmt.Printf("ok    %-12s %s\n", r.name, r.detail)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

// runChecks runs the individual checks concurrently and returns their
// results in a fixed order. A failed check never stops the others.
func runChecks(ctx context.Context, repo storage.Repository, cfg storage.Config, ensure bool) []checkResult {
	var mu sync.Mutex
	byName := map[string]checkResult{}
	record := func(name, detail string, err error) {
		mu.Lock()
		byName[name] = checkResult{name: name, detail: detail, err: err}
		mu.Unlock()
	}

	// table bootstrap runs first so the select check sees the table
	if ensure || cfg.AutoCreateTable {
		record("table", fmt.Sprintf("table=%s", cfg.Table), storage.EnsureTable(ctx, cfg, repo))
	} else {
		record("table", "skipped (auto_create_table off)", nil)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		record("ping", fmt.Sprintf("kind=%s", cfg.Kind), repo.Ping(ctx))
		return nil
	})

	g.Go(func() error {
		rows, err := repo.SelectRows(ctx)
		if err != nil {
			record("select", "", err)
			return nil
		}
		malformed := 0
		for _, r := range rows {
			if r.Malformed() {
				malformed++
			}
		}
		record("select", fmt.Sprintf("rows=%d malformed=%d", len(rows), malformed), nil)
		return nil
	})

	// goroutines only report, never fail the group
	_ = g.Wait()

	order := []string{"ping", "table", "select"}
	out := make([]checkResult, 0, len(order))
	for _, name := range order {
		out = append(out, byName[name])
	}
	return out
}
