package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"invdb/internal/config"
	"invdb/internal/metrics"
	"invdb/internal/metrics/prompush"
	"invdb/internal/storage"

	// register all backends with the storage factory.
	// config specifies which to use but we build in support for all of them.
	_ "invdb/internal/storage/all"
)

// main is the entry point for the inventory binary: the executable Ansible
// invokes with --list, plus the get/add command surface. It loads the config,
// optionally initializes a metrics backend, opens the configured storage
// backend, and dispatches.
func main() {
	var (
		cfgPath           string
		listMode          bool
		metricsBackendFlg string
		pushGatewayURLFlg string
	)

	flag.StringVar(&cfgPath, "config", "", "config JSON path (default $INVENTORY_CONFIG, then "+config.DefaultPath+")")
	flag.BoolVar(&listMode, "list", false, "output the entire inventory document")
	flag.BoolVar(&listMode, "l", false, "shorthand for -list")
	flag.StringVar(&metricsBackendFlg, "metrics-backend", "none", "metrics backend to use (pushgateway, none)")
	flag.StringVar(&pushGatewayURLFlg, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	verbose := flag.Bool("v", false, "enable verbose logs")
	flag.Usage = usage

	flag.Parse()

	// stdout belongs to Ansible; everything else goes to stderr.
	log.SetOutput(os.Stderr)

	args := flag.Args()
	if !listMode && len(args) == 0 {
		fmt.Fprintln(os.Stderr, "requires one of {get,add}, or -l/-list")
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load(config.ResolvePath(cfgPath))
	if err != nil {
		fatalf("%v", err)
	}

	issues := config.Validate(cfg)
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		fatalf("configuration is invalid")
	}

	// Decide metrics backend: flag wins, then env, then none.
	backendName := metricsBackendFlg
	if backendName == "" {
		backendName = os.Getenv("METRICS_BACKEND")
	}
	switch backendName {
	case "pushgateway":
		gwURL := pushGatewayURLFlg
		if gwURL == "" {
			gwURL = os.Getenv("PUSHGATEWAY_URL")
		}
		if gwURL == "" {
			gwURL = "http://localhost:9091"
		}
		b, err := prompush.NewBackend(jobName, gwURL)
		if err != nil {
			log.Printf("metrics: failed to init prom push backend: %v; using nop", err)
		} else {
			if *verbose {
				log.Printf("metrics: url=%v backend=%v job=%v", gwURL, backendName, jobName)
			}
			metrics.SetBackend(b)
			defer func() {
				if err := metrics.Flush(); err != nil {
					log.Printf("metrics: flush error: %v", err)
				}
			}()
		}

	case "", "none":
		// metrics disabled; nop backend remains

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backendName)
	}

	ctx := context.Background()

	scfg := storage.Config{
		Kind:            cfg.Storage.Kind,
		DSN:             cfg.Storage.DB.DSN,
		Table:           cfg.Storage.DB.Table,
		AutoCreateTable: cfg.Storage.DB.AutoCreateTable,
	}

	repo, err := storage.New(ctx, scfg)
	if err != nil {
		fatalf("open storage: %v", err)
	}
	defer repo.Close()

	if scfg.AutoCreateTable {
		if err := storage.EnsureTable(ctx, scfg, repo); err != nil {
			fatalf("bootstrap table: %v", err)
		}
	}

	if *verbose {
		log.Printf("storage: kind=%s table=%s", scfg.Kind, scfg.Table)
	}

	switch {
	case listMode && len(args) == 0:
		err = runList(ctx, repo, os.Stdout)
	case args[0] == "get":
		err = runGet(ctx, repo, args[1:], os.Stdout)
	case args[0] == "add":
		err = runAdd(ctx, repo, args[1:], os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", args[0])
		usage()
		os.Exit(2)
	}
	if err != nil {
		fatalf("%v", err)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: inventory [flags] [-l | get | add]

Retrieve and insert dynamic inventory hosts.

  inventory -l | -list                 output the entire inventory document
  inventory get -group NAME            list host names belonging to NAME
  inventory get -groups                list all group names
  inventory get -host NAME [-prefix]   show variables for NAME ("all" dumps
                                       every host; -prefix matches by prefix)
  inventory add NAME [flags]           write a new host to the inventory

Flags:
`)
	flag.PrintDefaults()
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, "ERROR: "+format+"\n", a...)
	os.Exit(1)
}
