package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net"
	"sort"
	"strings"
	"time"

	"invdb/internal/inventory"
	"invdb/internal/metrics"
	"invdb/internal/storage"
)

// jobName labels every metric this binary emits.
const jobName = "inventory"

// lookupHost is a test hook over net.LookupHost. It returns the first
// address the resolver reports for name.
var lookupHost = func(name string) (string, error) {
	addrs, err := net.LookupHost(name)
	if err != nil {
		return "", err
	}
	return addrs[0], nil
}

// selectRows reads the full table and records the select step.
func selectRows(ctx context.Context, repo storage.Repository) ([]inventory.Row, error) {
	start := time.Now()
	rows, err := repo.SelectRows(ctx)
	metrics.RecordStep(jobName, "select", err, time.Since(start))
	if err != nil {
		return nil, storage.WrapErr("select", err)
	}
	metrics.RecordRows(jobName, "selected", int64(len(rows)))
	return rows, nil
}

// writeJSON encodes v onto w as a single line, the shape Ansible reads.
func writeJSON(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}

// runList implements `inventory -l`: the full document on stdout.
func runList(ctx context.Context, repo storage.Repository, w io.Writer) error {
	rows, err := selectRows(ctx, repo)
	if err != nil {
		return err
	}

	start := time.Now()
	doc := inventory.BuildDocument(rows)
	metrics.RecordStep(jobName, "build", nil, time.Since(start))

	return writeJSON(w, doc)
}

// runGet implements the `get` subcommand: group members, group names, or
// host variables.
func runGet(ctx context.Context, repo storage.Repository, args []string, w io.Writer) error {
	fs := flag.NewFlagSet("get", flag.ContinueOnError)
	group := fs.String("group", "", "name of the group to list (exact match)")
	host := fs.String("host", "", `host whose variables to show; "all" dumps every host`)
	groupsFlag := fs.Bool("groups", false, "list all group names")
	prefix := fs.Bool("prefix", false, "with -host, match host names by prefix")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rows, err := selectRows(ctx, repo)
	if err != nil {
		return err
	}

	switch {
	case *groupsFlag:
		return writeJSON(w, inventory.GroupNames(rows))

	case *group != "":
		hosts, err := inventory.GroupHosts(rows, *group)
		if err != nil {
			return err
		}
		return writeJSON(w, hosts)

	case *host != "":
		if *host == "all" {
			return writeJSON(w, inventory.MatchHostVars(rows, ""))
		}
		if *prefix {
			return writeJSON(w, inventory.MatchHostVars(rows, *host))
		}
		return writeJSON(w, inventory.HostVars(rows, *host))

	default:
		return fmt.Errorf("get requires one of -group, -host or -groups")
	}
}

// runAdd implements the `add` subcommand: validate a new host and insert its
// rows in one transaction.
func runAdd(ctx context.Context, repo storage.Repository, args []string, w io.Writer) error {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return &inventory.ValidationError{Field: "name", Reason: "must be the first argument to add"}
	}
	name := args[0]

	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	var groups listFlag
	var vars varsFlag
	fs.Var(&groups, "group", "group the host belongs to (repeatable, comma-splittable)")
	fs.Var(&vars, "var", "host variable as key=value (repeatable)")
	ip := fs.String("ip", "", "ip address of the host; resolved from the name when empty")
	label := fs.String("label", "", "cosmetic label describing the host")
	features := fs.String("features", "", "comma-delimited feature flags to enable on the host")
	disabled := fs.Bool("disabled", false, "add the host in a disabled state")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	v := inventory.Vars{}
	for k, val := range vars.vars {
		v[k] = val
	}
	if *label != "" {
		v["label"] = *label
	}
	if *features != "" {
		v["features"] = *features
	}
	if *disabled {
		v["enabled"] = "false"
	}
	switch {
	case *ip != "":
		v["ipaddr"] = *ip
	default:
		if _, ok := v["ipaddr"]; !ok {
			addr, err := lookupHost(name)
			if err != nil {
				return &inventory.ValidationError{Field: "ip", Reason: fmt.Sprintf("cannot resolve %q: %v", name, err)}
			}
			v["ipaddr"] = addr
		}
	}

	host, err := inventory.NewHost(name, groups, v)
	if err != nil {
		return err
	}

	start := time.Now()
	n, err := repo.InsertRows(ctx, host.Rows())
	metrics.RecordStep(jobName, "insert", err, time.Since(start))
	if err != nil {
		return storage.WrapErr("insert", err)
	}
	metrics.RecordRows(jobName, "inserted", n)

	return writeJSON(w, map[string]any{"added": host.Name, "rows": n})
}

// listFlag collects repeated string flags, splitting each value on commas,
// so `-group web,db -group prod` yields three entries.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(s string) error {
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*l = append(*l, part)
		}
	}
	return nil
}

// varsFlag collects repeated key=value flags into a variable set.
type varsFlag struct {
	vars inventory.Vars
}

func (v *varsFlag) String() string {
	if len(v.vars) == 0 {
		return ""
	}
	pairs := make([]string, 0, len(v.vars))
	for k, val := range v.vars {
		pairs = append(pairs, k+"="+val)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ",")
}

func (v *varsFlag) Set(s string) error {
	key, value, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(key) == "" {
		return fmt.Errorf("variable must be key=value, got %q", s)
	}
	if v.vars == nil {
		v.vars = inventory.Vars{}
	}
	v.vars[strings.TrimSpace(key)] = value
	return nil
}
