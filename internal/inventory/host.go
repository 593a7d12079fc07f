package inventory

import (
	"fmt"
	"sort"
	"strings"
)

// reservedNames are names Ansible gives special meaning to; accepting them as
// host or group names would corrupt the document.
var reservedNames = map[string]struct{}{
	"all":       {},
	"ungrouped": {},
	"_meta":     {},
}

// Host is a validated new-host record, ready to be turned into table rows.
type Host struct {
	Name   string
	Groups []string
	Vars   Vars
}

// NewHost validates and normalizes a new-host request. The name is trimmed
// and must be non-empty and non-reserved; group names are trimmed,
// deduplicated (order preserved) and checked against the reserved set;
// variable keys must be non-empty. Failures are *ValidationError.
func NewHost(name string, groups []string, vars Vars) (Host, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Host{}, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if _, ok := reservedNames[strings.ToLower(name)]; ok {
		return Host{}, &ValidationError{Field: "name", Reason: fmt.Sprintf("%q is reserved", name)}
	}

	var norm []string
	seen := make(map[string]struct{})
	for _, g := range groups {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		if _, ok := reservedNames[strings.ToLower(g)]; ok {
			return Host{}, &ValidationError{Field: "group", Reason: fmt.Sprintf("%q is reserved", g)}
		}
		if _, dup := seen[g]; dup {
			continue
		}
		seen[g] = struct{}{}
		norm = append(norm, g)
	}

	out := make(Vars, len(vars))
	for k, v := range vars {
		if strings.TrimSpace(k) == "" {
			return Host{}, &ValidationError{Field: "var", Reason: "key must not be empty"}
		}
		out[k] = v
	}

	return Host{Name: name, Groups: norm, Vars: out}, nil
}

// Rows expands the host into its INSERT payload: one membership row per
// group and one variable row per key (keys sorted so inserts are
// deterministic). A host with neither groups nor vars still yields a bare
// host row so it appears under _meta.hostvars.
func (h Host) Rows() []Row {
	rows := make([]Row, 0, len(h.Groups)+len(h.Vars))
	for _, g := range h.Groups {
		rows = append(rows, Row{Host: h.Name, Group: g})
	}
	keys := make([]string, 0, len(h.Vars))
	for k := range h.Vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		rows = append(rows, Row{Host: h.Name, Key: k, Value: h.Vars[k]})
	}
	if len(rows) == 0 {
		rows = append(rows, Row{Host: h.Name})
	}
	return rows
}
