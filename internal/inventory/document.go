package inventory

import (
	"encoding/json"
	"log"
	"sort"
	"strings"

	"github.com/zeebo/xxh3"
)

// Vars is a host- or group-level variable set. Values are stored and emitted
// as strings; typing them is the playbook's concern, not ours.
type Vars map[string]string

// Group is one named group in the document: its member host names plus any
// group-level variables. Vars is omitted from JSON when empty, matching what
// Ansible expects from a dynamic inventory.
type Group struct {
	Hosts []string `json:"hosts"`
	Vars  Vars     `json:"vars,omitempty"`
}

// Document is the full dynamic-inventory output: a mapping from group name
// to Group, plus _meta.hostvars keyed by host name. It is rebuilt from the
// table on every invocation and never persisted.
type Document struct {
	Groups   map[string]Group
	Hostvars map[string]Vars
}

// MarshalJSON emits groups at the top level alongside the _meta block, the
// shape Ansible consumes from `--list`.
func (d Document) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Groups)+1)
	for name, g := range d.Groups {
		out[name] = g
	}
	hv := d.Hostvars
	if hv == nil {
		hv = map[string]Vars{}
	}
	out["_meta"] = map[string]any{"hostvars": hv}
	return json.Marshal(out)
}

// memberKey hashes a (group, host) pair for membership deduplication. A NUL
// separator keeps ("ab","c") and ("a","bc") distinct.
func memberKey(group, host string) uint64 {
	b := make([]byte, 0, len(group)+len(host)+1)
	b = append(b, group...)
	b = append(b, 0)
	b = append(b, host...)
	return xxh3.Hash(b)
}

// BuildDocument shapes flat rows into the inventory document. It is pure
// except for a warning log per malformed row.
//
// Resolution rules:
//   - membership is deduplicated per (group, host)
//   - duplicate variable keys resolve last-write-wins in slice order, which
//     callers guarantee is storage read order
//   - any host seen anywhere gets a hostvars entry, so the document invariant
//     (group members always appear under _meta.hostvars) holds by
//     construction
//
// Member lists are sorted for deterministic output.
func BuildDocument(rows []Row) Document {
	doc := Document{
		Groups:   map[string]Group{},
		Hostvars: map[string]Vars{},
	}
	seen := make(map[uint64]struct{})

	for _, r := range rows {
		if r.Malformed() {
			log.Printf("inventory: skipping malformed row id=%d (no host, no group)", r.ID)
			continue
		}

		if r.Host != "" {
			if _, ok := doc.Hostvars[r.Host]; !ok {
				doc.Hostvars[r.Host] = Vars{}
			}
			if r.Key != "" {
				doc.Hostvars[r.Host][r.Key] = r.Value
			}
		}

		if r.Group == "" {
			continue
		}
		g := doc.Groups[r.Group]
		switch {
		case r.Host != "":
			k := memberKey(r.Group, r.Host)
			if _, dup := seen[k]; !dup {
				seen[k] = struct{}{}
				g.Hosts = append(g.Hosts, r.Host)
			}
		case r.Key != "":
			if g.Vars == nil {
				g.Vars = Vars{}
			}
			g.Vars[r.Key] = r.Value
		}
		doc.Groups[r.Group] = g
	}

	for name, g := range doc.Groups {
		sort.Strings(g.Hosts)
		doc.Groups[name] = g
	}
	return doc
}

// GroupHosts returns the sorted, deduplicated member list for the named
// group. It fails with *NotFoundError when no row references the group at
// all; a group that exists only through variable rows returns an empty list.
func GroupHosts(rows []Row, group string) ([]string, error) {
	if group == "" {
		return nil, &NotFoundError{Kind: "group", Name: group}
	}

	found := false
	seen := make(map[uint64]struct{})
	hosts := []string{}
	for _, r := range rows {
		if r.Group != group {
			continue
		}
		found = true
		if r.Host == "" {
			continue // group variable row
		}
		k := memberKey(group, r.Host)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		hosts = append(hosts, r.Host)
	}
	if !found {
		return nil, &NotFoundError{Kind: "group", Name: group}
	}
	sort.Strings(hosts)
	return hosts, nil
}

// GroupNames returns the sorted distinct group names present in rows.
func GroupNames(rows []Row) []string {
	set := make(map[string]struct{})
	for _, r := range rows {
		if r.Group != "" {
			set[r.Group] = struct{}{}
		}
	}
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// HostVars returns the variable set for one host, last-write-wins in slice
// order. A host with no variable rows (or absent entirely) yields an empty,
// non-nil map; absence is not an error.
func HostVars(rows []Row, host string) Vars {
	vars := Vars{}
	if host == "" {
		return vars
	}
	for _, r := range rows {
		if r.Host == host && r.Key != "" {
			vars[r.Key] = r.Value
		}
	}
	return vars
}

// MatchHostVars returns the hostvars subset for all hosts whose name starts
// with prefix. An empty prefix matches every host.
func MatchHostVars(rows []Row, prefix string) map[string]Vars {
	doc := BuildDocument(rows)
	out := map[string]Vars{}
	for host, vars := range doc.Hostvars {
		if strings.HasPrefix(host, prefix) {
			out[host] = vars
		}
	}
	return out
}
