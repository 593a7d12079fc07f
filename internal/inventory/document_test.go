package inventory

import (
	"encoding/json"
	"reflect"
	"testing"
)

// mkRows assigns ascending IDs so tests read like table contents.
func mkRows(rows ...Row) []Row {
	for i := range rows {
		rows[i].ID = int64(i + 1)
	}
	return rows
}

func TestBuildDocument_GroupMembersAlwaysInHostvars(t *testing.T) {
	t.Parallel()

	rows := mkRows(
		Row{Host: "web1", Group: "web"},
		Row{Host: "web2", Group: "web"},
		Row{Host: "db1", Group: "db"},
		Row{Host: "db1", Key: "role", Value: "primary"},
	)
	doc := BuildDocument(rows)

	for name, g := range doc.Groups {
		for _, h := range g.Hosts {
			if _, ok := doc.Hostvars[h]; !ok {
				t.Fatalf("host %q in group %q missing from hostvars", h, name)
			}
		}
	}
	if got := doc.Hostvars["web1"]; len(got) != 0 {
		t.Fatalf("web1 vars = %v, want empty", got)
	}
	if got, want := doc.Hostvars["db1"]["role"], "primary"; got != want {
		t.Fatalf("db1 role = %q, want %q", got, want)
	}
}

func TestBuildDocument_Empty(t *testing.T) {
	t.Parallel()

	doc := BuildDocument(nil)
	if len(doc.Groups) != 0 {
		t.Fatalf("groups = %v, want none", doc.Groups)
	}
	if doc.Hostvars == nil || len(doc.Hostvars) != 0 {
		t.Fatalf("hostvars = %v, want empty non-nil map", doc.Hostvars)
	}

	b, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if got, want := string(b), `{"_meta":{"hostvars":{}}}`; got != want {
		t.Fatalf("json = %s, want %s", got, want)
	}
}

func TestBuildDocument_DedupAndLastWriteWins(t *testing.T) {
	t.Parallel()

	rows := mkRows(
		Row{Host: "web1", Group: "web"},
		Row{Host: "web1", Group: "web"}, // duplicate membership
		Row{Host: "web1", Key: "tier", Value: "bronze"},
		Row{Host: "web1", Key: "tier", Value: "gold"}, // later row wins
	)
	doc := BuildDocument(rows)

	if got, want := doc.Groups["web"].Hosts, []string{"web1"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("web hosts = %v, want %v", got, want)
	}
	if got, want := doc.Hostvars["web1"]["tier"], "gold"; got != want {
		t.Fatalf("tier = %q, want %q", got, want)
	}
}

func TestBuildDocument_VarOnlyHostGetsHostvarsEntry(t *testing.T) {
	t.Parallel()

	rows := mkRows(
		Row{Host: "stray", Key: "note", Value: "ungrouped on purpose"},
	)
	doc := BuildDocument(rows)

	if len(doc.Groups) != 0 {
		t.Fatalf("groups = %v, want none", doc.Groups)
	}
	if got, want := doc.Hostvars["stray"]["note"], "ungrouped on purpose"; got != want {
		t.Fatalf("stray note = %q, want %q", got, want)
	}
}

func TestBuildDocument_GroupVarsAndMalformedRows(t *testing.T) {
	t.Parallel()

	rows := mkRows(
		Row{Host: "web1", Group: "web"},
		Row{Group: "web", Key: "http_port", Value: "8080"},
		Row{Key: "orphan", Value: "x"}, // malformed: no host, no group
	)
	doc := BuildDocument(rows)

	g := doc.Groups["web"]
	if got, want := g.Hosts, []string{"web1"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("web hosts = %v, want %v", got, want)
	}
	if got, want := g.Vars["http_port"], "8080"; got != want {
		t.Fatalf("http_port = %q, want %q", got, want)
	}
	if _, ok := doc.Hostvars[""]; ok {
		t.Fatalf("malformed row produced a hostvars entry")
	}
}

func TestBuildDocument_MarshalShape(t *testing.T) {
	t.Parallel()

	rows := mkRows(
		Row{Host: "web1", Group: "web"},
	)
	b, err := json.Marshal(BuildDocument(rows))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := decoded["web"]; !ok {
		t.Fatalf("group web missing from top level: %s", b)
	}
	meta, ok := decoded["_meta"].(map[string]any)
	if !ok {
		t.Fatalf("_meta missing or wrong type: %s", b)
	}
	if _, ok := meta["hostvars"]; !ok {
		t.Fatalf("_meta.hostvars missing: %s", b)
	}
}

func TestGroupHosts(t *testing.T) {
	t.Parallel()

	rows := mkRows(
		Row{Host: "web2", Group: "web"},
		Row{Host: "web1", Group: "web"},
		Row{Host: "web1", Group: "web"},
		Row{Group: "emptyish", Key: "k", Value: "v"},
	)

	t.Run("known group, any row order", func(t *testing.T) {
		got, err := GroupHosts(rows, "web")
		if err != nil {
			t.Fatalf("GroupHosts: %v", err)
		}
		if want := []string{"web1", "web2"}; !reflect.DeepEqual(got, want) {
			t.Fatalf("hosts = %v, want %v", got, want)
		}
	})

	t.Run("group with only var rows is empty, not missing", func(t *testing.T) {
		got, err := GroupHosts(rows, "emptyish")
		if err != nil {
			t.Fatalf("GroupHosts: %v", err)
		}
		if len(got) != 0 {
			t.Fatalf("hosts = %v, want none", got)
		}
	})

	t.Run("unknown group", func(t *testing.T) {
		_, err := GroupHosts(rows, "nope")
		if !IsNotFound(err) {
			t.Fatalf("err = %v, want *NotFoundError", err)
		}
	})

	t.Run("empty group name", func(t *testing.T) {
		_, err := GroupHosts(rows, "")
		if !IsNotFound(err) {
			t.Fatalf("err = %v, want *NotFoundError", err)
		}
	})
}

func TestGroupNames(t *testing.T) {
	t.Parallel()

	rows := mkRows(
		Row{Host: "db1", Group: "db"},
		Row{Host: "web1", Group: "web"},
		Row{Host: "web2", Group: "web"},
	)
	if got, want := GroupNames(rows), []string{"db", "web"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("names = %v, want %v", got, want)
	}
	if got := GroupNames(nil); len(got) != 0 {
		t.Fatalf("names = %v, want none", got)
	}
}

func TestHostVars(t *testing.T) {
	t.Parallel()

	rows := mkRows(
		Row{Host: "db1", Key: "role", Value: "replica"},
		Row{Host: "db1", Key: "role", Value: "primary"},
		Row{Host: "db1", Key: "dc", Value: "ams"},
		Row{Host: "db2", Key: "role", Value: "replica"},
	)

	got := HostVars(rows, "db1")
	want := Vars{"role": "primary", "dc": "ams"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("vars = %v, want %v", got, want)
	}

	// Unknown host: empty mapping, not an error.
	empty := HostVars(rows, "ghost")
	if empty == nil || len(empty) != 0 {
		t.Fatalf("vars for unknown host = %v, want empty non-nil map", empty)
	}
}

func TestMatchHostVars(t *testing.T) {
	t.Parallel()

	rows := mkRows(
		Row{Host: "web1", Group: "web"},
		Row{Host: "web2", Key: "tier", Value: "gold"},
		Row{Host: "db1", Key: "role", Value: "primary"},
	)

	got := MatchHostVars(rows, "web")
	if len(got) != 2 {
		t.Fatalf("matched %d hosts, want 2: %v", len(got), got)
	}
	if _, ok := got["db1"]; ok {
		t.Fatalf("db1 matched prefix web: %v", got)
	}

	all := MatchHostVars(rows, "")
	if len(all) != 3 {
		t.Fatalf("empty prefix matched %d hosts, want 3", len(all))
	}
}
