package inventory

import (
	"errors"
	"reflect"
	"testing"
)

func TestNewHost_Validation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		host   string
		groups []string
		vars   Vars
		field  string // expected ValidationError.Field; "" means success
	}{
		{name: "empty name", host: "", groups: []string{"web"}, field: "name"},
		{name: "whitespace name", host: "   ", groups: []string{"web"}, field: "name"},
		{name: "reserved name", host: "all", groups: []string{"web"}, field: "name"},
		{name: "reserved name case-insensitive", host: "_META", field: "name"},
		{name: "reserved group", host: "db1", groups: []string{"ungrouped"}, field: "group"},
		{name: "empty var key", host: "db1", vars: Vars{" ": "x"}, field: "var"},
		{name: "ok minimal", host: "db1"},
		{name: "ok full", host: "db1", groups: []string{"web", "db"}, vars: Vars{"role": "primary"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, err := NewHost(tc.host, tc.groups, tc.vars)
			if tc.field == "" {
				if err != nil {
					t.Fatalf("NewHost: %v", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err = %v (host=%+v), want *ValidationError", err, h)
			}
			if ve.Field != tc.field {
				t.Fatalf("field = %q, want %q", ve.Field, tc.field)
			}
		})
	}
}

func TestNewHost_Normalization(t *testing.T) {
	t.Parallel()

	h, err := NewHost("  db1  ", []string{" web ", "web", "", "db"}, Vars{"role": "primary"})
	if err != nil {
		t.Fatalf("NewHost: %v", err)
	}
	if h.Name != "db1" {
		t.Fatalf("name = %q, want db1", h.Name)
	}
	if want := []string{"web", "db"}; !reflect.DeepEqual(h.Groups, want) {
		t.Fatalf("groups = %v, want %v", h.Groups, want)
	}
	if want := (Vars{"role": "primary"}); !reflect.DeepEqual(h.Vars, want) {
		t.Fatalf("vars = %v, want %v", h.Vars, want)
	}
}

func TestHostRows(t *testing.T) {
	t.Parallel()

	t.Run("groups and vars", func(t *testing.T) {
		h, err := NewHost("db1", []string{"db", "prod"}, Vars{"role": "primary", "dc": "ams"})
		if err != nil {
			t.Fatalf("NewHost: %v", err)
		}
		got := h.Rows()
		want := []Row{
			{Host: "db1", Group: "db"},
			{Host: "db1", Group: "prod"},
			{Host: "db1", Key: "dc", Value: "ams"},
			{Host: "db1", Key: "role", Value: "primary"},
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("rows = %v, want %v", got, want)
		}
	})

	t.Run("bare host still yields a row", func(t *testing.T) {
		h, err := NewHost("lonely", nil, nil)
		if err != nil {
			t.Fatalf("NewHost: %v", err)
		}
		got := h.Rows()
		want := []Row{{Host: "lonely"}}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("rows = %v, want %v", got, want)
		}
	})
}

// TestAddRoundTrip covers the add -> build -> query cycle: the vars supplied
// to a validated host come back exactly from HostVars over its rows.
func TestAddRoundTrip(t *testing.T) {
	t.Parallel()

	supplied := Vars{"role": "primary", "dc": "ams"}
	h, err := NewHost("db1", []string{"db"}, supplied)
	if err != nil {
		t.Fatalf("NewHost: %v", err)
	}

	rows := mkRows(h.Rows()...)
	doc := BuildDocument(rows)

	if got, want := doc.Groups["db"].Hosts, []string{"db1"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("db hosts = %v, want %v", got, want)
	}
	if got := HostVars(rows, "db1"); !reflect.DeepEqual(got, supplied) {
		t.Fatalf("round-trip vars = %v, want %v", got, supplied)
	}
}
