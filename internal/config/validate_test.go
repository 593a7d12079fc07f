package config

import "testing"

func mkConfig(kind, dsn, table string) Config {
	var cfg Config
	cfg.Storage.Kind = kind
	cfg.Storage.DB.DSN = dsn
	cfg.Storage.DB.Table = table
	return cfg
}

func issueAt(issues []Issue, path string) (Issue, bool) {
	for _, iss := range issues {
		if iss.Path == path {
			return iss, true
		}
	}
	return Issue{}, false
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		cfg       Config
		wantPath  string // "" means no issues at all
		severity  IssueSeverity
		hasErrors bool
	}{
		{
			name: "valid mysql",
			cfg:  mkConfig("mysql", "inv@tcp(localhost)/db", "inventory"),
		},
		{
			name:      "empty kind",
			cfg:       mkConfig("", "dsn", "inventory"),
			wantPath:  "storage.kind",
			severity:  SeverityError,
			hasErrors: true,
		},
		{
			name:     "unknown kind warns",
			cfg:      mkConfig("oracle", "dsn", "inventory"),
			wantPath: "storage.kind",
			severity: SeverityWarning,
		},
		{
			name:      "empty dsn",
			cfg:       mkConfig("sqlite", "", "inventory"),
			wantPath:  "storage.db.dsn",
			severity:  SeverityError,
			hasErrors: true,
		},
		{
			name:      "empty table",
			cfg:       mkConfig("sqlite", "inventory.db", ""),
			wantPath:  "storage.db.table",
			severity:  SeverityError,
			hasErrors: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			issues := Validate(tc.cfg)
			if tc.wantPath == "" {
				if len(issues) != 0 {
					t.Fatalf("issues = %v, want none", issues)
				}
				return
			}
			iss, ok := issueAt(issues, tc.wantPath)
			if !ok {
				t.Fatalf("no issue at %q: %v", tc.wantPath, issues)
			}
			if iss.Severity != tc.severity {
				t.Fatalf("severity = %q, want %q", iss.Severity, tc.severity)
			}
			if got := HasErrors(issues); got != tc.hasErrors {
				t.Fatalf("HasErrors = %v, want %v", got, tc.hasErrors)
			}
		})
	}
}

func TestIssue_Error(t *testing.T) {
	t.Parallel()

	iss := Issue{Severity: SeverityError, Path: "storage.kind", Message: "boom"}
	if got, want := iss.Error(), "error at storage.kind: boom"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}
