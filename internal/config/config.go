// Package config defines the JSON-serializable configuration model for the
// inventory CLI. It is intentionally small and explicit: one storage block
// selecting a backend kind plus its database settings, decoded with the
// standard library.
//
// Example config file:
//
//	{
//	  "storage": {
//	    "kind": "mysql",
//	    "db": {
//	      "dsn": "inv:secret@tcp(127.0.0.1:3306)/infra?timeout=10s",
//	      "table": "inventory",
//	      "auto_create_table": false
//	    }
//	  }
//	}
//
// The file location comes from the -config flag, then $INVENTORY_CONFIG,
// then ./inventory.json. $INVENTORY_DSN overrides db.dsn so credentials can
// stay out of the file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// DefaultPath is used when neither the -config flag nor $INVENTORY_CONFIG is
// set.
const DefaultPath = "inventory.json"

// Config is the top-level object decoded from the config file.
type Config struct {
	// Storage describes where inventory rows live.
	Storage Storage `json:"storage"`
}

// Storage selects the backend used to read and write inventory rows.
type Storage struct {
	// Kind selects the storage implementation: "mysql", "postgres",
	// "sqlite" or "mssql".
	Kind string `json:"kind"`

	// DB carries the database settings shared across backends.
	DB DBConfig `json:"db"`
}

// DBConfig configures the database connection and table.
type DBConfig struct {
	// DSN is the driver connection string. Overridable via $INVENTORY_DSN.
	DSN string `json:"dsn"`

	// Table is the inventory table name, optionally schema-qualified where
	// the backend supports it.
	Table string `json:"table"`

	// AutoCreateTable requests schema bootstrap before first use.
	AutoCreateTable bool `json:"auto_create_table"`
}

// ResolvePath picks the config file location: explicit flag value first,
// then $INVENTORY_CONFIG, then DefaultPath.
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if p := os.Getenv("INVENTORY_CONFIG"); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads and decodes the config file at path and applies environment
// overrides.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	var cfg Config
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	applyEnv(&cfg, os.Getenv)
	return cfg, nil
}

// applyEnv layers environment overrides onto cfg. Split out with a getenv
// parameter so tests stay hermetic.
func applyEnv(cfg *Config, getenv func(string) string) {
	if dsn := getenv("INVENTORY_DSN"); dsn != "" {
		cfg.Storage.DB.DSN = dsn
	}
}
