// Package inventory builds the Ansible dynamic-inventory document from flat
// rows read out of a relational table.
//
// The package is a pure transformation layer: it owns the row classification
// rules, the document shape (groups plus _meta.hostvars), and validation of
// new host records. It does not own the database connection, the table
// schema DDL, or the CLI surface; those live in internal/storage and
// cmd/inventory respectively.
//
// Invariants:
//   - Every host name listed under any group appears as a key in
//     _meta.hostvars, possibly mapped to an empty variable set.
//   - Duplicate (host, var_key) rows resolve last-write-wins in storage read
//     order (ascending id).
//   - Host names are deduplicated within a group.
package inventory

// Row is one record of the inventory table, already lifted into named fields
// at the storage boundary. The zero values of Host, Group and Key drive row
// classification:
//
//	Host + Group          membership row (host belongs to group)
//	Host + Key            host variable row
//	Group + Key, no Host  group variable row
//	Host only             bare host row (hostvars entry, no membership)
//	neither Host nor Group  malformed; skipped with a warning
type Row struct {
	// ID is the auto-increment primary key. Ascending ID defines storage
	// read order, which in turn defines last-write-wins resolution.
	ID int64

	// Host is the host name (FQDN). Empty for group-variable rows.
	Host string

	// Group is the group name. Empty for host-variable and bare host rows.
	Group string

	// Key and Value carry one variable assignment. Key empty means the row
	// is pure membership (or a bare host row).
	Key   string
	Value string
}

// Malformed reports whether the row carries neither a host nor a group and
// therefore cannot contribute to the document.
func (r Row) Malformed() bool {
	return r.Host == "" && r.Group == ""
}
