// Package all wires all built-in storage backends into the storage factory.
//
// This package exists purely for side effects: importing it (even as a blank
// import) causes the init functions of each concrete storage backend to run,
// which in turn register their factories and DDL bootstrappers with the
// storage package.
//
// Importing this package makes the following storage kinds available at
// runtime:
//
//   - "mysql"    (invdb/internal/storage/mysql)
//   - "postgres" (invdb/internal/storage/postgres)
//   - "sqlite"   (invdb/internal/storage/sqlite)
//   - "mssql"    (invdb/internal/storage/mssql)
//
// A binary that needs only a subset of backends can blank-import the
// individual backend packages instead.
package all

import (
	_ "invdb/internal/storage/mssql"
	_ "invdb/internal/storage/mysql"
	_ "invdb/internal/storage/postgres"
	_ "invdb/internal/storage/sqlite"
)
