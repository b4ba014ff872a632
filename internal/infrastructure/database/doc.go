// Package database provides SQLite connectivity for the vplan engine.
//
// It wraps database/sql with lifecycle management (directory creation, WAL
// pragmas, single-writer pool sizing) and an embedded migration runner. SQL
// migrations live in the top-level migrations package and are compiled into
// the binary.
//
// Thread Safety: the *DB wrapper is safe for concurrent use; SQLite's
// single-writer model is enforced through the connection pool.
package database
