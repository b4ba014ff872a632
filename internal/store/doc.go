// Package store persists vacation plans and account credentials in SQLite.
//
// Plans are stored as raw YAML documents keyed by name, alongside an
// enabled flag consulted by the refresh scheduler. The account table holds
// the single remote API credential (name plus PAT token) and is capped at
// one row.
//
// Repository is the interface consumed by the api and refresh packages;
// SQLiteRepository is the production implementation backed by the database
// package's connection. Schema lives in the migrations directory.
package store
