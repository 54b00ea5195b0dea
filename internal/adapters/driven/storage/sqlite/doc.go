// Package sqlite provides a SQLite-based implementation of the session stores.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO. It implements two store interfaces through a single database connection:
//
//   - CredentialStore: the active Google token and profile, stored as one row
//   - StateStore: CSRF states issued for the redirect flow
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.gconnector/data/session.db
package sqlite
