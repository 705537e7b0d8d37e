// Package database provides SQLite-based storage for check run history.
//
// Each completed run can be persisted with its full report, letting
// later invocations list past runs and diff two runs to show which
// links broke and which were fixed. The store uses modernc.org/sqlite,
// a pure Go driver, so the binary stays cgo-free.
package database
