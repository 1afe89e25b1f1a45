// Package database provides SQLite-based persistence for scan history.
//
// Completed scan reports are stored as JSON documents alongside summary
// columns (pages crawled, finding counts) so that history listings do
// not need to deserialize full reports.
//
// Design decision: We use modernc.org/sqlite, a pure Go SQLite driver,
// to avoid CGO dependencies. This keeps cross-compilation simple and
// produces fully static binaries.
package database
