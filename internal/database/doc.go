// Package database provides SQLite-based storage for crawl and scan history.
//
// The ScanDB stores:
//   - Search results harvested per engine and search term
//   - Scan reports for historical comparison of a target's posture
//
// Design decision: We use SQLite (via modernc.org/sqlite) because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
package database
