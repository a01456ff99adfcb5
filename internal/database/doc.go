// Package database provides SQLite-based scan history for apscan.
//
// Every scan run is stored as one row in the scans table, holding the
// full report as JSON, plus one row per base station in the observations
// table. The history command reads the two most recent scans to show which
// stations appeared, vanished or changed signal strength, and reads the
// observations of one BSSID to show its signal over time.
//
// The database is a single file opened through modernc.org/sqlite, a
// CGO-free driver, in WAL mode with one connection.
package database
