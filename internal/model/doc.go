// Package model defines the core data structures used throughout apscan.
//
// This package contains the following main types:
//   - StationRecord: One base station as reported by a single scan line
//   - ScanResult: Stations of one or more scans keyed by canonical BSSID
//   - StationInfo: Display metadata (model, site, room) for a station
//   - RankedStation: A station in report order with its resolved metadata
//   - ScanReport: The result of a whole run, passed between pipeline steps
//
// Models live in their own package so that the scanner, pipeline, report
// writers and history database can share them without import cycles.
// All types are serializable to JSON for report output and storage.
package model
