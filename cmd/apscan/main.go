// Package main provides the entry point for the apscan CLI.
//
// apscan lists the wireless base stations in range of this machine, strongest
// signal first, and names each one from a table of known stations or from
// the manufacturer part of its hardware address.
//
// Usage:
//
//	apscan scan
//	apscan scan --json -o report.json
//	apscan history
//
// See --help for all available options.
package main

// main is the entry point for apscan.
func main() {
	Execute()
}
