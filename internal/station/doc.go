// Package station resolves display metadata for base stations.
//
// A Resolver first consults the known station table, which maps BSSIDs to
// model, site and room. Stations not in that table get "Unknown" for site
// and room and a model looked up by the manufacturer (OUI) prefix of the
// BSSID. The manufacturer lookup is a chain: configured overrides, then a
// built-in table of common access point vendors, then an optional IEEE
// OUI database.
package station
