// Package config provides configuration structures and utilities for apscan.
// It holds the options gathered from CLI flags and the known station file
// (base_stations.yml) that maps BSSIDs to their installed location.
package config
