// Package log builds the slog loggers used by apscan.
//
// Log output goes to stderr so that it never mixes with the report on
// stdout. Verbose mode lowers the level from Warn to Debug.
//
// # Redaction
//
// Scan logs name base stations by hardware address. When logs are shared
// outside the network they describe, the RedactHandler masks the device
// part of every address and keeps the manufacturer prefix:
//
//	logger := log.NewLogger(os.Stderr, false, true)
//	logger.Warn("scan failed", "bssid", "00:1b:63:11:22:33")
//	// ... bssid=00:1b:63:xx:xx:xx
//
// Addresses are found both in attribute values and inside longer strings
// such as wrapped error messages.
package log
