package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and LoadConfigFile() so
// callers can use errors.Is() to tell them apart.
var (
	// ErrInvalidTimeout is returned when the per-scan timeout is negative.
	// Zero means no limit.
	ErrInvalidTimeout = errors.New("invalid timeout: must be zero or positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrTeeWithoutOutput is returned when --tee is given without --output.
	ErrTeeWithoutOutput = errors.New("--tee requires --output")

	// ErrInvalidLogFormat is returned for a --log-format other than text or json.
	ErrInvalidLogFormat = errors.New("invalid log format: must be text or json")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrInvalidConfigFile is returned when the configuration file cannot be parsed
	// or contains values that make no sense.
	ErrInvalidConfigFile = errors.New("invalid configuration file")
)
