package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

const (
	// AppName is the application name used for XDG directory paths.
	AppName = "apscan"

	// DefaultTimeout is the per-invocation limit of the scanning utility.
	// Zero means the utility may run as long as it needs; a scan normally
	// finishes in a few seconds.
	DefaultTimeout time.Duration = 0

	// LogFormatText selects slog's text handler.
	LogFormatText = "text"
	// LogFormatJSON selects slog's JSON handler.
	LogFormatJSON = "json"
)

// Config holds all configuration options for apscan.
// It is populated from CLI flags and the configuration file, then passed
// through the application rather than kept in global state.
type Config struct {
	// UtilityPath is the path of the scanning utility.
	// An empty value means the configuration file's utility, then the
	// macOS default location.
	UtilityPath string

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches the current directory and then the
	// XDG config directory for base_stations.yml.
	ConfigFilePath string

	// Stations holds the known station file loaded by LoadConfigFile.
	// It is never nil after the scan command has loaded its configuration.
	Stations *File

	// OUIDatabase is an optional path to an IEEE oui.txt file used to name
	// manufacturers that are not in the built-in table.
	OUIDatabase string

	// Timeout bounds each invocation of the scanning utility.
	Timeout time.Duration

	// Verbose enables detailed log output using slog.LevelDebug.
	Verbose bool

	// Redact masks the device part of hardware addresses in log output.
	Redact bool

	// LogFormat is LogFormatText or LogFormatJSON. Empty means text.
	LogFormat string

	// JSONReport enables JSON report output instead of the text listing.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of the text listing.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// Tee also prints the text listing to stdout while ReportFile is written.
	Tee bool

	// DBDir is the directory of the scan history database.
	// Defaults to the XDG data directory (~/.local/share/apscan on Linux).
	DBDir string

	// SaveToDB saves the scan to the history database. Off unless the
	// user asks for history.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Timeout:   DefaultTimeout,
		Stations:  NewFile(),
		DBDir:     XDGDataDir(),
		LogFormat: LogFormatText,
	}
}

// XDGDataDir returns the XDG data directory for apscan.
// On Linux: ~/.local/share/apscan
// On macOS: ~/Library/Application Support/apscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for apscan.
// On Linux: ~/.config/apscan
// On macOS: ~/Library/Application Support/apscan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// ResolveUtility returns the utility path to use: the flag value, then the
// configuration file value. An empty result means the platform default.
func (c *Config) ResolveUtility() string {
	if c.UtilityPath != "" {
		return c.UtilityPath
	}
	if c.Stations != nil {
		return c.Stations.Utility
	}
	return ""
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return ErrInvalidTimeout
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.Tee && c.ReportFile == "" {
		return ErrTeeWithoutOutput
	}

	switch c.LogFormat {
	case "", LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.LogFormat)
	}

	return nil
}
