package airport

import (
	"context"
	"log/slog"

	"github.com/nao1215/apscan/internal/model"
)

// scanFlag is the utility flag that triggers a scan. With no value it scans
// for open networks; "--scan=<ssid>" probes for one, possibly closed, network.
const scanFlag = "--scan"

// Outcome is the result of one Scan call.
type Outcome struct {
	// Stations holds the parsed stations. It is never nil.
	Stations model.ScanResult

	// Skipped holds one error per malformed output line.
	Skipped []error
}

// Scanner invokes the scanning utility and parses its output.
type Scanner struct {
	// utility is the path of the scanning utility.
	utility string

	// runner executes the utility.
	runner Runner

	// logger for structured logging.
	logger *slog.Logger
}

// ScannerOption configures a Scanner.
type ScannerOption func(*Scanner)

// WithRunner replaces the default ExecRunner.
func WithRunner(r Runner) ScannerOption {
	return func(s *Scanner) {
		s.runner = r
	}
}

// WithLogger sets a custom logger for the scanner.
func WithLogger(logger *slog.Logger) ScannerOption {
	return func(s *Scanner) {
		s.logger = logger
	}
}

// NewScanner creates a Scanner for the utility at the given path.
func NewScanner(utility string, opts ...ScannerOption) *Scanner {
	s := &Scanner{
		utility: utility,
		runner:  NewExecRunner(),
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Utility returns the path of the scanning utility.
func (s *Scanner) Utility() string {
	return s.utility
}

// Scan runs the utility once. An empty ssid scans for open networks; any
// other value probes for that network by name.
//
// When the utility cannot be run or exits with an error, Scan returns an
// Outcome with no stations together with the error. It does not retry.
func (s *Scanner) Scan(ctx context.Context, ssid string) (Outcome, error) {
	arg := scanFlag
	if ssid != "" {
		arg = scanFlag + "=" + ssid
	}

	s.logger.Debug("running scan", "utility", s.utility, "arg", arg)

	lines, err := s.runner.Run(ctx, s.utility, arg)
	if err != nil {
		return Outcome{Stations: make(model.ScanResult)}, err
	}

	stations, skipped := Parse(lines)
	for _, e := range skipped {
		s.logger.Warn("skipping malformed scan line", "ssid", ssid, "error", e)
	}

	s.logger.Debug("scan finished",
		"ssid", ssid,
		"lines", len(lines),
		"stations", len(stations),
		"skipped", len(skipped),
	)

	return Outcome{Stations: stations, Skipped: skipped}, nil
}
