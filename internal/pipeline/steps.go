package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/apscan/internal/airport"
	"github.com/nao1215/apscan/internal/model"
)

// StationScanner runs one scan of the air. *airport.Scanner implements it.
type StationScanner interface {
	Scan(ctx context.Context, ssid string) (airport.Outcome, error)
}

// Annotator attaches metadata to ranked stations. *station.Resolver
// implements it.
type Annotator interface {
	Annotate(stations []model.RankedStation)
}

// NetworkScanStep runs the scanning utility once and merges the stations it
// finds into the report. An empty SSID scans for open networks.
//
// A failed scan is not an error for the pipeline: it is recorded in the
// report and contributes no stations.
type NetworkScanStep struct {
	// scanner invokes the utility.
	scanner StationScanner

	// ssid is the network to probe; empty for the open scan.
	ssid string

	// logger for structured logging.
	logger *slog.Logger
}

// NetworkScanStepOption configures a NetworkScanStep.
type NetworkScanStepOption func(*NetworkScanStep)

// WithScanLogger sets a custom logger for the scan step.
func WithScanLogger(logger *slog.Logger) NetworkScanStepOption {
	return func(s *NetworkScanStep) {
		s.logger = logger
	}
}

// NewNetworkScanStep creates a scan step for ssid.
func NewNetworkScanStep(scanner StationScanner, ssid string, opts ...NetworkScanStepOption) *NetworkScanStep {
	s := &NetworkScanStep{
		scanner: scanner,
		ssid:    ssid,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *NetworkScanStep) Name() string {
	if s.ssid == "" {
		return "scan_open"
	}
	return "scan_closed:" + s.ssid
}

// Do executes the scan and merges its stations. Stations from this scan
// replace any earlier record with the same BSSID.
func (s *NetworkScanStep) Do(ctx context.Context, report *model.ScanReport) error {
	scan := model.NetworkScan{SSID: s.ssid}

	outcome, err := s.scanner.Scan(ctx, s.ssid)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Warn("scan failed", "network", scan.Label(), "error", err)
		scan.Error = err.Error()
		report.AddWarning("scan of %s failed: %v", scan.Label(), err)
	}

	for _, skipped := range outcome.Skipped {
		report.AddWarning("%s: %v", scan.Label(), skipped)
	}

	scan.Stations = len(outcome.Stations)
	scan.Skipped = len(outcome.Skipped)
	report.Networks = append(report.Networks, scan)
	report.Result.Merge(outcome.Stations)

	return nil
}

// RankStep orders the merged stations by signal strength.
type RankStep struct{}

// NewRankStep creates a new rank step.
func NewRankStep() *RankStep {
	return &RankStep{}
}

// Name returns the step name.
func (s *RankStep) Name() string {
	return "rank"
}

// Do replaces report.Stations with the ranked view of report.Result.
func (s *RankStep) Do(_ context.Context, report *model.ScanReport) error {
	report.Stations = report.Result.Ranked()
	return nil
}

// ResolveStep attaches model and location to every ranked station.
type ResolveStep struct {
	annotator Annotator
}

// NewResolveStep creates a new resolve step.
func NewResolveStep(annotator Annotator) *ResolveStep {
	return &ResolveStep{annotator: annotator}
}

// Name returns the step name.
func (s *ResolveStep) Name() string {
	return "resolve"
}

// Do annotates report.Stations in place.
func (s *ResolveStep) Do(_ context.Context, report *model.ScanReport) error {
	s.annotator.Annotate(report.Stations)
	return nil
}

// DefaultPipeline creates a pipeline that scans for open networks, probes
// each closed SSID in the given order, then ranks and resolves the result.
func DefaultPipeline(scanner StationScanner, annotator Annotator, closedSSIDs []string, opts ...Option) *Pipeline {
	p := New(opts...)

	scanOpts := []NetworkScanStepOption{WithScanLogger(p.logger)}

	p.AddStep(NewNetworkScanStep(scanner, "", scanOpts...))
	for _, ssid := range closedSSIDs {
		p.AddStep(NewNetworkScanStep(scanner, ssid, scanOpts...))
	}
	p.AddSteps(
		NewRankStep(),
		NewResolveStep(annotator),
	)

	return p
}
