package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/apscan/internal/airport"
	"github.com/nao1215/apscan/internal/model"
	"github.com/nao1215/apscan/internal/station"
)

// fakeScanner returns a canned outcome per SSID and records the call order.
type fakeScanner struct {
	outcomes map[string]airport.Outcome
	errs     map[string]error
	calls    []string
}

func (f *fakeScanner) Scan(_ context.Context, ssid string) (airport.Outcome, error) {
	f.calls = append(f.calls, ssid)
	if err := f.errs[ssid]; err != nil {
		return airport.Outcome{Stations: make(model.ScanResult)}, err
	}
	outcome, ok := f.outcomes[ssid]
	if !ok {
		return airport.Outcome{Stations: make(model.ScanResult)}, nil
	}
	return outcome, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func record(ssid string, rssi, channel int) model.StationRecord {
	return model.StationRecord{SSID: ssid, RSSI: rssi, Channel: channel, HT: "Y", CC: "US", Security: "WPA2(PSK/AES/AES)"}
}

// TestNetworkScanStep tests a single scan step.
func TestNetworkScanStep(t *testing.T) {
	t.Parallel()

	t.Run("names open and closed scans", func(t *testing.T) {
		t.Parallel()

		if got := NewNetworkScanStep(&fakeScanner{}, "").Name(); got != "scan_open" {
			t.Errorf("unexpected name %q", got)
		}
		if got := NewNetworkScanStep(&fakeScanner{}, "Staff").Name(); got != "scan_closed:Staff" {
			t.Errorf("unexpected name %q", got)
		}
	})

	t.Run("merges stations and records the scan", func(t *testing.T) {
		t.Parallel()

		scanner := &fakeScanner{outcomes: map[string]airport.Outcome{
			"": {
				Stations: model.ScanResult{"aa:bb:cc:dd:ee:ff": record("MySchoolWifi", -52, 6)},
				Skipped:  []error{fmt.Errorf("line 4: %w", airport.ErrMalformedLine)},
			},
		}}
		report := newReport()

		step := NewNetworkScanStep(scanner, "", WithScanLogger(quietLogger()))
		if err := step.Do(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(report.Result) != 1 {
			t.Errorf("expected 1 merged station, got %d", len(report.Result))
		}
		want := []model.NetworkScan{{SSID: "", Stations: 1, Skipped: 1}}
		if diff := cmp.Diff(want, report.Networks); diff != "" {
			t.Errorf("networks mismatch (-want +got):\n%s", diff)
		}
		if len(report.Warnings) != 1 || !strings.Contains(report.Warnings[0], "line 4") {
			t.Errorf("expected skipped line warning, got %v", report.Warnings)
		}
	})

	t.Run("failed scan contributes nothing and is not an error", func(t *testing.T) {
		t.Parallel()

		scanner := &fakeScanner{errs: map[string]error{"Staff": errors.New("exit status 1")}}
		report := newReport()
		report.Result["aa:bb:cc:dd:ee:ff"] = record("MySchoolWifi", -52, 6)

		step := NewNetworkScanStep(scanner, "Staff", WithScanLogger(quietLogger()))
		if err := step.Do(context.Background(), report); err != nil {
			t.Fatalf("expected failure to be absorbed, got %v", err)
		}

		if len(report.Result) != 1 {
			t.Errorf("expected earlier stations to survive, got %d", len(report.Result))
		}
		if len(report.Networks) != 1 || !report.Networks[0].Failed() {
			t.Errorf("expected failed network scan, got %+v", report.Networks)
		}
		if report.FailedScans() != 1 {
			t.Errorf("expected 1 failed scan, got %d", report.FailedScans())
		}
		if len(report.Warnings) != 1 || !strings.Contains(report.Warnings[0], "scan of Staff failed") {
			t.Errorf("unexpected warnings %v", report.Warnings)
		}
	})

	t.Run("cancellation is returned", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		scanner := &fakeScanner{errs: map[string]error{"": errors.New("signal: killed")}}
		step := NewNetworkScanStep(scanner, "", WithScanLogger(quietLogger()))

		if err := step.Do(ctx, newReport()); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

// TestDefaultPipeline tests a full run with fake scans.
func TestDefaultPipeline(t *testing.T) {
	t.Parallel()

	t.Run("builds steps in order", func(t *testing.T) {
		t.Parallel()

		p := DefaultPipeline(&fakeScanner{}, station.NewResolver(), []string{"Staff", "Admin"}, WithLogger(quietLogger()))
		want := []string{"scan_open", "scan_closed:Staff", "scan_closed:Admin", "rank", "resolve"}
		if diff := cmp.Diff(want, p.StepNames()); diff != "" {
			t.Errorf("steps mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("closed scan overrides open scan and result is ranked", func(t *testing.T) {
		t.Parallel()

		scanner := &fakeScanner{outcomes: map[string]airport.Outcome{
			"": {Stations: model.ScanResult{
				"aa:bb:cc:dd:ee:ff": record("MySchoolWifi", -70, 6),
				"00:1b:63:11:22:33": record("Guest", -60, 11),
			}},
			"Staff": {Stations: model.ScanResult{
				"aa:bb:cc:dd:ee:ff": record("Staff", -50, 6),
				"00:11:24:00:00:01": record("Staff", -60, 1),
			}},
		}}
		known, err := station.NewKnownTable(map[string]model.StationInfo{
			"AA-BB-CC-DD-EE-FF": {Model: "AirPort Extreme", Site: "Kent", Room: "Library"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		resolver := station.NewResolver(station.WithKnownTable(known))

		p := DefaultPipeline(scanner, resolver, []string{"Staff"}, WithLogger(quietLogger()))
		report := newReport()
		if err := p.Execute(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if diff := cmp.Diff([]string{"", "Staff"}, scanner.calls); diff != "" {
			t.Errorf("scan order mismatch (-want +got):\n%s", diff)
		}

		want := []model.RankedStation{
			{
				BSSID:  "aa:bb:cc:dd:ee:ff",
				Record: record("Staff", -50, 6),
				Info:   model.StationInfo{Model: "AirPort Extreme", Site: "Kent", Room: "Library"},
				Source: model.InfoSourceKnown,
			},
			{
				BSSID:  "00:11:24:00:00:01",
				Record: record("Staff", -60, 1),
				Info:   model.StationInfo{Model: "Apple AirPort Extreme with 802.11g", Site: "Unknown", Room: "Unknown"},
				Source: model.InfoSourceManufacturer,
			},
			{
				BSSID:  "00:1b:63:11:22:33",
				Record: record("Guest", -60, 11),
				Info:   model.StationInfo{Model: "Apple AirPort Express", Site: "Unknown", Room: "Unknown"},
				Source: model.InfoSourceManufacturer,
			},
		}
		if diff := cmp.Diff(want, report.Stations); diff != "" {
			t.Errorf("stations mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("all scans failing gives an empty report", func(t *testing.T) {
		t.Parallel()

		scanner := &fakeScanner{errs: map[string]error{
			"":      errors.New("no such file"),
			"Staff": errors.New("no such file"),
		}}
		p := DefaultPipeline(scanner, station.NewResolver(), []string{"Staff"}, WithLogger(quietLogger()))
		report := newReport()

		if err := p.Execute(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.StationCount() != 0 {
			t.Errorf("expected no stations, got %d", report.StationCount())
		}
		if report.FailedScans() != 2 {
			t.Errorf("expected 2 failed scans, got %d", report.FailedScans())
		}
	})
}
