package model

import (
	"fmt"
	"time"
)

// StartTimeLayout formats the scan start time for display,
// e.g. "Mon Oct 19 2026 at 03:04 PM".
const StartTimeLayout = "Mon Jan 02 2006 at 03:04 PM"

// NetworkScan records the outcome of one invocation of the scanning utility.
type NetworkScan struct {
	// SSID is the probed network name; empty for the open network scan.
	SSID string `json:"ssid"`

	// Stations is the number of stations parsed from the output.
	Stations int `json:"stations"`

	// Skipped is the number of malformed lines that were ignored.
	Skipped int `json:"skipped"`

	// Error is set when the utility could not be run or failed.
	// A failed scan contributes no stations.
	Error string `json:"error,omitempty"`
}

// Label returns a human-readable name for the scanned network.
func (n NetworkScan) Label() string {
	if n.SSID == "" {
		return "open networks"
	}
	return n.SSID
}

// Failed reports whether the scan produced an error.
func (n NetworkScan) Failed() bool {
	return n.Error != ""
}

// ScanReport is the result of one run: every network scan, the merged and
// ranked stations, and any warnings raised on the way.
//
// The pipeline creates a report up front and each step fills in its part.
// Result accumulates the merged scans and is not serialized; Stations is
// the final, ranked view.
type ScanReport struct {
	// StartedAt is the local time the run began. It is captured once.
	StartedAt time.Time `json:"started_at"`

	// Utility is the path of the scanning utility that was invoked.
	Utility string `json:"utility"`

	// Networks lists the scans in execution order, open scan first.
	Networks []NetworkScan `json:"networks"`

	// Stations is the ranked station list.
	Stations []RankedStation `json:"stations"`

	// Warnings holds non-fatal problems such as malformed lines.
	Warnings []string `json:"warnings,omitempty"`

	// Steps lists the pipeline steps that ran, in order.
	Steps []string `json:"steps,omitempty"`

	// Cancelled is set when the run was interrupted before every step ran.
	// The stations gathered so far are still reported.
	Cancelled bool `json:"cancelled,omitempty"`

	// Result is the merged scan result before ranking.
	Result ScanResult `json:"-"`
}

// NewScanReport creates an empty report for a run started at startedAt.
func NewScanReport(startedAt time.Time, utility string) *ScanReport {
	return &ScanReport{
		StartedAt: startedAt,
		Utility:   utility,
		Networks:  make([]NetworkScan, 0),
		Stations:  make([]RankedStation, 0),
		Result:    make(ScanResult),
	}
}

// AddWarning appends a formatted warning to the report.
func (r *ScanReport) AddWarning(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// StationCount returns the number of ranked stations.
func (r *ScanReport) StationCount() int {
	return len(r.Stations)
}

// FailedScans returns the number of network scans that failed.
func (r *ScanReport) FailedScans() int {
	n := 0
	for _, scan := range r.Networks {
		if scan.Failed() {
			n++
		}
	}
	return n
}

// StartedAtText returns StartedAt formatted with StartTimeLayout.
func (r *ScanReport) StartedAtText() string {
	return r.StartedAt.Format(StartTimeLayout)
}
