package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/apscan/internal/model"
)

// separatorLine is printed after the header and after each station block.
// It holds a single space.
const separatorLine = " "

// SimpleWriter outputs the station listing as plain text, one block per
// station in ranked order.
type SimpleWriter struct {
	baseWriter

	// verbose adds the scan summary and warnings after the listing.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format:
//
//	Scan started Mon Oct 19 2026 at 03:04 PM
//	Found 1 base station(s), listed by signal strength
//
//	aa:bb:cc:dd:ee:ff
//	    ssid: MySchoolWifi
//	   model: Unknown
//	location: Unknown Unknown
//	 channel: 6
//	strength: -52 db
func (w *SimpleWriter) Write(report *model.ScanReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	for _, st := range report.Stations {
		w.writeStation(&sb, st)
	}
	if w.verbose {
		w.writeSummary(&sb, report)
	}

	return io.WriteString(w.output, sb.String())
}

// writeHeader writes the start time and station count.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.ScanReport) {
	fmt.Fprintf(sb, "Scan started %s\n", report.StartedAtText())
	fmt.Fprintf(sb, "Found %d base station(s), listed by signal strength\n", report.StationCount())
	sb.WriteString(separatorLine + "\n")
}

// writeStation writes one station block.
func (w *SimpleWriter) writeStation(sb *strings.Builder, st model.RankedStation) {
	info := st.Info.WithDefaults()

	sb.WriteString(st.BSSID + "\n")
	fmt.Fprintf(sb, "    ssid: %s\n", st.Record.SSID)
	fmt.Fprintf(sb, "   model: %s\n", info.Model)
	fmt.Fprintf(sb, "location: %s\n", info.Location())
	fmt.Fprintf(sb, " channel: %d\n", st.Record.Channel)
	fmt.Fprintf(sb, "strength: %d db\n", st.Record.RSSI)
	sb.WriteString(separatorLine + "\n")
}

// writeSummary writes per-network scan results and warnings.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.ScanReport) {
	sb.WriteString("Scans:\n")
	for _, scan := range report.Networks {
		if scan.Failed() {
			fmt.Fprintf(sb, "  %s: failed (%s)\n", scan.Label(), scan.Error)
			continue
		}
		fmt.Fprintf(sb, "  %s: %d station(s), %d line(s) skipped\n", scan.Label(), scan.Stations, scan.Skipped)
	}

	if report.Cancelled {
		sb.WriteString("Status: cancelled (partial results)\n")
	}

	if len(report.Warnings) > 0 {
		sb.WriteString("Warnings:\n")
		for _, warning := range report.Warnings {
			fmt.Fprintf(sb, "  - %s\n", warning)
		}
	}
}
