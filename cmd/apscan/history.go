package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/nao1215/apscan/internal/config"
	"github.com/nao1215/apscan/internal/database"
	"github.com/nao1215/apscan/internal/model"
	"github.com/spf13/cobra"
	"github.com/tatsushid/go-prettytable"
)

// historyTimeLayout is how scan times are shown in history output.
const historyTimeLayout = "2006-01-02 15:04:05"

// digestPrefixLength is how much of a scan digest the list shows.
const digestPrefixLength = 12

// NewHistoryCmd creates the history command.
// This command reads scans saved by the scan command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Compare saved scans and show station history",
		Long: `History reads the scans saved by 'apscan scan --history'.

By default it compares the latest scan with the one before it and shows:
- Stations that appeared since the previous scan
- Stations that are no longer seen
- Stations whose signal strength changed

Examples:
  # Compare the latest two scans
  apscan history

  # List every saved scan
  apscan history --list

  # Compare the latest scan with scan 5
  apscan history --with-scan-id 5

  # Show how the signal of one station changed over time
  apscan history --bssid 00:1b:63:84:45:e6

  # Output the comparison in JSON format
  apscan history --json`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("list", "l", false,
		"List every saved scan")
	cmd.Flags().StringP("bssid", "b", "",
		"Show every saved observation of one base station")
	cmd.Flags().Int64P("with-scan-id", "i", 0,
		"Compare the latest scan with a specific scan by ID (use --list to see available IDs)")
	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	listScans, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	bssid, err := cmd.Flags().GetString("bssid")
	if err != nil {
		return err
	}
	withScanID, err := cmd.Flags().GetInt64("with-scan-id")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	// Validate arguments before opening the database.
	if bssid != "" {
		bssid, err = model.CanonicalBSSID(bssid)
		if err != nil {
			return err
		}
	}
	if withScanID < 0 {
		return fmt.Errorf("invalid scan ID %d", withScanID)
	}

	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false
	db, err := database.Open(config.XDGDataDir(), opts)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	out := cmd.OutOrStdout()

	switch {
	case listScans:
		return listScanHistory(ctx, db, out, jsonOutput)
	case bssid != "":
		return showStationHistory(ctx, db, out, bssid, jsonOutput)
	default:
		return runComparison(ctx, db, out, withScanID, jsonOutput)
	}
}

// listScanHistory lists every saved scan, newest first.
func listScanHistory(ctx context.Context, db *database.ScanDB, w io.Writer, jsonOutput bool) error {
	scans, err := db.ListScans(ctx)
	if err != nil {
		return fmt.Errorf("failed to list scans: %w", err)
	}

	if jsonOutput {
		return writeJSON(w, scans)
	}

	if len(scans) == 0 {
		fmt.Fprintln(w, "No scans found in the history database.")
		fmt.Fprintln(w, "\nUse 'apscan scan --history' to record one.")
		return nil
	}

	table, err := prettytable.NewTable(
		prettytable.Column{Header: "ID"},
		prettytable.Column{Header: "Started"},
		prettytable.Column{Header: "Stations"},
		prettytable.Column{Header: "Digest"},
		prettytable.Column{Header: "Utility"},
	)
	if err != nil {
		return err
	}
	table.Separator = "  "

	for _, meta := range scans {
		digest := meta.Digest
		if len(digest) > digestPrefixLength {
			digest = digest[:digestPrefixLength]
		}
		if err := table.AddRow(
			strconv.FormatInt(meta.ID, 10),
			meta.StartedAt.In(time.Local).Format(historyTimeLayout),
			strconv.Itoa(meta.StationCount),
			digest,
			meta.Utility,
		); err != nil {
			return err
		}
	}

	fmt.Fprintf(w, "Saved scans (%d):\n\n", len(scans))
	fmt.Fprint(w, table.String())
	fmt.Fprintln(w, "\nUse 'apscan history --with-scan-id <id>' to compare the latest scan with an earlier one.")
	return nil
}

// showStationHistory prints every saved observation of bssid, oldest first.
func showStationHistory(ctx context.Context, db *database.ScanDB, w io.Writer, bssid string, jsonOutput bool) error {
	observations, err := db.StationHistory(ctx, bssid)
	if err != nil {
		return err
	}

	if jsonOutput {
		return writeJSON(w, observations)
	}

	if len(observations) == 0 {
		fmt.Fprintf(w, "No observations of %s in the history database.\n", bssid)
		return nil
	}

	table, err := prettytable.NewTable(
		prettytable.Column{Header: "Scan"},
		prettytable.Column{Header: "Started"},
		prettytable.Column{Header: "SSID"},
		prettytable.Column{Header: "Channel"},
		prettytable.Column{Header: "RSSI"},
	)
	if err != nil {
		return err
	}
	table.Separator = "  "

	for _, obs := range observations {
		if err := table.AddRow(
			strconv.FormatInt(obs.ScanID, 10),
			obs.StartedAt.In(time.Local).Format(historyTimeLayout),
			obs.Record.SSID,
			strconv.Itoa(obs.Record.Channel),
			strconv.Itoa(obs.Record.RSSI)+" db",
		); err != nil {
			return err
		}
	}

	fmt.Fprintf(w, "History of %s (%d observations):\n\n", bssid, len(observations))
	fmt.Fprint(w, table.String())
	return nil
}

// runComparison compares the latest scan with the previous one, or with
// the scan withScanID when it is set.
func runComparison(ctx context.Context, db *database.ScanDB, w io.Writer, withScanID int64, jsonOutput bool) error {
	latest, err := db.GetLatestScanReports(ctx, 2)
	if err != nil {
		return fmt.Errorf("failed to get scan history: %w", err)
	}

	if len(latest) == 0 {
		return errors.New("no scan history found (use 'apscan scan --history' to record one)")
	}

	current := latest[0]
	var previous *database.StoredScan

	if withScanID > 0 {
		previous, err = db.GetScanReportByID(ctx, withScanID)
		if err != nil {
			return fmt.Errorf("failed to get scan with ID %d: %w", withScanID, err)
		}
		if previous == nil {
			return fmt.Errorf("scan with ID %d not found", withScanID)
		}
		if previous.ID == current.ID {
			return fmt.Errorf("scan %d is the latest scan; choose an earlier one", withScanID)
		}
	} else {
		if len(latest) < 2 {
			return fmt.Errorf("at least 2 scans are required for comparison (found %d)", len(latest))
		}
		previous = latest[1]
	}

	comparison := compareScans(previous, current)

	if jsonOutput {
		return writeJSON(w, comparison)
	}
	outputComparisonText(w, comparison)
	return nil
}

// ScanSummary identifies one side of a comparison.
type ScanSummary struct {
	// ID is the scan's database ID.
	ID int64 `json:"id"`

	// StartedAt is when the scan was performed.
	StartedAt time.Time `json:"started_at"`

	// StationCount is the number of stations found.
	StationCount int `json:"station_count"`
}

// SignalChange is a station seen in both scans with a different RSSI.
type SignalChange struct {
	BSSID        string `json:"bssid"`
	SSID         string `json:"ssid"`
	PreviousRSSI int    `json:"previous_rssi"`
	CurrentRSSI  int    `json:"current_rssi"`
	Delta        int    `json:"delta"`
}

// ComparisonResult holds the result of comparing two scans.
type ComparisonResult struct {
	// PreviousScan is the older scan.
	PreviousScan ScanSummary `json:"previous_scan"`

	// CurrentScan is the newer scan.
	CurrentScan ScanSummary `json:"current_scan"`

	// Unchanged is true when both scans have the same digest.
	Unchanged bool `json:"unchanged"`

	// Appeared lists stations only in the current scan, strongest first.
	Appeared []model.RankedStation `json:"appeared,omitempty"`

	// Vanished lists stations only in the previous scan, strongest first.
	Vanished []model.RankedStation `json:"vanished,omitempty"`

	// SignalChanges lists stations whose RSSI changed, in current rank order.
	SignalChanges []SignalChange `json:"signal_changes,omitempty"`

	// SteadyCount is the number of stations seen in both scans with the
	// same RSSI.
	SteadyCount int `json:"steady_count"`
}

// compareScans compares two stored scans.
func compareScans(previous, current *database.StoredScan) *ComparisonResult {
	result := &ComparisonResult{
		PreviousScan: summarize(previous),
		CurrentScan:  summarize(current),
		Unchanged:    previous.Digest != "" && previous.Digest == current.Digest,
	}

	prevStations := stationsOf(previous)
	currStations := stationsOf(current)

	before := make(map[string]model.RankedStation, len(prevStations))
	for _, st := range prevStations {
		before[st.BSSID] = st
	}
	seen := make(map[string]bool, len(currStations))

	for _, st := range currStations {
		seen[st.BSSID] = true
		old, ok := before[st.BSSID]
		switch {
		case !ok:
			result.Appeared = append(result.Appeared, st)
		case old.Record.RSSI != st.Record.RSSI:
			result.SignalChanges = append(result.SignalChanges, SignalChange{
				BSSID:        st.BSSID,
				SSID:         st.Record.SSID,
				PreviousRSSI: old.Record.RSSI,
				CurrentRSSI:  st.Record.RSSI,
				Delta:        st.Record.RSSI - old.Record.RSSI,
			})
		default:
			result.SteadyCount++
		}
	}

	for _, st := range prevStations {
		if !seen[st.BSSID] {
			result.Vanished = append(result.Vanished, st)
		}
	}

	return result
}

func summarize(s *database.StoredScan) ScanSummary {
	return ScanSummary{
		ID:           s.ID,
		StartedAt:    s.StartedAt,
		StationCount: s.StationCount,
	}
}

func stationsOf(s *database.StoredScan) []model.RankedStation {
	if s.Report == nil {
		return nil
	}
	return s.Report.Stations
}

// outputComparisonText writes the comparison in human-readable form.
// Appeared and vanished stations are coloured when w is a terminal.
func outputComparisonText(w io.Writer, result *ComparisonResult) {
	fmt.Fprintln(w, "Scan Comparison")
	fmt.Fprintln(w, strings.Repeat("=", 60))

	fmt.Fprintf(w, "\nPrevious scan: #%d %s (%d stations)\n",
		result.PreviousScan.ID,
		result.PreviousScan.StartedAt.In(time.Local).Format(historyTimeLayout),
		result.PreviousScan.StationCount)
	fmt.Fprintf(w, "Current scan:  #%d %s (%d stations)\n",
		result.CurrentScan.ID,
		result.CurrentScan.StartedAt.In(time.Local).Format(historyTimeLayout),
		result.CurrentScan.StationCount)

	if result.Unchanged {
		fmt.Fprintln(w, "\nNo changes: the same stations were seen with the same signal strength.")
		return
	}

	if len(result.Appeared) > 0 {
		fmt.Fprintf(w, "\nAppeared (%d):\n", len(result.Appeared))
		for _, st := range result.Appeared {
			fmt.Fprintln(w, color.GreenString("  [+] %s", formatStation(st)))
		}
	}

	if len(result.Vanished) > 0 {
		fmt.Fprintf(w, "\nVanished (%d):\n", len(result.Vanished))
		for _, st := range result.Vanished {
			fmt.Fprintln(w, color.RedString("  [-] %s", formatStation(st)))
		}
	}

	if len(result.SignalChanges) > 0 {
		fmt.Fprintf(w, "\nSignal changes (%d):\n", len(result.SignalChanges))
		for _, c := range result.SignalChanges {
			fmt.Fprintf(w, "  [~] %s %s: %d db -> %d db (%s)\n",
				c.BSSID, c.SSID, c.PreviousRSSI, c.CurrentRSSI, formatDelta(c.Delta))
		}
	}

	if result.SteadyCount > 0 {
		fmt.Fprintf(w, "\nUnchanged: %d stations\n", result.SteadyCount)
	}
}

// formatStation formats one station as "bssid ssid: rssi db".
func formatStation(st model.RankedStation) string {
	return fmt.Sprintf("%s %s: %d db", st.BSSID, st.Record.SSID, st.Record.RSSI)
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	} else if delta < 0 {
		return strconv.Itoa(delta)
	}
	return "0"
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
