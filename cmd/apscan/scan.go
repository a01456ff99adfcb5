package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nao1215/apscan/internal/airport"
	"github.com/nao1215/apscan/internal/config"
	"github.com/nao1215/apscan/internal/database"
	applog "github.com/nao1215/apscan/internal/log"
	"github.com/nao1215/apscan/internal/model"
	"github.com/nao1215/apscan/internal/pipeline"
	"github.com/nao1215/apscan/internal/report"
	"github.com/nao1215/apscan/internal/station"
	"github.com/spf13/cobra"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan for base stations and list them by signal strength",
		Long: `Scan runs the airport utility once for open networks and once for every
closed network named in the configuration file. The stations from all runs
are merged by BSSID, with later runs replacing earlier sightings, and
listed strongest first.

Each station is named from base_stations.yml when it is listed there.
Otherwise the first three octets of its BSSID are looked up in the
configured manufacturers, the built-in table and, if given, an IEEE
oui.txt file.

A run that fails contributes no stations and is reported as a warning.
This includes a missing utility: the listing is still printed, with
"Found 0 base station(s)".

Nothing is written to disk by default. With --history the completed scan
is saved to the history database in the XDG data directory.

Examples:
  # Scan with base_stations.yml from the current directory
  apscan scan

  # Use a custom configuration file
  apscan scan -c ~/schools/lincoln.yml

  # Name unknown vendors from the IEEE registry
  apscan scan --oui-db /usr/share/ieee-data/oui.txt

  # Write a Markdown report
  apscan scan --markdown -o reports/scan.md

  # Keep the scan for 'apscan history' and log as JSON
  apscan scan --history --log-format json

Configuration file (base_stations.yml) example:
  base_stations:
    "00:1b:63:84:45:e6":
      model: AirPort Extreme
      school: Lincoln Elementary
      room: "204"
  closed_ssids:
    - Staff Net`,
		Args: cobra.NoArgs,
		RunE: runScanCmd,
	}

	addScanFlags(cmd)

	return cmd
}

// addScanFlags registers the scan flags on cmd. The root command carries
// them too, so a bare "apscan" scans.
func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: base_stations.yml in current or XDG config directory)")
	cmd.Flags().StringP("utility", "u", "",
		"Path of the scanning utility (default: the macOS airport tool)")
	cmd.Flags().String("oui-db", "",
		"IEEE oui.txt file used to name manufacturers missing from the built-in table")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Time limit for each run of the scanning utility (0 means no limit)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("tee", false,
		"With --output, also print the text listing to stdout")
	cmd.Flags().Bool("history", false,
		"Save this scan to the history database (see 'apscan history')")
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := newLogger(cfg, cmd.ErrOrStderr())
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Interrupting the run kills the utility that is currently running.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runScan(ctx, cfg, cmd.OutOrStdout(), logger)
}

// newLogger builds the logger selected by --log-format.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	if cfg.LogFormat == config.LogFormatJSON {
		return applog.NewJSONLogger(w, cfg.Verbose, cfg.Redact)
	}
	return applog.NewLogger(w, cfg.Verbose, cfg.Redact)
}

// getGlobalFlag retrieves a persistent boolean flag from the command or
// its root.
func getGlobalFlag(cmd *cobra.Command, name string) bool {
	value, err := cmd.Flags().GetBool(name)
	if err != nil {
		value, err = cmd.Root().PersistentFlags().GetBool(name)
		if err != nil {
			return false
		}
	}
	return value
}

// getGlobalString retrieves a persistent string flag from the command or
// its root.
func getGlobalString(cmd *cobra.Command, name string) string {
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		value, err = cmd.Root().PersistentFlags().GetString(name)
		if err != nil {
			return ""
		}
	}
	return value
}

// buildConfig creates a Config from cobra command flags and the
// configuration file.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg.UtilityPath, err = cmd.Flags().GetString("utility")
	if err != nil {
		return nil, err
	}

	cfg.OUIDatabase, err = cmd.Flags().GetString("oui-db")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.Tee, err = cmd.Flags().GetBool("tee")
	if err != nil {
		return nil, err
	}

	cfg.SaveToDB, err = cmd.Flags().GetBool("history")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getGlobalFlag(cmd, "verbose")
	cfg.Redact = getGlobalFlag(cmd, "redact")
	if format := getGlobalString(cmd, "log-format"); format != "" {
		cfg.LogFormat = format
	}

	// A file the user named must load. Without one, a missing file just
	// means empty station tables.
	if configPath := config.FindConfigFile(cfg.ConfigFilePath); configPath != "" {
		cfg.Stations, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	return cfg, nil
}

// newResolver builds the station resolver from the configuration.
// Manufacturer names come from the configuration file first, then the
// built-in table, then the optional IEEE registry.
func newResolver(cfg *config.Config) (*station.Resolver, error) {
	known, err := station.NewKnownTable(cfg.Stations.KnownStations())
	if err != nil {
		return nil, fmt.Errorf("invalid base_stations entry: %w", err)
	}

	overrides, err := station.NewPrefixTable(cfg.Stations.Manufacturers)
	if err != nil {
		return nil, fmt.Errorf("invalid manufacturers entry: %w", err)
	}

	chain := station.Chain{overrides, station.BuiltinTable()}
	if cfg.OUIDatabase != "" {
		db, err := station.OpenOUIDatabase(cfg.OUIDatabase)
		if err != nil {
			return nil, err
		}
		chain = append(chain, db)
	}

	return station.NewResolver(
		station.WithKnownTable(known),
		station.WithManufacturers(chain),
	), nil
}

// runScan executes the scan and writes the report.
func runScan(ctx context.Context, cfg *config.Config, stdout io.Writer, logger *slog.Logger) error {
	utility := cfg.ResolveUtility()
	if utility == "" {
		utility = airport.DefaultUtilityPath
	}
	// A missing utility makes every scan fail and the listing comes out
	// empty, the same as a utility that errors.
	_, locateErr := airport.LocateUtility(utility)
	if locateErr != nil {
		logger.Warn("scanning utility unavailable", "error", locateErr)
	}

	resolver, err := newResolver(cfg)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	scanner := airport.NewScanner(utility,
		airport.WithRunner(airport.NewExecRunner(airport.WithTimeout(cfg.Timeout))),
		airport.WithLogger(logger),
	)

	p := pipeline.DefaultPipeline(scanner, resolver, cfg.Stations.ClosedSSIDs,
		pipeline.WithLogger(logger),
	)

	logger.Info("starting scan",
		"utility", utility,
		"steps", p.StepNames(),
		"closedSSIDs", len(cfg.Stations.ClosedSSIDs),
		"knownStations", len(cfg.Stations.BaseStations),
		"saveToDB", cfg.SaveToDB,
	)

	scanReport := model.NewScanReport(time.Now(), utility)
	if locateErr != nil {
		scanReport.AddWarning("%v", locateErr)
	}
	startTime := time.Now()

	execErr := p.Execute(ctx, scanReport)
	if execErr != nil && !scanReport.Cancelled {
		return fmt.Errorf("scan failed: %w", execErr)
	}
	if scanReport.Cancelled {
		// Show what was collected before the interrupt.
		scanReport.Stations = scanReport.Result.Ranked()
		resolver.Annotate(scanReport.Stations)
	}

	logger.Debug("scan finished",
		"elapsed", time.Since(startTime).Round(time.Millisecond),
		"stations", scanReport.StationCount(),
		"failedScans", scanReport.FailedScans(),
	)

	if err := outputReport(cfg, scanReport, stdout); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if scanReport.Cancelled {
		return fmt.Errorf("scan cancelled: %w", execErr)
	}

	if cfg.SaveToDB {
		if err := saveScanReport(ctx, cfg.DBDir, scanReport, logger); err != nil {
			logger.Error("failed to save scan report", "error", err)
		}
	}

	return nil
}

// outputReport writes the scan report in the requested format to the
// report file, or to stdout when no file was given. With Tee the text
// listing goes to stdout as well.
func outputReport(cfg *config.Config, scanReport *model.ScanReport, stdout io.Writer) (err error) {
	output := stdout
	if cfg.ReportFile != "" {
		f, ferr := report.CreateFile(cfg.ReportFile)
		if ferr != nil {
			return ferr
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		output = f
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewWriter(report.FormatJSON, output)
	case cfg.MarkdownReport:
		writer = report.NewWriter(report.FormatMarkdown, output)
	default:
		writer = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}
	if cfg.Tee && output != stdout {
		writer = report.NewMultiWriter(writer,
			report.NewSimpleWriter(stdout, report.WithVerbose(cfg.Verbose)))
	}

	_, err = writer.Write(scanReport)
	return err
}

// saveScanReport stores the report in the history database under dbDir.
func saveScanReport(ctx context.Context, dbDir string, scanReport *model.ScanReport, logger *slog.Logger) error {
	if scanReport == nil {
		return errors.New("no report to save")
	}

	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	id, err := db.SaveScanReport(ctx, scanReport)
	if err != nil {
		return fmt.Errorf("failed to save scan report: %w", err)
	}

	logger.Info("scan report saved to database", "id", id, "path", db.Path())
	return nil
}
