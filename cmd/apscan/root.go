package main

import (
	"fmt"
	"os"

	"github.com/nao1215/apscan/internal/config"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for apscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apscan",
		Short: "List nearby wireless base stations by signal strength",
		Long: `apscan runs the macOS airport utility, merges the stations it sees on open
networks and on every configured closed network, and prints them ranked by
signal strength.

Stations listed in base_stations.yml are shown with their model and
location. Other stations are named after their manufacturer when the first
three octets of the BSSID are recognised.

Run without a subcommand, apscan scans. It accepts the same flags as
'apscan scan'.`,
		Version:       getVersion(),
		Args:          cobra.NoArgs,
		RunE:          runScanCmd,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	addScanFlags(cmd)

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("redact", false,
		"Mask the device octets of hardware addresses in log output")
	cmd.PersistentFlags().String("log-format", config.LogFormatText,
		"Log output format: text or json")

	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
