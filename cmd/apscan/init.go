package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/apscan/internal/config"
	"github.com/spf13/cobra"
)

//go:embed templates/base_stations.yml
var configTemplate embed.FS

// templatePath is the location of the configuration template in configTemplate.
const templatePath = "templates/base_stations.yml"

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a base_stations.yml configuration file",
		Long: `Init writes a commented base_stations.yml in the current directory.

The generated file documents:
- Known base stations and where they are installed
- Closed networks that must be probed by name
- The scanning utility path and extra manufacturer names

Examples:
  # Create base_stations.yml in current directory
  apscan init

  # Create the file in the XDG config directory
  apscan init -o ~/.config/apscan/base_stations.yml

  # Force overwrite existing file
  apscan init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to describe:")
	fmt.Fprintln(out, "  - The model and location of each known base station")
	fmt.Fprintln(out, "  - Closed networks to probe by name")

	return nil
}
