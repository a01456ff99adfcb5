package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = "base_stations.yml"

// LoadConfigFile loads the known station file from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers decide whether that is fatal based on whether the path was
// explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, err
	}

	cf := NewFile()
	if err := yaml.Unmarshal(data, cf); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfigFile, path, err)
	}

	// An empty section in YAML decodes to a nil map.
	if cf.BaseStations == nil {
		cf.BaseStations = make(map[string]StationEntry)
	}
	if cf.Manufacturers == nil {
		cf.Manufacturers = make(map[string]string)
	}

	if err := cf.validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfigFile, path, err)
	}

	return cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, return it as is
// 2. Look for base_stations.yml in the current directory
// 3. Look for base_stations.yml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
// An explicit path is returned even when it does not exist so that
// LoadConfigFile can report it.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		return configPath
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	xdgConfig := filepath.Join(XDGConfigDir(), DefaultConfigFile)
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig
	}

	return ""
}
