package config

import (
	"fmt"
	"strings"

	"github.com/nao1215/apscan/internal/model"
)

// StationEntry describes where one base station is installed.
type StationEntry struct {
	// Model is the hardware model, e.g. "AirPort Extreme".
	Model string `yaml:"model,omitempty"`

	// School is the site the station is installed at.
	School string `yaml:"school,omitempty"`

	// Room is the room within the school.
	Room string `yaml:"room,omitempty"`
}

// File represents the structure of the base_stations.yml configuration file.
type File struct {
	// BaseStations maps BSSIDs to their installed location. Keys may use
	// ':' or '-' separators and any letter case.
	BaseStations map[string]StationEntry `yaml:"base_stations,omitempty"`

	// ClosedSSIDs lists networks that do not broadcast their name and must
	// be probed by name.
	ClosedSSIDs []string `yaml:"closed_ssids,omitempty"`

	// Utility overrides the path of the scanning utility.
	Utility string `yaml:"utility,omitempty"`

	// Manufacturers maps OUI prefixes ("00:1b:63") to descriptions. Entries
	// take precedence over the built-in manufacturer table.
	Manufacturers map[string]string `yaml:"manufacturers,omitempty"`
}

// NewFile returns an empty File with all maps initialized.
func NewFile() *File {
	return &File{
		BaseStations:  make(map[string]StationEntry),
		Manufacturers: make(map[string]string),
	}
}

// KnownStations converts the base_stations section to station metadata,
// keyed by the BSSIDs as written in the file.
func (f *File) KnownStations() map[string]model.StationInfo {
	known := make(map[string]model.StationInfo, len(f.BaseStations))
	for bssid, entry := range f.BaseStations {
		known[bssid] = model.StationInfo{
			Model: entry.Model,
			Site:  entry.School,
			Room:  entry.Room,
		}
	}
	return known
}

// validate checks that every BSSID key is a hardware address and that no
// closed SSID is blank.
func (f *File) validate() error {
	for bssid := range f.BaseStations {
		if _, err := model.CanonicalBSSID(bssid); err != nil {
			return fmt.Errorf("base_stations: %w", err)
		}
	}
	for i, ssid := range f.ClosedSSIDs {
		if strings.TrimSpace(ssid) == "" {
			return fmt.Errorf("closed_ssids: entry %d is empty", i+1)
		}
	}
	return nil
}
