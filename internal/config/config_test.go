package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected default values.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default Timeout is unlimited", func(t *testing.T) {
		t.Parallel()
		if cfg.Timeout != 0 {
			t.Errorf("expected Timeout to be 0, got %v", cfg.Timeout)
		}
	})

	t.Run("history is not saved by default", func(t *testing.T) {
		t.Parallel()
		if cfg.SaveToDB {
			t.Error("expected SaveToDB to be false")
		}
		if cfg.DBDir != XDGDataDir() {
			t.Errorf("expected DBDir %q, got %q", XDGDataDir(), cfg.DBDir)
		}
	})

	t.Run("station file is empty but usable", func(t *testing.T) {
		t.Parallel()
		if cfg.Stations == nil {
			t.Fatal("expected Stations to be initialized")
		}
		if len(cfg.Stations.BaseStations) != 0 || len(cfg.Stations.ClosedSSIDs) != 0 {
			t.Errorf("expected empty station file, got %+v", cfg.Stations)
		}
	})

	t.Run("default report format is text", func(t *testing.T) {
		t.Parallel()
		if cfg.JSONReport || cfg.MarkdownReport {
			t.Error("expected text report by default")
		}
	})

	t.Run("default log format is text", func(t *testing.T) {
		t.Parallel()
		if cfg.LogFormat != LogFormatText {
			t.Errorf("expected %q, got %q", LogFormatText, cfg.LogFormat)
		}
	})
}

// TestConfigValidate tests the Validate method with various configurations.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	t.Run("default config returns nil", func(t *testing.T) {
		t.Parallel()
		if err := NewConfig().Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("positive timeout is valid", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.Timeout = 30 * time.Second

		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("negative timeout returns ErrInvalidTimeout", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.Timeout = -1 * time.Second

		if err := cfg.Validate(); !errors.Is(err, ErrInvalidTimeout) {
			t.Errorf("expected ErrInvalidTimeout, got %v", err)
		}
	})

	t.Run("json and markdown both enabled returns ErrConflictingReportFormats", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.JSONReport = true
		cfg.MarkdownReport = true

		if err := cfg.Validate(); !errors.Is(err, ErrConflictingReportFormats) {
			t.Errorf("expected ErrConflictingReportFormats, got %v", err)
		}
	})

	t.Run("markdown only is valid", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.MarkdownReport = true

		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("tee without output returns ErrTeeWithoutOutput", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.Tee = true

		if err := cfg.Validate(); !errors.Is(err, ErrTeeWithoutOutput) {
			t.Errorf("expected ErrTeeWithoutOutput, got %v", err)
		}

		cfg.ReportFile = "scan.json"
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error with output, got %v", err)
		}
	})

	t.Run("log formats", func(t *testing.T) {
		t.Parallel()

		for _, format := range []string{LogFormatText, LogFormatJSON} {
			cfg := NewConfig()
			cfg.LogFormat = format
			if err := cfg.Validate(); err != nil {
				t.Errorf("%s: expected no error, got %v", format, err)
			}
		}

		cfg := NewConfig()
		cfg.LogFormat = "xml"
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidLogFormat) {
			t.Errorf("expected ErrInvalidLogFormat, got %v", err)
		}
	})
}

// TestConfigResolveUtility tests utility path precedence.
func TestConfigResolveUtility(t *testing.T) {
	t.Parallel()

	t.Run("flag wins over file", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.UtilityPath = "/flag/airport"
		cfg.Stations.Utility = "/file/airport"

		if got := cfg.ResolveUtility(); got != "/flag/airport" {
			t.Errorf("expected flag path, got %q", got)
		}
	})

	t.Run("file is used without flag", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.Stations.Utility = "/file/airport"

		if got := cfg.ResolveUtility(); got != "/file/airport" {
			t.Errorf("expected file path, got %q", got)
		}
	})

	t.Run("empty without flag or file", func(t *testing.T) {
		t.Parallel()
		cfg := &Config{}

		if got := cfg.ResolveUtility(); got != "" {
			t.Errorf("expected empty path, got %q", got)
		}
	})
}

// TestLoadConfigFile tests the LoadConfigFile function.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	writeConfig := func(t *testing.T, content string) string {
		t.Helper()
		configPath := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		return configPath
	}

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfigFile(filepath.Join(t.TempDir(), DefaultConfigFile))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cfg != nil {
			t.Error("expected nil config when file not found")
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()

		configPath := writeConfig(t, `base_stations:
  "00:1b:63:0a:0b:0c":
    model: AirPort Express
    school: Bacich
    room: "12"
  "00-1F-F3-01-02-03":
    school: Kent
closed_ssids:
  - Staff Net
  - Admin
utility: /usr/local/bin/airport
manufacturers:
  "00:50:56": Lab VM
`)

		cfg, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		entry, ok := cfg.BaseStations["00:1b:63:0a:0b:0c"]
		if !ok {
			t.Fatal("expected station in base_stations")
		}
		if entry.Model != "AirPort Express" || entry.School != "Bacich" || entry.Room != "12" {
			t.Errorf("unexpected entry %+v", entry)
		}
		if len(cfg.ClosedSSIDs) != 2 || cfg.ClosedSSIDs[0] != "Staff Net" {
			t.Errorf("unexpected closed SSIDs %v", cfg.ClosedSSIDs)
		}
		if cfg.Utility != "/usr/local/bin/airport" {
			t.Errorf("unexpected utility %q", cfg.Utility)
		}
		if cfg.Manufacturers["00:50:56"] != "Lab VM" {
			t.Errorf("unexpected manufacturers %v", cfg.Manufacturers)
		}

		known := cfg.KnownStations()
		if known["00-1F-F3-01-02-03"].Site != "Kent" {
			t.Errorf("expected school to map to site, got %+v", known["00-1F-F3-01-02-03"])
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		configPath := writeConfig(t, `invalid: yaml: content: [}`)

		_, err := LoadConfigFile(configPath)
		if !errors.Is(err, ErrInvalidConfigFile) {
			t.Errorf("expected ErrInvalidConfigFile, got %v", err)
		}
	})

	t.Run("rejects key that is not a BSSID", func(t *testing.T) {
		t.Parallel()

		configPath := writeConfig(t, `base_stations:
  library:
    room: "1"
`)

		_, err := LoadConfigFile(configPath)
		if !errors.Is(err, ErrInvalidConfigFile) {
			t.Errorf("expected ErrInvalidConfigFile, got %v", err)
		}
	})

	t.Run("rejects blank closed SSID", func(t *testing.T) {
		t.Parallel()

		configPath := writeConfig(t, `closed_ssids:
  - "  "
`)

		_, err := LoadConfigFile(configPath)
		if !errors.Is(err, ErrInvalidConfigFile) {
			t.Fatalf("expected ErrInvalidConfigFile, got %v", err)
		}
		if !strings.Contains(err.Error(), "closed_ssids") {
			t.Errorf("expected section name in error, got %v", err)
		}
	})

	t.Run("initializes nil maps", func(t *testing.T) {
		t.Parallel()

		configPath := writeConfig(t, `closed_ssids: [Staff]
`)

		cfg, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.BaseStations == nil || cfg.Manufacturers == nil {
			t.Error("expected maps to be initialized")
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Run("returns explicit path if exists", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "custom.yml")
		if err := os.WriteFile(configPath, []byte("closed_ssids: []"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if result := FindConfigFile(configPath); result != configPath {
			t.Errorf("expected %q, got %q", configPath, result)
		}
	})

	t.Run("returns explicit path even if missing", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "missing.yml")
		if result := FindConfigFile(missing); result != missing {
			t.Errorf("expected %q, got %q", missing, result)
		}
	})

	t.Run("finds file in working directory", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte("{}"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		t.Chdir(dir)

		result := FindConfigFile("")
		if filepath.Base(result) != DefaultConfigFile {
			t.Errorf("expected %s in working directory, got %q", DefaultConfigFile, result)
		}
	})
}

// TestXDGDirs tests XDG directory functions.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	t.Run("XDGDataDir ends with app name", func(t *testing.T) {
		t.Parallel()
		if filepath.Base(XDGDataDir()) != AppName {
			t.Errorf("expected data dir to end with %s, got %q", AppName, XDGDataDir())
		}
	})

	t.Run("XDGConfigDir ends with app name", func(t *testing.T) {
		t.Parallel()
		if filepath.Base(XDGConfigDir()) != AppName {
			t.Errorf("expected config dir to end with %s, got %q", AppName, XDGConfigDir())
		}
	})
}
