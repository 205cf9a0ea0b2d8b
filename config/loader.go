package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FindSettingsFile searches for a settings file in standard locations.
// Returns empty string if none is found (non-fatal, defaults apply).
func FindSettingsFile() string {
	home, _ := os.UserHomeDir()
	locations := []string{
		"./batchcut.yaml",
		"./batchcut.yml",
		filepath.Join(home, ".batchcut", "config.yaml"),
		filepath.Join(home, ".batchcut", "config.yml"),
		"/etc/batchcut/config.yaml",
	}

	for _, path := range locations {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// LoadSettings resolves the effective settings: defaults, then the settings
// file (explicit path or the first standard location found), then
// environment overrides.
func LoadSettings(path string) (*Settings, error) {
	settings := DefaultSettings()

	if path == "" {
		path = FindSettingsFile()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, settings); err != nil {
			return nil, fmt.Errorf("failed to parse settings file %s: %w", path, err)
		}
	}

	settings.applyEnv()

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return settings, nil
}
