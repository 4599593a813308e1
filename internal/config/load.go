package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Overrides are command-line values applied on top of the file config.
// Zero values leave the loaded setting untouched.
type Overrides struct {
	Debug     bool
	OutDir    string
	Library   string
	Primary   string
	Secondary string
	LogFile   string
}

// Load loads configuration with priority: defaults < file < overrides.
// An empty path searches the standard locations; a missing file there is
// not an error.
func Load(path string, o Overrides) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	cfg.apply(o)
	return cfg, nil
}

// apply applies override values to the config.
func (c *Config) apply(o Overrides) {
	if o.Debug {
		c.Logging.Level = "debug"
	}
	if o.OutDir != "" {
		c.Export.Dir = o.OutDir
	}
	if o.Library != "" {
		c.Library.Path = o.Library
	}
	if o.Primary != "" {
		c.Materials.Primary = o.Primary
	}
	if o.Secondary != "" {
		c.Materials.Secondary = o.Secondary
	}
	if o.LogFile != "" {
		c.Logging.LogFile = o.LogFile
	}
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./tilesmith.yaml",
		DefaultPath(),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// DefaultPath is the user config file written by Save.
func DefaultPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Tilesmith")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Tilesmith")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "tilesmith")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "tilesmith")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
