package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Load reads configuration from standard locations with environment overrides.
// Search order: ~/.castdeckrc, $XDG_CONFIG_HOME/castdeck/config.toml, ~/.config/castdeck/config.toml
func Load() (*Config, error) {
	cfg := &Config{}

	// Try loading from file
	path := findConfigFile()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	// Apply defaults, then environment variable overrides
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)

	return cfg, nil
}

// LoadFrom reads configuration from a specific file path.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// findConfigFile returns the first existing config file path.
func findConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	paths := []string{
		filepath.Join(home, ".castdeckrc"),
	}

	// XDG_CONFIG_HOME or default
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	paths = append(paths, filepath.Join(xdgConfig, "castdeck", "config.toml"))

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	// Home Assistant
	if v := os.Getenv("CASTDECK_HASS_URL"); v != "" {
		cfg.Hass.URL = v
	}
	if v := os.Getenv("CASTDECK_HASS_TOKEN"); v != "" {
		cfg.Hass.Token = v
	}

	// Spotcast
	if v := os.Getenv("CASTDECK_ACCOUNT"); v != "" {
		cfg.Spotcast.Account = v
	}
	if v := os.Getenv("CASTDECK_DEFAULT_DEVICE"); v != "" {
		cfg.Spotcast.DefaultDevice = v
	}
	if v := os.Getenv("CASTDECK_TTL_MS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Spotcast.TTLMillis = i
		}
	}

	// Log
	if v := os.Getenv("CASTDECK_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}
