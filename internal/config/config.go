// Package config loads and saves the formula tool's settings.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// DefaultEndpoint is the autocomplete service queried for variables when no
// other endpoint is configured.
const DefaultEndpoint = "https://652f91320b8d8ddac0b2b62b.mockapi.io/autocomplete"

// Config holds application configuration
type Config struct {
	Endpoint        string `json:"endpoint"`
	TimeoutSeconds  int    `json:"timeout_seconds"`
	Precision       uint   `json:"precision"`
	CacheTTL        int    `json:"cache_ttl_seconds"`
	MaxCacheEntries int    `json:"max_cache_entries"`
	CatalogPath     string `json:"catalog_path,omitempty"` // serve from a SQLite catalog instead of Endpoint
	Listen          string `json:"listen"`
	LogLevel        string `json:"log_level"` // debug, info, warn, error, none
	LogPath         string `json:"log_path"`
}

func defaultConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		if appData := strings.TrimSpace(os.Getenv("APPDATA")); appData != "" {
			return filepath.Join(appData, "formula")
		}
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, "AppData", "Roaming", "formula")
	default:
		if configHome := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); configHome != "" {
			return filepath.Join(configHome, "formula")
		}
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, ".config", "formula")
	}
}

func defaultStateDir() string {
	switch runtime.GOOS {
	case "windows":
		if localAppData := strings.TrimSpace(os.Getenv("LOCALAPPDATA")); localAppData != "" {
			return filepath.Join(localAppData, "formula")
		}
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, "AppData", "Local", "formula")
	default:
		if stateHome := strings.TrimSpace(os.Getenv("XDG_STATE_HOME")); stateHome != "" {
			return filepath.Join(stateHome, "formula")
		}
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, ".local", "state", "formula")
	}
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Endpoint:        DefaultEndpoint,
		TimeoutSeconds:  10,
		Precision:       64,
		CacheTTL:        60,
		MaxCacheEntries: 128,
		Listen:          "127.0.0.1:8080",
		LogLevel:        "info",
		LogPath:         filepath.Join(defaultStateDir(), "formula.log"),
	}
}

// Load loads configuration from file. A missing file yields the defaults, and
// fields absent from the file keep their default values.
func Load(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	def := DefaultConfig()
	if config.Endpoint == "" {
		config.Endpoint = def.Endpoint
	}
	if config.Precision == 0 {
		config.Precision = def.Precision
	}
	if config.LogLevel == "" {
		config.LogLevel = def.LogLevel
	}
	if config.Listen == "" {
		config.Listen = def.Listen
	}
	return config, nil
}

// Save saves configuration to file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Timeout returns the suggestion request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// CacheDuration returns how long suggestion lookups are cached. Zero
// disables caching.
func (c *Config) CacheDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// GetConfigPath returns the default config path
func GetConfigPath() string {
	return filepath.Join(defaultConfigDir(), "config.json")
}
