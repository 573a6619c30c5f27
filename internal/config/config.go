// Package config loads and persists the application configuration
// from ~/.battlelog/config.toml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	// Data storage configuration
	Data DataConfig `toml:"data"`

	// Application configuration
	App AppConfig `toml:"app"`

	// Chart output configuration
	Charts ChartsConfig `toml:"charts"`

	// Backup configuration
	Backup BackupConfig `toml:"backup"`
}

// DataConfig contains storage settings.
type DataConfig struct {
	Dir           string `toml:"dir"`            // Data directory (empty = ~/.battlelog)
	DBFile        string `toml:"db_file"`        // Database file name
	WatchDebounce string `toml:"watch_debounce"` // Change-notification coalescing window (e.g., "300ms")
}

// AppConfig contains general application settings.
type AppConfig struct {
	Language  string `toml:"language"`   // Display language ("en", "ja")
	DebugMode bool   `toml:"debug_mode"` // Enable debug logging
}

// ChartsConfig contains chart rendering settings.
type ChartsConfig struct {
	OutputDir   string `toml:"output_dir"`   // Chart HTML output directory (empty = data dir)
	OpenBrowser bool   `toml:"open_browser"` // Open rendered charts in the browser
}

// BackupConfig contains backup settings.
type BackupConfig struct {
	Dir     string `toml:"dir"`     // Backup directory (empty = <data dir>/backups)
	Encrypt bool   `toml:"encrypt"` // Encrypt backups (password prompted)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Dir:           "",
			DBFile:        "battlelog.db",
			WatchDebounce: "300ms",
		},
		App: AppConfig{
			Language:  "en",
			DebugMode: false,
		},
		Charts: ChartsConfig{
			OutputDir:   "",
			OpenBrowser: true,
		},
		Backup: BackupConfig{
			Dir:     "",
			Encrypt: false,
		},
	}
}

// configPath returns the path to the configuration file.
func configPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".battlelog")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	return filepath.Join(configDir, "config.toml"), nil
}

// Load loads the configuration from disk. Returns default config if file doesn't exist.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return &config, nil
}

// Save saves the configuration to disk.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Data.DBFile == "" {
		return fmt.Errorf("db file name cannot be empty")
	}

	if _, err := time.ParseDuration(c.Data.WatchDebounce); err != nil {
		return fmt.Errorf("invalid watch debounce %q: %w", c.Data.WatchDebounce, err)
	}

	switch c.App.Language {
	case "en", "ja":
	default:
		return fmt.Errorf("unsupported language %q", c.App.Language)
	}

	return nil
}

// DataDir returns the resolved data directory, creating it if needed.
func (c *Config) DataDir() (string, error) {
	dir := c.Data.Dir
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(homeDir, ".battlelog")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	return dir, nil
}

// DBPath returns the resolved database file path.
func (c *Config) DBPath() (string, error) {
	dir, err := c.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, c.Data.DBFile), nil
}

// BackupDir returns the resolved backup directory.
func (c *Config) BackupDir() (string, error) {
	if c.Backup.Dir != "" {
		return c.Backup.Dir, nil
	}
	dir, err := c.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "backups"), nil
}

// ChartOutputDir returns the resolved chart output directory.
func (c *Config) ChartOutputDir() (string, error) {
	if c.Charts.OutputDir != "" {
		return c.Charts.OutputDir, nil
	}
	return c.DataDir()
}

// GetWatchDebounce returns the notification coalescing window as a duration.
func (c *Config) GetWatchDebounce() (time.Duration, error) {
	return time.ParseDuration(c.Data.WatchDebounce)
}
