// Package config loads and saves the simulator configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config represents the simulator configuration
type Config struct {
	// Engine settings
	Engine struct {
		DefaultRadius int    `toml:"default_radius"`
		Seed          int64  `toml:"seed"`
		HistorySize   int    `toml:"history_size"`
		DefaultRules  string `toml:"default_rules"`
	} `toml:"engine"`

	// Display settings
	Display struct {
		ShowCoords  bool   `toml:"show_coords"`
		ShowLog     bool   `toml:"show_log"`
		LogLines    int    `toml:"log_lines"`
		EmptyGlyph  string `toml:"empty_glyph"`
		ColorOutput bool   `toml:"color_output"`
	} `toml:"display"`

	// Server settings
	Server struct {
		Port int `toml:"port"`
	} `toml:"server"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Engine defaults
	cfg.Engine.DefaultRadius = 8
	cfg.Engine.Seed = 0
	cfg.Engine.HistorySize = 256
	cfg.Engine.DefaultRules = "b3s23"

	// Display defaults
	cfg.Display.ShowCoords = false
	cfg.Display.ShowLog = true
	cfg.Display.LogLines = 8
	cfg.Display.EmptyGlyph = "."
	cfg.Display.ColorOutput = true

	// Server defaults
	cfg.Server.Port = 8080

	return cfg
}

// GetConfigPath returns the platform-specific config file path
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		// Windows: %APPDATA%\hexirules\config.toml
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "hexirules")

	case "darwin", "linux":
		// macOS/Linux: ~/.config/hexirules/config.toml
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "hexirules")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// Load loads configuration from the default config file
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	// If file doesn't exist, return default config
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close config file: %w", closeErr)
		}
	}()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
