// Package config provides configuration management for the market
// analysis application.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	apperrors "github.com/jdemuth17/market-analysis/internal/errors"
)

// Config holds all application configuration.
type Config struct {
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Store    StoreConfig    `mapstructure:"store"`
}

// AnalysisConfig holds pattern detection parameters.
type AnalysisConfig struct {
	LookbackDays int `mapstructure:"lookback_days"` // trailing bars analyzed per scan
	PivotOrder   int `mapstructure:"pivot_order"`   // symmetric comparison half-window
	Workers      int `mapstructure:"workers"`       // indicator worker pool size
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

// StoreConfig holds persistence configuration.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/marketscan"
	}
	return filepath.Join(home, ".config", "marketscan")
}

// Load loads configuration from the given directory, falling back to
// defaults for anything unset. Environment variables prefixed with
// MARKETSCAN_ override file values.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	v.SetEnvPrefix("MARKETSCAN")
	v.AutomaticEnv()

	setDefaults(v, configDir)

	if err := v.ReadInConfig(); err != nil {
		// Missing config file is fine; anything else is a real error.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrConfigInvalid, err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("analysis.lookback_days", 120)
	v.SetDefault("analysis.pivot_order", 5)
	v.SetDefault("analysis.workers", 4)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("logging.file", true)
	v.SetDefault("logging.file_path", filepath.Join(configDir, "logs", "marketscan.log"))
	v.SetDefault("logging.max_size", 50)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age", 30)

	v.SetDefault("store.path", filepath.Join(configDir, "marketscan.db"))
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.Analysis.LookbackDays <= 0 {
		return apperrors.NewValidationError("analysis.lookback_days", c.Analysis.LookbackDays, "must be positive")
	}
	if c.Analysis.PivotOrder <= 0 {
		return apperrors.NewValidationError("analysis.pivot_order", c.Analysis.PivotOrder, "must be positive")
	}
	if c.Analysis.Workers <= 0 {
		return apperrors.NewValidationError("analysis.workers", c.Analysis.Workers, "must be positive")
	}
	return nil
}

// EnsureConfigDir creates the configuration directory if needed.
func EnsureConfigDir(configDir string) error {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}
	return os.MkdirAll(configDir, 0755)
}

const configTemplate = `# marketscan configuration
analysis:
  lookback_days: 120
  pivot_order: 5
  workers: 4

logging:
  level: info
  console: true
  file: true

# store:
#   path: /path/to/marketscan.db
`

// WriteDefaultConfig writes a commented config template to the config
// directory unless one already exists.
func WriteDefaultConfig(configDir string) error {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}
	path := filepath.Join(configDir, "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return os.WriteFile(path, []byte(configTemplate), 0644)
}
