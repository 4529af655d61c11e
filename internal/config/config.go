// File: internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration, populated from config.yaml,
// environment variables (SUTURE_*), and CLI flags.
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`
	Healer  HealerConfig  `mapstructure:"healer" yaml:"healer"`
}

// LoggerConfig controls the zap logger set up by internal/observability.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"` // "console" or "json"
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`

	// File output with rotation (lumberjack). Disabled when LogFile is empty.
	LogFile    string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"` // megabytes
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"` // days
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// BrowserConfig controls the chromedp session.
type BrowserConfig struct {
	Headless          bool          `mapstructure:"headless" yaml:"headless"`
	ExecPath          string        `mapstructure:"exec_path" yaml:"exec_path"`
	StartupTimeout    time.Duration `mapstructure:"startup_timeout" yaml:"startup_timeout"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
	// ActionsPerSecond paces CDP action batches; <= 0 disables pacing.
	ActionsPerSecond float64 `mapstructure:"actions_per_second" yaml:"actions_per_second"`
}

// HealerConfig carries the default heal-request parameters used by the CLI.
type HealerConfig struct {
	MaxCandidates int     `mapstructure:"max_candidates" yaml:"max_candidates"`
	MinConfidence float64 `mapstructure:"min_confidence" yaml:"min_confidence"`
}

// SetDefaults registers every config default on the viper instance. Called
// before reading the config file so absent keys fall back sensibly.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "suture")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)

	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.startup_timeout", 30*time.Second)
	v.SetDefault("browser.navigation_timeout", 60*time.Second)
	v.SetDefault("browser.actions_per_second", 0)

	v.SetDefault("healer.max_candidates", 10)
	v.SetDefault("healer.min_confidence", 0.5)
}

// Validate rejects configurations that would misbehave at runtime.
func (c *Config) Validate() error {
	if c.Healer.MinConfidence < 0 || c.Healer.MinConfidence > 1 {
		return fmt.Errorf("healer.min_confidence must be in [0, 1], got %v", c.Healer.MinConfidence)
	}
	if c.Healer.MaxCandidates < 0 {
		return fmt.Errorf("healer.max_candidates must be >= 0, got %d", c.Healer.MaxCandidates)
	}
	switch c.Logger.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logger.format must be console or json, got %q", c.Logger.Format)
	}
	return nil
}
