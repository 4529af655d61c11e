// File: internal/config/config_test.go
package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetDefaultsUnmarshal(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, "suture", cfg.Logger.ServiceName)
	assert.Equal(t, 50, cfg.Logger.MaxSize)

	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 30*time.Second, cfg.Browser.StartupTimeout)
	assert.Equal(t, 60*time.Second, cfg.Browser.NavigationTimeout)
	assert.Zero(t, cfg.Browser.ActionsPerSecond)

	assert.Equal(t, 10, cfg.Healer.MaxCandidates)
	assert.Equal(t, 0.5, cfg.Healer.MinConfidence)

	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	base := func() Config {
		v := viper.New()
		SetDefaults(v)
		var cfg Config
		require.NoError(t, v.Unmarshal(&cfg))
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults pass", func(c *Config) {}, false},
		{"confidence above one", func(c *Config) { c.Healer.MinConfidence = 1.1 }, true},
		{"negative confidence", func(c *Config) { c.Healer.MinConfidence = -0.1 }, true},
		{"boundary confidence", func(c *Config) { c.Healer.MinConfidence = 1.0 }, false},
		{"negative budget", func(c *Config) { c.Healer.MaxCandidates = -1 }, true},
		{"zero budget allowed", func(c *Config) { c.Healer.MaxCandidates = 0 }, false},
		{"json format", func(c *Config) { c.Logger.Format = "json" }, false},
		{"empty format", func(c *Config) { c.Logger.Format = "" }, false},
		{"unknown format", func(c *Config) { c.Logger.Format = "logfmt" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("SUTURE_LOGGER_LEVEL", "debug")

	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix("SUTURE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	assert.Equal(t, "debug", v.GetString("logger.level"))
}
