package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 15, cfg.Engine.DefaultNeighbors)
	assert.Equal(t, 25, cfg.Engine.DefaultPeerGroupSize)
	assert.Equal(t, 10.0, cfg.Engine.MaxRateLiftPP)
	assert.Equal(t, 30.0, cfg.Engine.MaxApplicantGrowthPct)
	assert.Equal(t, -5.0, cfg.Engine.DeclineAlertPct)
	assert.Equal(t, 6, cfg.Engine.MaxInsights)
	assert.Equal(t, 0.95, cfg.Engine.Confidence)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ADMITPULSE_ENGINE_DEFAULT_NEIGHBORS", "30")
	t.Setenv("ADMITPULSE_ENGINE_CONFIDENCE", "0.99")
	t.Setenv("ADMITPULSE_LOGGING_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Engine.DefaultNeighbors)
	assert.Equal(t, 0.99, cfg.Engine.Confidence)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("engine:\n  default_neighbors: 40\n  max_insights: 3\nlogging:\n  format: text\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Engine.DefaultNeighbors)
	assert.Equal(t, 3, cfg.Engine.MaxInsights)
	assert.Equal(t, "text", cfg.Logging.Format)
	// Untouched fields keep their defaults.
	assert.Equal(t, 25, cfg.Engine.DefaultPeerGroupSize)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero neighbors", func(c *Config) { c.Engine.DefaultNeighbors = 0 }},
		{"zero peer group", func(c *Config) { c.Engine.DefaultPeerGroupSize = 0 }},
		{"negative rate lift", func(c *Config) { c.Engine.MaxRateLiftPP = -1 }},
		{"rate lift above 100", func(c *Config) { c.Engine.MaxRateLiftPP = 150 }},
		{"positive decline band", func(c *Config) { c.Engine.DeclineAlertPct = 5 }},
		{"negative growth band", func(c *Config) { c.Engine.GrowthAlertPct = -5 }},
		{"zero insights cap", func(c *Config) { c.Engine.MaxInsights = 0 }},
		{"zero concurrency", func(c *Config) { c.Engine.MaxConcurrency = 0 }},
		{"unsupported confidence", func(c *Config) { c.Engine.Confidence = 0.5 }},
		{"unknown log format", func(c *Config) { c.Logging.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, Default().Validate())
	})
}
