package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	m, err := NewManager()
	require.NoError(t, err)
	return m
}

func TestDefaults(t *testing.T) {
	m := newTestManager(t)
	cfg := m.GetConfig()

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.False(t, cfg.Store.Enabled)
	assert.Equal(t, "data/reports.db", cfg.Store.Path)
	assert.Empty(t, cfg.Vocabulary.Dir)
	assert.Equal(t, 10.0, cfg.Extractor.HighTMBThreshold)

	assert.NoError(t, m.Validate())
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("MTB_LOGGING_LEVEL", "debug")
	t.Setenv("MTB_STORE_PATH", "/tmp/archive.db")

	m := newTestManager(t)
	cfg := m.GetConfig()

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/tmp/archive.db", cfg.Store.Path)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"store enabled without path", func(c *Config) { c.Store.Enabled = true; c.Store.Path = "" }},
		{"non-positive tmb threshold", func(c *Config) { c.Extractor.HighTMBThreshold = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestManager(t)
			tt.mutate(m.GetConfig())
			assert.Error(t, m.Validate())
		})
	}
}
