// Package config provides configuration management for the extractor.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full configuration tree, loadable from config.yaml,
// environment variables (MTB_ prefix) or defaults.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging"`
	Store      StoreConfig      `mapstructure:"store"`
	Vocabulary VocabularyConfig `mapstructure:"vocabulary"`
	Extractor  ExtractorConfig  `mapstructure:"extractor"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or text
}

// StoreConfig controls the optional report archive.
type StoreConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// VocabularyConfig controls vocabulary loading. An empty Dir uses the
// embedded vocabularies.
type VocabularyConfig struct {
	Dir string `mapstructure:"dir"`
}

// ExtractorConfig holds extraction thresholds.
type ExtractorConfig struct {
	HighTMBThreshold float64 `mapstructure:"high_tmb_threshold"` // mut/Mb
}

// Manager loads and holds the configuration using Viper.
type Manager struct {
	config *Config
}

// NewManager creates a manager and loads configuration from all sources.
func NewManager() (*Manager, error) {
	m := &Manager{}
	if err := m.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return m, nil
}

func (m *Manager) loadConfig() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/mtb-report-extractor/")

	viper.SetEnvPrefix("MTB")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	m.setDefaults()

	// Config file is optional; defaults and env vars suffice.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	m.config = config
	return nil
}

func (m *Manager) setDefaults() {
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")

	viper.SetDefault("store.enabled", false)
	viper.SetDefault("store.path", "data/reports.db")

	viper.SetDefault("vocabulary.dir", "")

	viper.SetDefault("extractor.high_tmb_threshold", 10.0)
}

// GetConfig returns the loaded configuration.
func (m *Manager) GetConfig() *Config {
	return m.config
}

// Validate checks the configuration for invalid values.
func (m *Manager) Validate() error {
	switch m.config.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level: %s", m.config.Logging.Level)
	}

	switch m.config.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid logging format: %s", m.config.Logging.Format)
	}

	if m.config.Store.Enabled && m.config.Store.Path == "" {
		return fmt.Errorf("store enabled but no path configured")
	}

	if m.config.Extractor.HighTMBThreshold <= 0 {
		return fmt.Errorf("high TMB threshold must be positive: %f",
			m.config.Extractor.HighTMBThreshold)
	}

	return nil
}
