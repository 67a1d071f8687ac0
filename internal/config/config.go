// Package config loads the shared configuration for both binaries.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/sentinel-sec/sentinel-cli/internal/monitor"
	"github.com/sentinel-sec/sentinel-cli/internal/scan"
)

// Config is the typed view of the sentinel configuration file.
type Config struct {
	RulesFile string        `mapstructure:"rules_file"`
	OutputDir string        `mapstructure:"output_dir"`
	AuditLog  string        `mapstructure:"audit_log"`
	Notify    NotifyConfig  `mapstructure:"notify"`
	Monitor   MonitorConfig `mapstructure:"monitor"`
}

// NotifyConfig configures the optional Slack webhook.
type NotifyConfig struct {
	WebhookURL string `mapstructure:"webhook_url"`
	Channel    string `mapstructure:"channel"`
	MinLevel   string `mapstructure:"min_level"`
}

// MonitorConfig configures the fallback monitor.
type MonitorConfig struct {
	PrimaryModel      string            `mapstructure:"primary_model"`
	FallbackModel     string            `mapstructure:"fallback_model"`
	Endpoints         map[string]string `mapstructure:"endpoints"`
	IntervalSeconds   int               `mapstructure:"interval_seconds"`
	FailoverThreshold int               `mapstructure:"failover_threshold"`
	TimeoutSeconds    int               `mapstructure:"timeout_seconds"`
	MonitoringActive  bool              `mapstructure:"monitoring_active"`
	PatchGeneration   bool              `mapstructure:"patch_generation"`
}

// Load reads configuration from the given file, or from the default search
// paths when path is empty. Environment variables prefixed SENTINEL_
// override file values; a missing config file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("output_dir", ".")
	v.SetDefault("notify.min_level", string(scan.RiskLevelHigh))
	v.SetDefault("monitor.primary_model", monitor.DefaultPrimaryModel)
	v.SetDefault("monitor.endpoints", monitor.DefaultConfig().Endpoints)
	v.SetDefault("monitor.interval_seconds", 60)
	v.SetDefault("monitor.failover_threshold", 3)
	v.SetDefault("monitor.timeout_seconds", 10)
	v.SetDefault("monitor.monitoring_active", true)
	v.SetDefault("monitor.patch_generation", true)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("sentinel")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.sentinel")
	}

	v.SetEnvPrefix("SENTINEL")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field values that have a constrained domain.
func (c *Config) Validate() error {
	if c.Notify.MinLevel != "" {
		if _, err := scan.ParseRiskLevel(c.Notify.MinLevel); err != nil {
			return fmt.Errorf("notify.min_level: %w", err)
		}
	}
	if c.Monitor.IntervalSeconds <= 0 {
		return fmt.Errorf("monitor.interval_seconds must be positive, got %d", c.Monitor.IntervalSeconds)
	}
	if c.Monitor.FailoverThreshold < 1 {
		return fmt.Errorf("monitor.failover_threshold must be at least 1, got %d", c.Monitor.FailoverThreshold)
	}
	if c.Monitor.TimeoutSeconds <= 0 {
		return fmt.Errorf("monitor.timeout_seconds must be positive, got %d", c.Monitor.TimeoutSeconds)
	}
	return nil
}

// MonitorSettings converts the file shape to the monitor's runtime config.
func (c *Config) MonitorSettings() monitor.Config {
	cfg := monitor.DefaultConfig()
	if c.Monitor.PrimaryModel != "" {
		cfg.PrimaryModel = c.Monitor.PrimaryModel
	}
	cfg.FallbackModel = c.Monitor.FallbackModel
	if len(c.Monitor.Endpoints) > 0 {
		cfg.Endpoints = c.Monitor.Endpoints
	}
	cfg.Interval = time.Duration(c.Monitor.IntervalSeconds) * time.Second
	cfg.FailoverThreshold = c.Monitor.FailoverThreshold
	cfg.Timeout = time.Duration(c.Monitor.TimeoutSeconds) * time.Second
	return cfg
}

// SecurityState converts the file shape to the alert evaluator's input.
func (c *Config) SecurityState() monitor.SecurityState {
	active := c.Monitor.PrimaryModel
	if active == "" {
		active = monitor.DefaultPrimaryModel
	}
	return monitor.SecurityState{
		MonitoringActive: c.Monitor.MonitoringActive,
		PatchGeneration:  c.Monitor.PatchGeneration,
		ActiveModel:      active,
		ExpectedModel:    monitor.DefaultPrimaryModel,
	}
}
