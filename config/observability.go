package config

import (
	"log/slog"
	"strings"
)

const defaultMetricsNamespace = "placesmap"

// ObservabilityConfig groups configuration that controls logging and metrics.
type ObservabilityConfig struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Metrics ObservabilityMetricsConfig
}

// Sanitize applies guardrails to observability sub-configs.
func (c *ObservabilityConfig) Sanitize() {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.Metrics.Sanitize()
}

// SlogLevel maps LogLevel onto a slog.Level, defaulting to info.
func (c *ObservabilityConfig) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ObservabilityMetricsConfig controls the Prometheus endpoint and the
// optional StatsD mirror.
type ObservabilityMetricsConfig struct {
	Enabled       bool   `env:"METRICS_ENABLED"        envDefault:"true"`
	Namespace     string `env:"METRICS_NAMESPACE"      envDefault:"placesmap"`
	StatsdEnabled bool   `env:"METRICS_STATSD_ENABLED" envDefault:"false"`
	StatsdAddress string `env:"METRICS_STATSD_ADDRESS" envDefault:"127.0.0.1:8125"`
}

// Sanitize normalises derived fields and enforces safe defaults.
func (c *ObservabilityMetricsConfig) Sanitize() {
	c.Namespace = strings.TrimSpace(c.Namespace)
	if c.Namespace == "" {
		c.Namespace = defaultMetricsNamespace
	}
	c.StatsdAddress = strings.TrimSpace(c.StatsdAddress)
	if c.StatsdAddress == "" {
		c.StatsdEnabled = false
	}
}

// StatsdActive returns true when StatsD emission is active after sanitisation.
func (c *ObservabilityMetricsConfig) StatsdActive() bool {
	return c.StatsdEnabled && c.StatsdAddress != ""
}
