// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers a YAML file and environment variables over the defaults.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/okian/brandhealth/internal/domain/engine"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DataPath points at a .yaml/.yml, .toml, .csv or .xlsx wave. Empty
	// serves the embedded Q1 2025 wave.
	DataPath string `koanf:"data_path"`

	// QuadrantStrategy picks the quadrant midpoints: fixed, mean or median.
	QuadrantStrategy string `koanf:"quadrant_strategy"`

	// PerformanceMidpoint and GrowthMidpoint are used by the fixed strategy.
	PerformanceMidpoint float64 `koanf:"performance_midpoint"`
	GrowthMidpoint      float64 `koanf:"growth_midpoint"`

	// ShutdownTimeoutMS bounds graceful HTTP shutdown.
	ShutdownTimeoutMS int `koanf:"shutdown_timeout_ms"`
}

// New creates a Config with defaults. The context is unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		QuadrantStrategy:    string(engine.StrategyFixed),
		PerformanceMidpoint: engine.DefaultMidpoints.Performance,
		GrowthMidpoint:      engine.DefaultMidpoints.Growth,
		ShutdownTimeoutMS:   5000,
	}
}

// Midpoints returns the fixed quadrant midpoints.
func (c *Config) Midpoints() engine.Midpoints {
	return engine.Midpoints{Performance: c.PerformanceMidpoint, Growth: c.GrowthMidpoint}
}

// ShutdownTimeout returns ShutdownTimeoutMS as a duration.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutMS) * time.Millisecond
}

// Validate checks field values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("addr must not be empty: %w", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log_format %q: %w", c.LogFormat, ErrInvalidConfig)
	}
	if _, err := engine.ParseMidpointStrategy(c.QuadrantStrategy); err != nil {
		return fmt.Errorf("quadrant_strategy: %w: %w", ErrInvalidConfig, err)
	}
	if c.PerformanceMidpoint < 0 || c.PerformanceMidpoint > 100 {
		return fmt.Errorf("performance_midpoint %v outside [0,100]: %w", c.PerformanceMidpoint, ErrInvalidConfig)
	}
	if c.ShutdownTimeoutMS <= 0 {
		return fmt.Errorf("shutdown_timeout_ms must be positive: %w", ErrInvalidConfig)
	}
	return nil
}
