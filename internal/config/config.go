// Package config provides configuration loading using koanf.
// Precedence: TICKHOST_* environment variables, then compiled defaults.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/aelexs/tickhost/internal/domain"
)

// EnvPrefix is stripped from every environment variable Load reads.
// A double underscore separates nesting levels: TICKHOST_TIMING__MAX_DELTA
// sets timing.max_delta.
const EnvPrefix = "TICKHOST_"

// Config holds all host configuration.
type Config struct {
	// Environment identifier: "local", "dev", "prod"
	Environment string `koanf:"environment"`

	// Logging configuration
	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`

	Timing   TimingConfig   `koanf:"timing"`
	TaskPool TaskPoolConfig `koanf:"taskpool"`
	Host     HostConfig     `koanf:"host"`
	Headless HeadlessConfig `koanf:"headless"`

	// OpenTelemetry configuration
	OTEL OTELConfig `koanf:"otel"`
}

// TimingConfig holds the time reconciliation settings.
type TimingConfig struct {
	MaxDelta      time.Duration `koanf:"max_delta"`
	RelativeSpeed float64       `koanf:"relative_speed"`
	Source        string        `koanf:"source"` // "host" or "virtual"
}

// TaskPoolConfig holds the concurrent system set pool size.
type TaskPoolConfig struct {
	Workers int `koanf:"workers"`
}

// HostConfig holds the embedding settings.
type HostConfig struct {
	Editor     bool   `koanf:"editor"`      // Simulate running inside the engine editor
	DrainOrder string `koanf:"drain_order"` // "lifo" or "fifo"
}

// HeadlessConfig holds the simulated engine's cadence and the ops port.
type HeadlessConfig struct {
	VisualHz  int `koanf:"visual_hz"`
	PhysicsHz int `koanf:"physics_hz"`
	HTTPPort  int `koanf:"http_port"`
}

// OTELConfig holds OpenTelemetry configuration.
type OTELConfig struct {
	Endpoint    string `koanf:"endpoint"` // Empty disables OTLP export
	ServiceName string `koanf:"service_name"`
}

// defaults returns a Config with compiled default values.
func defaults() *Config {
	return &Config{
		Environment: "local",
		LogLevel:    "info",
		LogFormat:   "json",

		Timing: TimingConfig{
			MaxDelta:      domain.MaxDeltaTime,
			RelativeSpeed: domain.DefaultRelativeSpeed,
			Source:        "host",
		},
		TaskPool: TaskPoolConfig{
			Workers: domain.DefaultTaskPoolWorkers,
		},
		Host: HostConfig{
			DrainOrder: string(domain.DrainReverse),
		},
		Headless: HeadlessConfig{
			VisualHz:  domain.DefaultVisualHz,
			PhysicsHz: domain.DefaultPhysicsHz,
			HTTPPort:  8090,
		},
		OTEL: OTELConfig{
			ServiceName: "tickhost",
		},
	}
}

// envKey maps TICKHOST_TIMING__MAX_DELTA to timing.max_delta.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Load loads configuration from the environment over compiled defaults,
// then validates it. Required keys missing or out-of-range values are
// startup failures.
func Load(ctx context.Context) (*Config, error) {
	k := koanf.New(".")

	cfg := defaults()

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validateRequired(cfg); err != nil {
		return nil, err
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateRequired checks that required configuration is present.
func validateRequired(cfg *Config) error {
	// In local environment, every field has a usable default
	if cfg.Environment == "local" {
		return nil
	}

	// In production, telemetry must leave the process
	if cfg.Environment == "prod" {
		if cfg.OTEL.Endpoint == "" {
			return fmt.Errorf("%w: otel.endpoint", domain.ErrConfigRequired)
		}
	}

	return nil
}

// validate checks value ranges.
func validate(cfg *Config) error {
	if cfg.Timing.MaxDelta <= 0 {
		return fmt.Errorf("%w: timing.max_delta must be positive, got %s", domain.ErrInvalidConfig, cfg.Timing.MaxDelta)
	}
	if cfg.Timing.RelativeSpeed < 0 {
		return fmt.Errorf("%w: timing.relative_speed must not be negative, got %g", domain.ErrInvalidConfig, cfg.Timing.RelativeSpeed)
	}
	switch cfg.Timing.Source {
	case "host", "virtual":
	default:
		return fmt.Errorf("%w: timing.source %q", domain.ErrInvalidConfig, cfg.Timing.Source)
	}
	if !domain.IsValidDrainOrder(domain.DrainOrder(cfg.Host.DrainOrder)) {
		return fmt.Errorf("%w: host.drain_order %q", domain.ErrInvalidConfig, cfg.Host.DrainOrder)
	}
	if cfg.Headless.VisualHz <= 0 {
		return fmt.Errorf("%w: headless.visual_hz must be positive", domain.ErrInvalidConfig)
	}
	if cfg.Headless.PhysicsHz <= 0 {
		return fmt.Errorf("%w: headless.physics_hz must be positive", domain.ErrInvalidConfig)
	}
	if cfg.Headless.HTTPPort < 0 || cfg.Headless.HTTPPort > 65535 {
		return fmt.Errorf("%w: headless.http_port %d", domain.ErrInvalidConfig, cfg.Headless.HTTPPort)
	}
	return nil
}

// IsLocal returns true if running in local development environment.
func (c *Config) IsLocal() bool {
	return c.Environment == "local"
}

// IsProd returns true if running in production environment.
func (c *Config) IsProd() bool {
	return c.Environment == "prod"
}
