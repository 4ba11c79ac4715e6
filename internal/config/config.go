package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds all environment-driven settings for the API server.
// Provider API keys are optional: a missing key marks that provider
// unavailable rather than failing startup, matching the health and
// api-status introspection endpoints.
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	RedisURL string `env:"REDIS_URL" envDefault:"localhost:6379"`

	XAIAPIKey       string `env:"XAI_API_KEY"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	ReplicateAPIKey string `env:"REPLICATE_API_KEY"`

	GrokModel      string `env:"GROK_MODEL" envDefault:"grok-3"`
	AnthropicModel string `env:"ANTHROPIC_MODEL" envDefault:"claude-3-5-sonnet-20241022"`
}

// Load parses configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.XAIAPIKey == "" && cfg.AnthropicAPIKey == "" {
		return nil, fmt.Errorf("at least one of XAI_API_KEY or ANTHROPIC_API_KEY is required")
	}
	return cfg, nil
}

// SlogLevel maps the configured level name to a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
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
