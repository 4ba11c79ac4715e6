package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XAI_API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "localhost:6379", cfg.RedisURL)
	assert.Equal(t, "grok-3", cfg.GrokModel)
	assert.Equal(t, "claude-3-5-sonnet-20241022", cfg.AnthropicModel)
}

func TestLoadRequiresAProviderKey(t *testing.T) {
	t.Setenv("XAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"nonsense", slog.LevelInfo},
	}
	for _, tt := range tests {
		cfg := &Config{LogLevel: tt.level}
		assert.Equal(t, tt.want, cfg.SlogLevel(), tt.level)
	}
}
