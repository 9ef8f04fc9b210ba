package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"nonsense", slog.LevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LoggingConfig{Level: tt.level}.SlogLevel(), "level %q", tt.level)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 2*time.Second, cfg.Reader.QuietPeriod)
	assert.Equal(t, "single", cfg.Reader.ViewMode)
	assert.Equal(t, slog.LevelInfo, cfg.Logging.SlogLevel())
	assert.False(t, cfg.IsConfigured())

	cfg.Server.URL = "http://localhost:8001/api"
	cfg.Server.Token = "t"
	assert.True(t, cfg.IsConfigured())
}
