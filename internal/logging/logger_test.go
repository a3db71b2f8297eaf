package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in       string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.in))
		})
	}
}

func TestNewLogger_StripsTime(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, false, "info")

	log.Debug("hidden")
	log.Info("connected", "network", "development")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.NotContains(t, out, "time=")
	assert.Contains(t, out, "msg=connected network=development")
}

func TestNewLogger_DebugFlag(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, true, "error")

	log.Debug("probing node", "host", "http://127.0.0.1:8545")

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, "source=")
	assert.Contains(t, out, "logger_test.go")
}
