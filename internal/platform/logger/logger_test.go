// Package logger_test contains tests for the logger package
package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/phrazzld/taskboard-api/internal/config"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		name     string
		logLevel string
		want     slog.Level
		ok       bool
	}{
		{name: "debug level", logLevel: "debug", want: slog.LevelDebug, ok: true},
		{name: "info level", logLevel: "info", want: slog.LevelInfo, ok: true},
		{name: "warn level", logLevel: "warn", want: slog.LevelWarn, ok: true},
		{name: "error level", logLevel: "error", want: slog.LevelError, ok: true},
		{name: "case insensitive - DEBUG", logLevel: "DEBUG", want: slog.LevelDebug, ok: true},
		{name: "case insensitive - Info", logLevel: "Info", want: slog.LevelInfo, ok: true},
		{name: "invalid falls back to info", logLevel: "verbose", want: slog.LevelInfo, ok: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := logger.ParseLevel(tc.logLevel)
			if got != tc.want || ok != tc.ok {
				t.Errorf("ParseLevel(%q) = (%v, %v), want (%v, %v)", tc.logLevel, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestNewFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(&buf, slog.LevelInfo)

	l.Debug("debug test message")
	l.Info("info test message", slog.String("component", "test"))

	output := buf.String()
	if strings.Contains(output, "debug test message") {
		t.Error("logger at info level should not output debug messages")
	}

	lines := strings.Split(strings.TrimSpace(output), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "info test message", entry["msg"])
	assert.Equal(t, "test", entry["component"])
}

func TestSetup(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	l, err := logger.Setup(config.ServerConfig{LogLevel: "debug", Port: 8080})
	require.NoError(t, err)
	require.NotNil(t, l)
	assert.Same(t, l, slog.Default())
	assert.True(t, l.Enabled(context.Background(), slog.LevelDebug))
}

func TestFromContextOrDefault(t *testing.T) {
	defaultLogger := slog.Default()
	customLogger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	tests := []struct {
		name     string
		ctx      context.Context
		expected *slog.Logger
	}{
		{
			name:     "nil_context_returns_default",
			ctx:      nil,
			expected: defaultLogger,
		},
		{
			name:     "context_without_logger_returns_default",
			ctx:      context.Background(),
			expected: defaultLogger,
		},
		{
			name:     "context_with_logger_returns_context_logger",
			ctx:      logger.WithLogger(context.Background(), customLogger),
			expected: customLogger,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := logger.FromContextOrDefault(tt.ctx, defaultLogger)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestWithLogger(t *testing.T) {
	t.Run("valid_logger", func(t *testing.T) {
		customLogger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
		ctx := logger.WithLogger(context.Background(), customLogger)

		assert.Equal(t, customLogger, logger.FromContext(ctx))
	})

	t.Run("nil_logger_panics", func(t *testing.T) {
		assert.Panics(t, func() {
			logger.WithLogger(context.Background(), nil)
		})
	})
}
