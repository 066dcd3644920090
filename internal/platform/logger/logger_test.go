package logger_test

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/squad-api/internal/config"
	"github.com/phrazzld/squad-api/internal/platform/logger"
)

func restoreDefault(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })
}

func TestSetupLevels(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		debugSeen bool
		infoSeen  bool
		warnSeen  bool
	}{
		{name: "debug", level: "debug", debugSeen: true, infoSeen: true, warnSeen: true},
		{name: "info", level: "info", infoSeen: true, warnSeen: true},
		{name: "warn", level: "WARN", warnSeen: true},
		{name: "error", level: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			restoreDefault(t)
			buf := &logger.TestLogBuffer{}

			l, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: tt.level}, buf)
			require.NoError(t, err)
			require.NotNil(t, l)

			l.Debug("debug message")
			l.Info("info message")
			l.Warn("warn message")

			out := buf.String()
			assert.Equal(t, tt.debugSeen, strings.Contains(out, "debug message"))
			assert.Equal(t, tt.infoSeen, strings.Contains(out, "info message"))
			assert.Equal(t, tt.warnSeen, strings.Contains(out, "warn message"))
		})
	}
}

func TestSetupInvalidLevelFallsBackToInfo(t *testing.T) {
	restoreDefault(t)
	buf := &logger.TestLogBuffer{}

	l, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: "loud"}, buf)
	require.NoError(t, err)

	l.Debug("hidden")
	l.Info("shown")

	entries, err := buf.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "invalid log level configured, using default level", entries[0]["msg"])
	assert.Equal(t, "loud", entries[0]["configured_level"])
	assert.Equal(t, "shown", entries[1]["msg"])
}

func TestSetupSetsDefault(t *testing.T) {
	restoreDefault(t)
	buf := &logger.TestLogBuffer{}

	_, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: "info"}, buf)
	require.NoError(t, err)

	slog.Info("through default", "key", "value")

	entries, err := buf.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "value", entries[0]["key"])
}

func TestContextLogger(t *testing.T) {
	l, _ := logger.NewCaptureLogger()
	fallback, _ := logger.NewCaptureLogger()

	assert.Nil(t, logger.FromContext(context.Background()))
	assert.Same(t, fallback, logger.FromContextOrDefault(context.Background(), fallback))
	assert.Same(t, slog.Default(), logger.FromContextOrDefault(context.Background(), nil))

	ctx := logger.WithLogger(context.Background(), l)
	assert.Same(t, l, logger.FromContext(ctx))
	assert.Same(t, l, logger.FromContextOrDefault(ctx, fallback))
}
