package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oppcli/internal/config"
)

func TestInitializeLogger(t *testing.T) {
	t.Cleanup(ResetLoggerForTesting)

	tests := []struct {
		name string
		cfg  config.LoggingConfig
	}{
		{
			name: "console output",
			cfg:  config.LoggingConfig{Level: "info", Format: "json", Output: "console"},
		},
		{
			name: "file output",
			cfg: config.LoggingConfig{
				Level:    "debug",
				Format:   "json",
				Output:   "file",
				FilePath: filepath.Join(t.TempDir(), "logs", "test.log"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetLoggerForTesting()

			logger, err := InitializeLogger(tt.cfg)
			require.NoError(t, err)
			assert.NotNil(t, logger)
			assert.Same(t, logger, GetLogger())
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.input))
		})
	}
}

func TestRunIDHandler_InjectsRunID(t *testing.T) {
	var buf bytes.Buffer
	handler := &runIDHandler{Handler: slog.NewJSONHandler(&buf, nil)}
	logger := slog.New(handler)

	ctx := WithRunID(context.Background(), "run-123")
	logger.InfoContext(ctx, "stage complete")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "run-123", entry["run_id"])
	assert.Equal(t, "stage complete", entry["msg"])
}

func TestLoggerFieldHelpers(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	WithError(WithComponent(logger, "exporter"), errors.New("disk full")).Info("write failed")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "exporter", entry["component"])
	assert.Equal(t, "disk full", entry["error"])
}

func TestWithError_NilError(t *testing.T) {
	logger := slog.Default()
	assert.Same(t, logger, WithError(logger, nil))
}

func TestRunIDContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRunID(ctx))

	ctx = ContextWithRunID(ctx)
	runID := GetRunID(ctx)
	assert.NotEmpty(t, runID)
	assert.Len(t, runID, 36) // UUID v4
}
