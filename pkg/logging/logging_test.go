package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/clarus/pkg/logging"
)

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&logging.Config{Level: logging.LevelWarn, Format: logging.FormatJSON}, &buf)

	logger.Info("dropped")
	logger.Warn("session conflict", "session_id", "abc")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "session conflict", record["msg"])
	assert.Equal(t, "clarus", record["service"])
	assert.Equal(t, "abc", record["session_id"])
}

func TestNewWithWriter_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&logging.Config{Level: logging.LevelDebug, Format: logging.FormatText}, &buf)

	logger.Debug("tool call executed", "tool", "get_current_time")

	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "tool=get_current_time")
}

func TestLevel(t *testing.T) {
	tests := []struct {
		level logging.Level
		slog  slog.Level
		valid bool
	}{
		{logging.LevelDebug, slog.LevelDebug, true},
		{logging.LevelInfo, slog.LevelInfo, true},
		{logging.LevelWarn, slog.LevelWarn, true},
		{logging.LevelError, slog.LevelError, true},
		{"trace", slog.LevelInfo, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			assert.Equal(t, tt.slog, tt.level.ToSlogLevel())
			if tt.valid {
				assert.NoError(t, tt.level.Validate())
			} else {
				assert.Error(t, tt.level.Validate())
			}
		})
	}
}

func TestConfig_Finalize(t *testing.T) {
	env := &logging.Env{Level: "TEST_LOGGING_LEVEL", Format: "TEST_LOGGING_FORMAT", AddSource: "TEST_LOGGING_ADD_SOURCE"}

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("TEST_LOGGING_LEVEL", "")
		t.Setenv("TEST_LOGGING_FORMAT", "")

		cfg := &logging.Config{}
		require.NoError(t, cfg.Finalize(env))
		assert.Equal(t, logging.LevelInfo, cfg.Level)
		assert.Equal(t, logging.FormatText, cfg.Format)
	})

	t.Run("env", func(t *testing.T) {
		t.Setenv("TEST_LOGGING_LEVEL", "debug")
		t.Setenv("TEST_LOGGING_FORMAT", "json")

		cfg := &logging.Config{}
		require.NoError(t, cfg.Finalize(env))
		assert.Equal(t, logging.LevelDebug, cfg.Level)
		assert.Equal(t, logging.FormatJSON, cfg.Format)
	})

	t.Run("env is case insensitive", func(t *testing.T) {
		t.Setenv("TEST_LOGGING_LEVEL", " WARNING ")
		t.Setenv("TEST_LOGGING_FORMAT", "JSON")
		t.Setenv("TEST_LOGGING_ADD_SOURCE", "true")

		cfg := &logging.Config{}
		require.NoError(t, cfg.Finalize(env))
		assert.Equal(t, logging.LevelWarn, cfg.Level)
		assert.Equal(t, logging.FormatJSON, cfg.Format)
		assert.True(t, cfg.AddSource)
	})

	t.Run("invalid add source", func(t *testing.T) {
		t.Setenv("TEST_LOGGING_ADD_SOURCE", "sometimes")

		cfg := &logging.Config{}
		assert.ErrorContains(t, cfg.Finalize(env), "invalid TEST_LOGGING_ADD_SOURCE")
	})

	t.Run("invalid level and format", func(t *testing.T) {
		t.Setenv("TEST_LOGGING_LEVEL", "trace")
		t.Setenv("TEST_LOGGING_FORMAT", "xml")
		t.Setenv("TEST_LOGGING_ADD_SOURCE", "")

		cfg := &logging.Config{}
		err := cfg.Finalize(env)
		assert.ErrorContains(t, err, "invalid log level: trace")
		assert.ErrorContains(t, err, "invalid log format: xml")
	})

	t.Run("invalid format", func(t *testing.T) {
		t.Setenv("TEST_LOGGING_LEVEL", "")
		t.Setenv("TEST_LOGGING_FORMAT", "xml")

		cfg := &logging.Config{}
		assert.ErrorContains(t, cfg.Finalize(env), "invalid log format")
	})
}

func TestConfig_Merge(t *testing.T) {
	cfg := &logging.Config{Level: logging.LevelInfo, Format: logging.FormatText}
	cfg.Merge(&logging.Config{Format: logging.FormatJSON, AddSource: true})

	assert.Equal(t, logging.LevelInfo, cfg.Level)
	assert.Equal(t, logging.FormatJSON, cfg.Format)
	assert.True(t, cfg.AddSource)

	cfg.Merge(&logging.Config{})
	assert.True(t, cfg.AddSource)
}

func TestNewWithWriter_AddSource(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&logging.Config{Level: logging.LevelInfo, Format: logging.FormatJSON, AddSource: true}, &buf)

	logger.Info("started")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	source, ok := record["source"].(map[string]any)
	require.True(t, ok, buf.String())
	assert.Contains(t, source["file"], "logging_test.go")
}
