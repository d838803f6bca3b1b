package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_TextOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{
		Level:  LevelDebug,
		Format: "text",
		Output: &buf,
	})

	logger.Info(context.Background(), "element connected", "tag", "x-widget")

	out := buf.String()
	assert.Contains(t, out, "element connected")
	assert.Contains(t, out, "x-widget")
}

func TestNewLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{
		Level:  LevelDebug,
		Format: "json",
		Output: &buf,
	})

	logger.Warn(context.Background(), fmt.Errorf("coercion failed"), "bad attribute", "raw", "abc")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "bad attribute", entry["msg"])
	assert.Equal(t, "coercion failed", entry["error"])
	assert.Equal(t, "abc", entry["raw"])
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{
		Level:  LevelError,
		Format: "text",
		Output: &buf,
	})

	logger.Debug(context.Background(), "dropped")
	logger.Info(context.Background(), "dropped")
	logger.Warn(context.Background(), nil, "dropped")
	assert.Empty(t, buf.String())

	logger.Error(context.Background(), fmt.Errorf("boom"), "kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestLogger_WithElement(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{
		Level:  LevelDebug,
		Format: "json",
		Output: &buf,
	})

	logger.WithElement("x-counter").Info(context.Background(), "mounted")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "x-counter", entry["element"])
}

func TestLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{
		Level:  LevelDebug,
		Format: "json",
		Output: &buf,
	})

	scoped := logger.With("session", "abc123")
	scoped.Info(context.Background(), "message")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "abc123", entry["session"])
}

func TestNewLogger_NilConfig(t *testing.T) {
	assert.NotNil(t, NewLogger(nil))
}

func TestNop(t *testing.T) {
	logger := Nop()
	// Must be safe to call at every level
	logger.Debug(context.Background(), "x")
	logger.Info(context.Background(), "x")
	logger.Warn(context.Background(), fmt.Errorf("e"), "x")
	logger.Error(context.Background(), fmt.Errorf("e"), "x")
	assert.NotNil(t, logger.With("k", "v"))
	assert.NotNil(t, logger.WithElement("x-a"))
}

func TestLogLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "ERROR", LevelError.String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}
