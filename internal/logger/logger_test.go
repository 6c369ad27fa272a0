package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestJSONFieldNames(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.Info("hello")

	entry := logLine(t, &buf)
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.Contains(t, entry, "timestamp")
	assert.NotContains(t, entry, "msg")
}

func TestWarnLevelRendersAsWarning(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.Warn("heads up")

	entry := logLine(t, &buf)
	assert.Equal(t, "warning", entry["level"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("warn", &buf)

	log.Info("dropped")
	assert.Zero(t, buf.Len())

	log.Error("kept")
	assert.NotZero(t, buf.Len())
}

func TestWithModuleAndRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf).WithModule("menu").WithRequestID("req-1")

	log.Info("dispatched")

	entry := logLine(t, &buf)
	assert.Equal(t, "menu", entry["module"])
	assert.Equal(t, "req-1", entry["request_id"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("unknown"))
}

func TestNewWithBetterStackWithoutToken(t *testing.T) {
	log := NewWithBetterStack("info", BetterStackConfig{})

	require.NotNil(t, log)
	// Without a token the logger degrades to stdout-only shipping
	log.Info("local only")
}

func TestMultiHandlerFansOut(t *testing.T) {
	var a, b bytes.Buffer
	handler := NewMultiHandler(
		slog.NewJSONHandler(&a, handlerOptions("info")),
		slog.NewJSONHandler(&b, handlerOptions("info")),
	)
	log := NewWithHandler(handler)

	log.Info("fan out")

	assert.NotZero(t, a.Len())
	assert.NotZero(t, b.Len())
}
