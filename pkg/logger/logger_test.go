package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogger(level Level) (*Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return New(Options{Output: buf, Level: level, AddCaller: true}), buf
}

func decodeEntry(t *testing.T, buf *bytes.Buffer) LogEntry {
	t.Helper()
	var entry LogEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestLogger_WritesStructuredFields(t *testing.T) {
	log, buf := captureLogger(LevelInfo)

	log.Info("revision recorded",
		String("subject", "Cardiology"),
		Int("retention", 72),
		Int64("elapsed_ms", 14),
	)

	entry := decodeEntry(t, buf)
	assert.Equal(t, "INFO", entry.Level)
	assert.Equal(t, "revision recorded", entry.Message)
	assert.Equal(t, "Cardiology", entry.Fields["subject"])
	assert.EqualValues(t, 72, entry.Fields["retention"])
	assert.EqualValues(t, 14, entry.Fields["elapsed_ms"])
	assert.True(t, strings.HasPrefix(entry.Caller, "logger_test.go:"))
}

func TestLogger_FiltersBelowConfiguredLevel(t *testing.T) {
	log, buf := captureLogger(LevelWarn)

	log.Debug("noise")
	log.Info("still noise")
	assert.Zero(t, buf.Len())

	log.Warn("cache unavailable")
	entry := decodeEntry(t, buf)
	assert.Equal(t, "WARN", entry.Level)
}

func TestErr_RendersErrorMessage(t *testing.T) {
	log, buf := captureLogger(LevelInfo)

	log.Error("mentor call failed", Err(errors.New("connection refused")))

	entry := decodeEntry(t, buf)
	assert.Equal(t, "ERROR", entry.Level)
	assert.Equal(t, "connection refused", entry.Fields["error"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel("WARNING"))
	assert.Equal(t, LevelError, ParseLevel(" error "))
	assert.Equal(t, LevelInfo, ParseLevel("whatever"))
}
