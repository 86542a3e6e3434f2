package util

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLogLevel("DEBUG"))
	assert.Equal(t, LevelWarn, ParseLogLevel("warning"))
	assert.Equal(t, LevelError, ParseLogLevel(" error "))
	assert.Equal(t, LevelInfo, ParseLogLevel("bogus"))
}

func TestLoggerTextSink(t *testing.T) {
	var buf bytes.Buffer
	logger := &Logger{level: LevelInfo}
	logger.AddSink(NewStreamSink(&buf, FormatText))

	logger.Debug("hidden")
	logger.With(Field{Key: "user", Value: "default"}).Info("loaded", Field{Key: "doses", Value: 3})
	logger.Warnf("skipped %d lines", 2)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "[INFO] loaded doses=3 user=default")
	assert.Contains(t, lines[1], "[WARN] skipped 2 lines")
}

func TestLoggerJSONSink(t *testing.T) {
	var buf bytes.Buffer
	logger := &Logger{level: LevelDebug}
	logger.AddSink(NewStreamSink(&buf, FormatJSON))

	logger.Error("boom", Field{Key: "file", Value: "a.jsonl"})

	var record LogRecord
	require.NoError(t, sonic.Unmarshal(bytes.TrimSpace(buf.Bytes()), &record))
	assert.Equal(t, "ERROR", record.Level)
	assert.Equal(t, "boom", record.Message)
	assert.Equal(t, "a.jsonl", record.Fields["file"])
}

func TestNewLoggerFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monitor.log")

	logger, err := NewLogger(LogConfig{Level: "debug", File: path})
	require.NoError(t, err)
	logger.Debugf("hello %s", "file")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[DEBUG] hello file")
}

func TestNewLoggerBadFile(t *testing.T) {
	_, err := NewLogger(LogConfig{File: filepath.Join(t.TempDir(), "missing", "x.log")})
	assert.Error(t, err)
}

func TestGlobalLogger(t *testing.T) {
	// no-op before init
	LogInfof("nobody listens %d", 1)

	var buf bytes.Buffer
	logger := &Logger{level: LevelDebug}
	logger.AddSink(NewStreamSink(&buf, FormatText))
	SetLogger(logger)
	defer SetLogger(nil)

	LogDebugf("a=%d", 1)
	LogWarn("careful")

	out := buf.String()
	assert.Contains(t, out, "[DEBUG] a=1")
	assert.Contains(t, out, "[WARN] careful")
}
