package logstream

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func newTestStreams(t *testing.T) (*Streams, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewStreams(dir, zaptest.NewLogger(t))
	require.NoError(t, err)
	return s, dir
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func TestTransactionStreamAppends(t *testing.T) {
	s, dir := newTestStreams(t)

	s.Transaction("Scanning program accounts...")
	s.Transaction("Found %d accounts", 7)

	lines := readLines(t, filepath.Join(dir, "transactions.log"))
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Scanning program accounts...")
	assert.Contains(t, lines[1], "Found 7 accounts")
	// Timestamped line format.
	assert.True(t, strings.HasPrefix(lines[0], "["))
}

func TestErrorStreamPrefix(t *testing.T) {
	s, dir := newTestStreams(t)

	s.Error("scan failed: %v", "boom")

	lines := readLines(t, filepath.Join(dir, "errors.log"))
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "ERROR: scan failed: boom")
}

func TestAlertStream(t *testing.T) {
	s, dir := newTestStreams(t)

	s.Alert(zapcore.ErrorLevel, "ALERT (critical): Account frozen in tx abc")

	lines := readLines(t, filepath.Join(dir, "alerts.log"))
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "ALERT (critical): Account frozen in tx abc")
}

// The console mirror carries the severity the caller passes; info alerts
// must not surface as warnings.
func TestAlertMirrorLevel(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	s, err := NewStreams(t.TempDir(), zap.New(core))
	require.NoError(t, err)

	s.Alert(zapcore.InfoLevel, "ALERT (info): monitoring service started")
	s.Alert(zapcore.ErrorLevel, "ALERT (critical): Account frozen in tx abc")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
}

func TestStreamsAreSeparateFiles(t *testing.T) {
	s, dir := newTestStreams(t)

	s.Transaction("tx line")
	s.Error("err line")
	s.Alert(zapcore.WarnLevel, "alert line")

	for _, name := range []string{"transactions.log", "errors.log", "alerts.log"} {
		lines := readLines(t, filepath.Join(dir, name))
		assert.Len(t, lines, 1, name)
	}
}
