// Package logstream owns the process logs: a zap console logger plus the
// three named append-only streams (transactions, errors, alerts) that the
// monitor persists alongside it.
package logstream

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	transactionLog = "transactions.log"
	errorLog       = "errors.log"
	alertLog       = "alerts.log"
)

// NewLogger builds the console logger: production zap config, ISO8601
// timestamps, stdout only.
func NewLogger(level string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.OutputPaths = []string{"stdout"}

	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	lvl := zapcore.InfoLevel
	switch strings.ToLower(level) {
	case "debug":
		lvl = zapcore.DebugLevel
	case "warn":
		lvl = zapcore.WarnLevel
	case "error":
		lvl = zapcore.ErrorLevel
	}
	config.Level = zap.NewAtomicLevelAt(lvl)

	return config.Build()
}

// Streams appends timestamped lines to the named log files and mirrors
// every line to the console logger. Appends are best-effort: a failed
// write surfaces on the console but never to the caller.
type Streams struct {
	dir string
	log *zap.Logger
}

// NewStreams creates the log directory and returns the streams.
func NewStreams(dir string, log *zap.Logger) (*Streams, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	return &Streams{dir: dir, log: log}, nil
}

// Transaction appends to the transaction stream.
func (s *Streams) Transaction(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	s.log.Info(msg)
	s.append(transactionLog, msg)
}

// Error appends to the error stream with the original monitor's ERROR prefix.
func (s *Streams) Error(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	s.log.Error(msg)
	s.append(errorLog, "ERROR: "+msg)
}

// Alert appends an already-formatted alert line to the alert stream. The
// console mirror uses the given level, so an informational startup alert
// does not surface as a warning.
func (s *Streams) Alert(level zapcore.Level, line string) {
	s.log.Log(level, line)
	s.append(alertLog, line)
}

func (s *Streams) append(file, msg string) {
	line := fmt.Sprintf("[%s] %s\n", time.Now().Format(time.RFC3339), msg)

	path := filepath.Join(s.dir, file)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		s.log.Error("failed to open log file", zap.String("file", path), zap.Error(err))
		return
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		s.log.Error("failed to write log file", zap.String("file", path), zap.Error(err))
	}
}
