package alerts

import (
	"fmt"
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/cobotium/program-monitor/internal/logstream"
)

// Dispatcher fans an alert out to the alert log stream and the configured
// sinks. The log append happens first and cannot fail observably; sink
// delivery is attempted afterwards and failures go to the error stream
// without retry and without reaching the caller. The chat sink is tried
// before the email sink, and a chat failure does not short-circuit the
// email attempt. Critical alerts additionally go to the email sink when
// one is configured.
type Dispatcher struct {
	streams *logstream.Streams
	chat    Sink
	email   Sink
}

// NewDispatcher wires a dispatcher. chat must be non-nil (use
// ConsoleAlerter when no webhook is configured); email may be nil.
func NewDispatcher(streams *logstream.Streams, chat, email Sink) *Dispatcher {
	return &Dispatcher{streams: streams, chat: chat, email: email}
}

// Dispatch logs and delivers one alert. Every call produces exactly one
// alert-log line; bursts are never throttled or deduplicated.
func (d *Dispatcher) Dispatch(message string, level Level) {
	alert := Alert{
		Message:   message,
		Level:     level,
		Timestamp: time.Now(),
	}

	d.streams.Alert(mirrorLevel(level), fmt.Sprintf("ALERT (%s): %s", level, message))

	if err := d.chat.Send(alert); err != nil {
		d.streams.Error("Failed to send chat alert: %v", err)
	}

	if level == Critical && d.email != nil {
		if err := d.email.Send(alert); err != nil {
			d.streams.Error("Failed to send email alert: %v", err)
		}
	}
}

// mirrorLevel maps alert severity to the console mirror level.
func mirrorLevel(level Level) zapcore.Level {
	switch level {
	case Critical:
		return zapcore.ErrorLevel
	case Warning:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}
