// Package alerts formats monitor alerts and delivers them to the
// configured notification sinks. Delivery is best-effort: every alert is
// written to the alert log stream first, sink failures are logged and
// dropped, and nothing here blocks the event path beyond the sink client
// timeouts.
package alerts

import (
	"fmt"
	"time"
)

type Level string

const (
	Info     Level = "info"
	Warning  Level = "warning"
	Critical Level = "critical"
)

// Upper returns the level in the uppercase form used in notification text.
func (l Level) Upper() string {
	switch l {
	case Critical:
		return "CRITICAL"
	case Warning:
		return "WARNING"
	default:
		return "INFO"
	}
}

// Alert is one notification. Alerts are fire-and-forget: created,
// dispatched, discarded, never deduplicated or persisted.
type Alert struct {
	Message   string
	Level     Level
	Timestamp time.Time
}

// Sink delivers an alert to one external channel.
type Sink interface {
	Send(alert Alert) error
}

// ConsoleAlerter is the fallback sink when no webhook is configured.
type ConsoleAlerter struct{}

func (a *ConsoleAlerter) Send(alert Alert) error {
	var prefix string
	switch alert.Level {
	case Critical:
		prefix = "[CRITICAL]"
	case Warning:
		prefix = "[WARNING]"
	default:
		prefix = "[INFO]"
	}
	fmt.Printf("%s %s: %s\n", prefix, alert.Timestamp.Format(time.RFC3339), alert.Message)
	return nil
}

func emoji(level Level) string {
	switch level {
	case Critical:
		return "🚨"
	case Warning:
		return "⚠️"
	default:
		return "ℹ️"
	}
}
