// Package subscriber consumes the push feed of Cobotium program log
// events, classifies each event, updates the metrics aggregator, and
// applies the alert policy. Registration failures are retried forever
// with exponential backoff; the monitor stays up even when the feed is
// unreachable.
package subscriber

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cobotium/program-monitor/internal/alerts"
	"github.com/cobotium/program-monitor/internal/classify"
	"github.com/cobotium/program-monitor/internal/logstream"
	"github.com/cobotium/program-monitor/internal/metrics"
)

const (
	initialBackoff = 30 * time.Second
	maxBackoff     = 5 * time.Minute
)

// Event is one program log notification: the transaction signature, the
// ordered log lines, and the error payload when the transaction failed.
type Event struct {
	Signature string
	Logs      []string
	Err       interface{}
}

// Feed registers for program log events.
type Feed interface {
	Subscribe(ctx context.Context) (Subscription, error)
}

// Subscription delivers events until torn down.
type Subscription interface {
	Recv(ctx context.Context) (*Event, error)
	Unsubscribe()
}

// Notifier dispatches an alert.
type Notifier interface {
	Dispatch(message string, level alerts.Level)
}

// Subscriber owns the subscribe/receive loop and the per-event policy.
type Subscriber struct {
	feed          Feed
	agg           *metrics.Aggregator
	streams       *logstream.Streams
	notifier      Notifier
	largeTransfer uint64
	started       chan struct{}
	startedOnce   sync.Once
}

func New(feed Feed, agg *metrics.Aggregator, streams *logstream.Streams, notifier Notifier, largeTransferThreshold uint64) *Subscriber {
	return &Subscriber{
		feed:          feed,
		agg:           agg,
		streams:       streams,
		notifier:      notifier,
		largeTransfer: largeTransferThreshold,
		started:       make(chan struct{}),
	}
}

// Started is closed after the first successful registration with the feed.
func (s *Subscriber) Started() <-chan struct{} {
	return s.started
}

// Run subscribes and processes events until the context is cancelled.
// Every failure — registration refused, or a subscription torn down on a
// receive error — waits out the current backoff before the next attempt:
// 30s doubling to a 5m cap, unbounded in attempt count. Only a delivered
// event proves the subscription healthy and resets the backoff; a feed
// that accepts registration but drops the connection before the first
// event flaps just like one that refuses registration, and must not
// resubscribe in a hot loop.
func (s *Subscriber) Run(ctx context.Context) {
	backoff := initialBackoff
	for {
		sub, err := s.feed.Subscribe(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.streams.Error("Error setting up transaction monitoring: %v (retrying in %v)", err, backoff)
			if !s.wait(ctx, backoff) {
				return
			}
			backoff = nextBackoff(backoff)
			continue
		}

		s.streams.Transaction("Transaction monitoring started successfully")
		s.startedOnce.Do(func() { close(s.started) })

		received := s.receive(ctx, sub)
		sub.Unsubscribe()
		if ctx.Err() != nil {
			return
		}

		if received {
			backoff = initialBackoff
		}
		s.streams.Error("Log subscription lost, resubscribing in %v", backoff)
		if !s.wait(ctx, backoff) {
			return
		}
		backoff = nextBackoff(backoff)
	}
}

// receive pumps events until the subscription fails or the context is
// cancelled, reporting whether at least one event was delivered.
func (s *Subscriber) receive(ctx context.Context, sub Subscription) bool {
	received := false
	for {
		event, err := sub.Recv(ctx)
		if err != nil {
			if ctx.Err() == nil {
				s.streams.Error("Log subscription receive failed: %v", err)
			}
			return received
		}
		received = true
		s.handleEvent(event)
	}
}

func (s *Subscriber) wait(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

func nextBackoff(d time.Duration) time.Duration {
	d *= 2
	if d > maxBackoff {
		d = maxBackoff
	}
	return d
}

// handleEvent runs the classifier, records the event, and applies the
// alert policy. The checks are independent: one event can trigger zero,
// one, or several alerts.
func (s *Subscriber) handleEvent(event *Event) {
	isError := event.Err != nil
	inst, amount := classify.Classify(event.Logs)

	s.agg.RecordEvent(inst, isError)
	s.streams.Transaction("Transaction %s - Type: %s, Amount: %d", event.Signature, inst, amount)

	if isError {
		s.streams.Error("Transaction error in %s: %v", event.Signature, event.Err)
		s.notifier.Dispatch(fmt.Sprintf("Transaction error: %s", event.Signature), alerts.Warning)
	}

	if (inst == classify.Transfer || inst == classify.Mint) && amount > s.largeTransfer {
		s.notifier.Dispatch(fmt.Sprintf("Large %s: %d tokens in tx %s", inst, amount, event.Signature), alerts.Warning)
	}

	if inst == classify.Freeze {
		s.notifier.Dispatch(fmt.Sprintf("Account frozen in tx %s", event.Signature), alerts.Critical)
	}
	if inst == classify.Thaw {
		s.notifier.Dispatch(fmt.Sprintf("Account thawed in tx %s", event.Signature), alerts.Critical)
	}
}
