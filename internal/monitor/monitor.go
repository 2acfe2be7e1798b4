// Package monitor wires the scanner, subscriber, aggregator, and alert
// dispatcher into the running service: the initial scan, the scheduled
// scans, the metrics rollups with their threshold checks, and the startup
// alert.
package monitor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cobotium/program-monitor/internal/alerts"
	"github.com/cobotium/program-monitor/internal/config"
	"github.com/cobotium/program-monitor/internal/logstream"
	"github.com/cobotium/program-monitor/internal/metrics"
)

// AccountScanner runs one account scan.
type AccountScanner interface {
	Scan(ctx context.Context)
}

// EventSubscriber runs the log-event loop and reports first registration.
type EventSubscriber interface {
	Run(ctx context.Context)
	Started() <-chan struct{}
}

// Notifier dispatches an alert.
type Notifier interface {
	Dispatch(message string, level alerts.Level)
}

// Service is the orchestrator.
type Service struct {
	cfg        *config.Config
	streams    *logstream.Streams
	agg        *metrics.Aggregator
	scanner    AccountScanner
	subscriber EventSubscriber
	notifier   Notifier
}

func New(cfg *config.Config, streams *logstream.Streams, agg *metrics.Aggregator, scanner AccountScanner, subscriber EventSubscriber, notifier Notifier) *Service {
	return &Service{
		cfg:        cfg,
		streams:    streams,
		agg:        agg,
		scanner:    scanner,
		subscriber: subscriber,
		notifier:   notifier,
	}
}

// Run starts the monitor and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) {
	banner := strings.Repeat("=", 50)
	s.streams.Transaction(banner)
	s.streams.Transaction("Starting Cobotium monitoring service for program %s", s.cfg.ProgramID)
	s.streams.Transaction("RPC URL: %s", s.cfg.RPCURL)
	s.streams.Transaction(banner)

	// Initial scan, then the subscriber in its own goroutine. Both report
	// their own failures; neither is fatal here.
	s.scanner.Scan(ctx)
	go s.subscriber.Run(ctx)

	go func() {
		select {
		case <-s.subscriber.Started():
			s.notifier.Dispatch(
				fmt.Sprintf("Cobotium monitoring service started for program %s", s.cfg.ProgramID),
				alerts.Info,
			)
		case <-ctx.Done():
		}
	}()

	scanTicker := time.NewTicker(s.cfg.ScanInterval())
	defer scanTicker.Stop()
	rollupTicker := time.NewTicker(s.cfg.RollupInterval())
	defer rollupTicker.Stop()

	for {
		select {
		case <-scanTicker.C:
			s.scanner.Scan(ctx)
		case <-rollupTicker.C:
			s.rollup()
		case <-ctx.Done():
			s.streams.Transaction("Monitor shutting down gracefully")
			return
		}
	}
}

// rollup reads and resets the window counters, checks the rate thresholds,
// and writes the periodic metrics line. Runs exactly once per tick; the
// reported window duration is the measured elapsed time, while thresholds
// compare the raw counters.
func (s *Service) rollup() {
	windowTx, windowErrors, elapsed := s.agg.Rollup()

	if windowTx > s.cfg.TransactionThreshold {
		s.notifier.Dispatch(
			fmt.Sprintf("High transaction volume: %d transactions in the last minute", windowTx),
			alerts.Warning,
		)
	}
	if windowErrors > s.cfg.ErrorThreshold {
		s.notifier.Dispatch(
			fmt.Sprintf("High error rate: %d errors in the last minute", windowErrors),
			alerts.Critical,
		)
	}

	snap := s.agg.Snapshot()
	s.streams.Transaction("METRICS: accounts=%d, txs=%d, errors=%d, txs/min=%d, errors/min=%d, window=%s",
		snap.AccountCount, snap.TransactionCount, snap.ErrorCount,
		windowTx, windowErrors, elapsed.Round(time.Millisecond))
}
