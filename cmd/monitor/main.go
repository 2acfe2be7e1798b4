package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gagliardetto/solana-go"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/cobotium/program-monitor/internal/alerts"
	"github.com/cobotium/program-monitor/internal/config"
	"github.com/cobotium/program-monitor/internal/logstream"
	"github.com/cobotium/program-monitor/internal/metrics"
	"github.com/cobotium/program-monitor/internal/monitor"
	"github.com/cobotium/program-monitor/internal/scanner"
	"github.com/cobotium/program-monitor/internal/subscriber"
)

func main() {
	configPath := flag.String("config", "config.json", "Path to configuration file")
	envOnly := flag.Bool("env", false, "Configure from environment variables only, ignoring the config file")
	flag.Parse()

	var cfg *config.Config
	var err error
	if *envOnly {
		cfg, err = config.LoadEnv()
	} else {
		cfg, err = config.Load(*configPath)
	}
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Configuration file not found: %v\n\n"+
				"Copy config.example.json to config.json and set your program ID\n"+
				"and RPC endpoint, or run with --env to configure from COBOTIUM_*\n"+
				"environment variables.\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration validation failed: %v\n", err)
		os.Exit(1)
	}

	logger, err := logstream.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	streams, err := logstream.NewStreams(cfg.LogDir, logger)
	if err != nil {
		logger.Error("failed to create log streams", zap.Error(err))
		os.Exit(1)
	}

	var chat alerts.Sink
	if cfg.DiscordWebhook != "" {
		chat = alerts.NewDiscordAlerter(cfg.DiscordWebhook)
		logger.Info("Discord alerts enabled")
	} else {
		chat = &alerts.ConsoleAlerter{}
		logger.Info("Console alerts enabled")
	}

	var email alerts.Sink
	if cfg.MailgunAPIKey != "" {
		email = alerts.NewMailgunAlerter(cfg.MailgunAPIKey, cfg.MailgunDomain, cfg.AlertEmail)
		logger.Info("Email alerts enabled for critical severity", zap.String("recipient", cfg.AlertEmail))
	}

	dispatcher := alerts.NewDispatcher(streams, chat, email)

	program, err := solana.PublicKeyFromBase58(cfg.ProgramID)
	if err != nil {
		fatal(streams, dispatcher, fmt.Errorf("invalid program id %q: %w", cfg.ProgramID, err))
	}

	agg := metrics.New()
	scan := scanner.New(
		scanner.NewRPCReader(cfg.RPCURL, program),
		agg, streams, dispatcher,
		cfg.ProgramID, cfg.AccountGrowthRatio,
	)
	sub := subscriber.New(
		subscriber.NewWSFeed(cfg.WebsocketURL(), program),
		agg, streams, dispatcher,
		cfg.LargeTransferThreshold,
	)

	svc := monitor.New(cfg, streams, agg, scan, sub, dispatcher)

	ctx, cancel := context.WithCancel(context.Background())
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-interrupt
		logger.Info("shutdown signal received")
		cancel()
	}()

	svc.Run(ctx)
}

// fatal reports an unrecoverable startup error and exits non-zero. The
// critical alert is best-effort, the exit is not.
func fatal(streams *logstream.Streams, dispatcher *alerts.Dispatcher, err error) {
	streams.Error("Fatal error: %v", err)
	dispatcher.Dispatch(fmt.Sprintf("Monitoring service error: %v", err), alerts.Critical)
	os.Exit(1)
}
