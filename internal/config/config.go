// Package config loads the monitor configuration: a JSON file selected on
// the command line, overridden by COBOTIUM_* environment variables.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config for the program monitor.
type Config struct {
	// ProgramID is the base58 address of the Cobotium token program.
	ProgramID string `json:"program_id" env:"COBOTIUM_PROGRAM_ID"`
	// RPCURL is the Solana RPC endpoint. Use a dedicated endpoint in
	// production.
	RPCURL string `json:"rpc_url" env:"COBOTIUM_RPC_URL"`
	// WSURL is the websocket endpoint for log subscriptions. Derived from
	// RPCURL when empty.
	WSURL string `json:"ws_url" env:"COBOTIUM_WS_URL"`

	DiscordWebhook string `json:"discord_webhook" env:"COBOTIUM_DISCORD_WEBHOOK"`
	AlertEmail     string `json:"alert_email" env:"COBOTIUM_ALERT_EMAIL"`
	MailgunAPIKey  string `json:"mailgun_api_key" env:"COBOTIUM_MAILGUN_API_KEY"`
	MailgunDomain  string `json:"mailgun_domain" env:"COBOTIUM_MAILGUN_DOMAIN"`

	LogDir   string `json:"log_dir" env:"COBOTIUM_LOG_DIR"`
	LogLevel string `json:"log_level" env:"COBOTIUM_LOG_LEVEL"`

	// TransactionThreshold alerts when transactions per window exceed it.
	TransactionThreshold uint64 `json:"transaction_threshold" env:"COBOTIUM_TRANSACTION_THRESHOLD"`
	// ErrorThreshold alerts when errors per window exceed it.
	ErrorThreshold uint64 `json:"error_threshold" env:"COBOTIUM_ERROR_THRESHOLD"`
	// LargeTransferThreshold is in base units (1000 tokens at 9 decimals by
	// default).
	LargeTransferThreshold uint64 `json:"large_transfer_threshold" env:"COBOTIUM_LARGE_TRANSFER_THRESHOLD"`
	// AccountGrowthRatio alerts when newCount > oldCount * ratio.
	AccountGrowthRatio float64 `json:"account_growth_ratio" env:"COBOTIUM_ACCOUNT_GROWTH_RATIO"`

	// Intervals are duration strings ("1h", "60s").
	AccountScanInterval string `json:"account_scan_interval" env:"COBOTIUM_ACCOUNT_SCAN_INTERVAL"`
	MetricsInterval     string `json:"metrics_interval" env:"COBOTIUM_METRICS_INTERVAL"`
}

func defaults() Config {
	return Config{
		RPCURL:                 "https://api.mainnet-beta.solana.com",
		LogDir:                 "./logs",
		LogLevel:               "info",
		TransactionThreshold:   100,
		ErrorThreshold:         5,
		LargeTransferThreshold: 1000000000,
		AccountGrowthRatio:     1.1,
		AccountScanInterval:    "1h",
		MetricsInterval:        "1m",
	}
}

// Load reads the JSON config file at path, then applies environment
// overrides. A missing file is an error; use LoadEnv for env-only setups.
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return &cfg, nil
}

// LoadEnv builds a config from defaults and environment variables alone.
func LoadEnv() (*Config, error) {
	cfg := defaults()
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return &cfg, nil
}

// Validate the Config.
func (c *Config) Validate() error {
	if c.ProgramID == "" {
		return errors.New("program_id is required")
	}
	if c.RPCURL == "" {
		return errors.New("rpc_url is required")
	}
	if c.AccountGrowthRatio <= 1.0 {
		return errors.New("account_growth_ratio must be greater than 1.0")
	}
	if _, err := time.ParseDuration(c.AccountScanInterval); err != nil {
		return fmt.Errorf("invalid account_scan_interval: %w", err)
	}
	if _, err := time.ParseDuration(c.MetricsInterval); err != nil {
		return fmt.Errorf("invalid metrics_interval: %w", err)
	}
	if c.MailgunAPIKey != "" && (c.MailgunDomain == "" || c.AlertEmail == "") {
		return errors.New("mailgun_domain and alert_email are required when mailgun_api_key is set")
	}
	return nil
}

// ScanInterval returns the parsed account scan interval. Validate first.
func (c *Config) ScanInterval() time.Duration {
	d, err := time.ParseDuration(c.AccountScanInterval)
	if err != nil {
		return time.Hour
	}
	return d
}

// RollupInterval returns the parsed metrics rollup interval. Validate first.
func (c *Config) RollupInterval() time.Duration {
	d, err := time.ParseDuration(c.MetricsInterval)
	if err != nil {
		return time.Minute
	}
	return d
}

// WebsocketURL returns the configured websocket endpoint, deriving it from
// the RPC endpoint when unset.
func (c *Config) WebsocketURL() string {
	if c.WSURL != "" {
		return c.WSURL
	}
	url := c.RPCURL
	if strings.HasPrefix(url, "https://") {
		return "wss://" + strings.TrimPrefix(url, "https://")
	}
	if strings.HasPrefix(url, "http://") {
		return "ws://" + strings.TrimPrefix(url, "http://")
	}
	return url
}
