package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaultsAndOverrides(t *testing.T) {
	path := writeConfig(t, `{
		"program_id": "CobotiumProgram1111111111111111111111111111",
		"transaction_threshold": 250
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "CobotiumProgram1111111111111111111111111111", cfg.ProgramID)
	assert.Equal(t, uint64(250), cfg.TransactionThreshold)
	// Defaults survive a partial file.
	assert.Equal(t, "https://api.mainnet-beta.solana.com", cfg.RPCURL)
	assert.Equal(t, uint64(5), cfg.ErrorThreshold)
	assert.Equal(t, uint64(1000000000), cfg.LargeTransferThreshold)
	assert.Equal(t, time.Hour, cfg.ScanInterval())
	assert.Equal(t, time.Minute, cfg.RollupInterval())
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `{"program_id": "fromfile", "rpc_url": "https://rpc.example"}`)

	t.Setenv("COBOTIUM_PROGRAM_ID", "fromenv")
	t.Setenv("COBOTIUM_ERROR_THRESHOLD", "9")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "fromenv", cfg.ProgramID)
	assert.Equal(t, uint64(9), cfg.ErrorThreshold)
	assert.Equal(t, "https://rpc.example", cfg.RPCURL)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing program id",
			mutate:  func(c *Config) { c.ProgramID = "" },
			wantErr: "program_id is required",
		},
		{
			name:    "missing rpc url",
			mutate:  func(c *Config) { c.RPCURL = "" },
			wantErr: "rpc_url is required",
		},
		{
			name:    "growth ratio at or below one",
			mutate:  func(c *Config) { c.AccountGrowthRatio = 1.0 },
			wantErr: "account_growth_ratio",
		},
		{
			name:    "bad scan interval",
			mutate:  func(c *Config) { c.AccountScanInterval = "often" },
			wantErr: "account_scan_interval",
		},
		{
			name:    "mailgun key without domain",
			mutate:  func(c *Config) { c.MailgunAPIKey = "key-123" },
			wantErr: "mailgun_domain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			cfg.ProgramID = "CobotiumProgram1111111111111111111111111111"
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestWebsocketURLDerivation(t *testing.T) {
	cfg := defaults()
	assert.Equal(t, "wss://api.mainnet-beta.solana.com", cfg.WebsocketURL())

	cfg.RPCURL = "http://localhost:8899"
	assert.Equal(t, "ws://localhost:8899", cfg.WebsocketURL())

	cfg.WSURL = "wss://explicit.example"
	assert.Equal(t, "wss://explicit.example", cfg.WebsocketURL())
}
