// Package scanner periodically fetches the full set of Cobotium program
// accounts, feeds the count to the metrics aggregator, and raises a
// warning when the account set grows faster than the configured ratio.
package scanner

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"golang.org/x/time/rate"

	"github.com/cobotium/program-monitor/internal/alerts"
	"github.com/cobotium/program-monitor/internal/logstream"
	"github.com/cobotium/program-monitor/internal/metrics"
)

const rpcTimeout = 10 * time.Second

// AccountReader fetches the raw data of every account owned by the
// monitored program.
type AccountReader interface {
	ProgramAccounts(ctx context.Context) ([][]byte, error)
}

// Notifier dispatches an alert.
type Notifier interface {
	Dispatch(message string, level alerts.Level)
}

// RPCReader reads program accounts over a rate-limited Solana RPC client.
type RPCReader struct {
	client  *rpc.Client
	program solana.PublicKey
}

func NewRPCReader(rpcURL string, program solana.PublicKey) *RPCReader {
	client := rpc.NewWithCustomRPCClient(rpc.NewWithLimiter(
		rpcURL,
		rate.Every(time.Second/4),
		1,
	))
	return &RPCReader{client: client, program: program}
}

func (r *RPCReader) ProgramAccounts(ctx context.Context) ([][]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, rpcTimeout)
	defer cancel()

	out, err := r.client.GetProgramAccounts(ctx, r.program)
	if err != nil {
		return nil, err
	}

	accounts := make([][]byte, 0, len(out))
	for _, acc := range out {
		if acc.Account == nil || acc.Account.Data == nil {
			continue
		}
		accounts = append(accounts, acc.Account.Data.GetBinary())
	}
	return accounts, nil
}

// Scanner runs the periodic account scan.
type Scanner struct {
	reader      AccountReader
	agg         *metrics.Aggregator
	streams     *logstream.Streams
	notifier    Notifier
	programID   string
	growthRatio float64
}

func New(reader AccountReader, agg *metrics.Aggregator, streams *logstream.Streams, notifier Notifier, programID string, growthRatio float64) *Scanner {
	return &Scanner{
		reader:      reader,
		agg:         agg,
		streams:     streams,
		notifier:    notifier,
		programID:   programID,
		growthRatio: growthRatio,
	}
}

// Scan fetches the account set once. Failures are logged and counted; the
// next scheduled tick is the retry.
func (s *Scanner) Scan(ctx context.Context) {
	s.streams.Transaction("Scanning program accounts...")

	accounts, err := s.reader.ProgramAccounts(ctx)
	if err != nil {
		s.streams.Error("Error scanning accounts: %v", err)
		s.agg.RecordError()
		return
	}

	delta, hadBaseline := s.agg.ScanAccounts(len(accounts))

	sum := summarize(accounts)
	s.streams.Transaction("Found %d accounts for program %s (mints=%d, token_accounts=%d, frozen=%d, supply=%d)",
		len(accounts), s.programID, sum.Mints, sum.TokenAccounts, sum.Frozen, sum.TotalSupply)
	if sum.Undecodable > 0 {
		s.streams.Error("Failed to decode %d program accounts", sum.Undecodable)
	}

	if hadBaseline && delta > 0 {
		oldCount := len(accounts) - delta
		if float64(len(accounts)) > float64(oldCount)*s.growthRatio {
			pct := float64(delta) / float64(oldCount) * 100
			s.notifier.Dispatch(
				fmt.Sprintf("Account count increased by %d (%.2f%%)", delta, pct),
				alerts.Warning,
			)
		}
	}
}
