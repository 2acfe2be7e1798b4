// Package metrics keeps the in-memory counters for the monitored program:
// account count, monotonic transaction/error totals, per-instruction
// counters, and a rolling window used for rate alerts. The aggregator is
// the single owner of this state; events arrive on the subscriber
// goroutine while scans and rollups run on the orchestrator goroutine, so
// every access goes through the mutex.
package metrics

import (
	"sync"
	"time"

	"github.com/cobotium/program-monitor/internal/classify"
)

// Snapshot is a read-only copy of the aggregator state.
type Snapshot struct {
	AccountCount     int
	TransactionCount uint64
	ErrorCount       uint64
	Instructions     map[classify.Instruction]uint64
	WindowTx         uint64
	WindowErrors     uint64
	LastTransaction  time.Time
	StartTime        time.Time
}

// Aggregator owns the metrics state for the process lifetime.
type Aggregator struct {
	mu sync.Mutex

	accountCount     int
	transactionCount uint64
	errorCount       uint64
	instructions     map[classify.Instruction]uint64

	windowTx     uint64
	windowErrors uint64
	windowStart  time.Time

	lastTransaction time.Time
	startTime       time.Time
}

func New() *Aggregator {
	now := time.Now()
	return &Aggregator{
		instructions: make(map[classify.Instruction]uint64),
		windowStart:  now,
		startTime:    now,
	}
}

// RecordEvent counts one received transaction. The transaction total and
// the window counter advance unconditionally; the per-instruction counter
// advances only for the five mutating categories; error counters advance
// when the transaction carried an error payload.
func (a *Aggregator) RecordEvent(inst classify.Instruction, isError bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.transactionCount++
	a.windowTx++
	a.lastTransaction = time.Now()

	if classify.Mutating(inst) {
		a.instructions[inst]++
	}
	if isError {
		a.errorCount++
		a.windowErrors++
	}
}

// RecordError counts a failure outside transaction processing, such as a
// failed account scan.
func (a *Aggregator) RecordError() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.errorCount++
	a.windowErrors++
}

// ScanAccounts replaces the account count and returns the delta along with
// whether a baseline existed. The very first scan establishes the baseline;
// callers must not raise growth alerts without one, so a cold start against
// an already-populated program does not trip a false alarm.
func (a *Aggregator) ScanAccounts(count int) (delta int, hadBaseline bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	old := a.accountCount
	a.accountCount = count
	return count - old, old > 0
}

// Rollup returns the window counters as the per-interval rates and resets
// them. Elapsed is the measured time since the previous rollup; thresholds
// are checked against the raw counters (the original fixed-interval
// approximation) and elapsed is reported for observability only.
func (a *Aggregator) Rollup() (windowTx, windowErrors uint64, elapsed time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := time.Now()
	windowTx = a.windowTx
	windowErrors = a.windowErrors
	elapsed = now.Sub(a.windowStart)

	a.windowTx = 0
	a.windowErrors = 0
	a.windowStart = now
	return windowTx, windowErrors, elapsed
}

// Snapshot copies the current state for the periodic metrics log line.
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	instructions := make(map[classify.Instruction]uint64, len(a.instructions))
	for k, v := range a.instructions {
		instructions[k] = v
	}
	return Snapshot{
		AccountCount:     a.accountCount,
		TransactionCount: a.transactionCount,
		ErrorCount:       a.errorCount,
		Instructions:     instructions,
		WindowTx:         a.windowTx,
		WindowErrors:     a.windowErrors,
		LastTransaction:  a.lastTransaction,
		StartTime:        a.startTime,
	}
}
