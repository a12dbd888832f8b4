package ledger

import (
	"context"
	"time"

	"github.com/multiyield-labs/multiyield-engine/internal/observability/metrics"
	"github.com/multiyield-labs/multiyield-engine/internal/types"
)

type ledgerWithMetrics struct {
	ledger TokenLedger
}

func NewWithMetrics(ledger TokenLedger) *ledgerWithMetrics {
	return &ledgerWithMetrics{ledger: ledger}
}

func (l *ledgerWithMetrics) MintBatch(ctx context.Context, mint types.Address, instructions []Instruction, authority Authority) error {
	return l.run("MintBatch", func() error {
		return l.ledger.MintBatch(ctx, mint, instructions, authority)
	})
}

func (l *ledgerWithMetrics) Transfer(ctx context.Context, source, destination types.Address, amount uint64, owner types.Address) error {
	return l.run("Transfer", func() error {
		return l.ledger.Transfer(ctx, source, destination, amount, owner)
	})
}

func (l *ledgerWithMetrics) run(method string, f func() error) error {
	startTime := time.Now()
	err := f()
	duration := time.Since(startTime)

	metrics.RecordLedgerLatency(duration, method, err != nil)
	return err
}
