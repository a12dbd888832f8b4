package db

import (
	"context"
	"time"

	"github.com/multiyield-labs/multiyield-engine/internal/db/model"
	"github.com/multiyield-labs/multiyield-engine/internal/observability/metrics"
	"github.com/multiyield-labs/multiyield-engine/internal/types"
)

type DbWithMetrics struct {
	db DbInterface
}

func NewDbWithMetrics(db DbInterface) *DbWithMetrics {
	return &DbWithMetrics{db: db}
}

func (d *DbWithMetrics) Ping(ctx context.Context) error {
	return d.db.Ping(ctx)
}

func (d *DbWithMetrics) GetGlobalState(ctx context.Context) (result *model.GlobalState, err error) {
	//nolint:errcheck
	d.run("GetGlobalState", func() error {
		result, err = d.db.GetGlobalState(ctx)
		return err
	})
	return
}

func (d *DbWithMetrics) GetGovernance(ctx context.Context) (result *model.Governance, err error) {
	//nolint:errcheck
	d.run("GetGovernance", func() error {
		result, err = d.db.GetGovernance(ctx)
		return err
	})
	return
}

func (d *DbWithMetrics) LoadOrCreateTraderVolume(ctx context.Context, trader types.Address) (result *model.TraderVolume, err error) {
	//nolint:errcheck
	d.run("LoadOrCreateTraderVolume", func() error {
		result, err = d.db.LoadOrCreateTraderVolume(ctx, trader)
		return err
	})
	return
}

func (d *DbWithMetrics) LoadOrCreateStakePosition(ctx context.Context, owner types.Address) (result *model.StakePosition, err error) {
	//nolint:errcheck
	d.run("LoadOrCreateStakePosition", func() error {
		result, err = d.db.LoadOrCreateStakePosition(ctx, owner)
		return err
	})
	return
}

func (d *DbWithMetrics) LoadOrCreateNFTStake(ctx context.Context, owner types.Address) (result *model.NFTStake, err error) {
	//nolint:errcheck
	d.run("LoadOrCreateNFTStake", func() error {
		result, err = d.db.LoadOrCreateNFTStake(ctx, owner)
		return err
	})
	return
}

func (d *DbWithMetrics) LoadOrCreateLPStake(ctx context.Context, owner types.Address) (result *model.LPStake, err error) {
	//nolint:errcheck
	d.run("LoadOrCreateLPStake", func() error {
		result, err = d.db.LoadOrCreateLPStake(ctx, owner)
		return err
	})
	return
}

func (d *DbWithMetrics) Commit(ctx context.Context, records ...model.Record) error {
	return d.run("Commit", func() error {
		return d.db.Commit(ctx, records...)
	})
}

func (d *DbWithMetrics) Revert(ctx context.Context, previous ...model.Record) error {
	return d.run("Revert", func() error {
		return d.db.Revert(ctx, previous...)
	})
}

// run is private method that executes passed lambda function and send metrics data with spent time, method name
// and an error if any. It returns the error from the lambda function for convenience
func (d *DbWithMetrics) run(method string, f func() error) error {
	startTime := time.Now()
	err := f()
	duration := time.Since(startTime)

	metrics.RecordDbLatency(duration, method, err != nil)
	return err
}
