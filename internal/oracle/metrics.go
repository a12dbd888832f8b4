package oracle

import (
	"context"
	"time"

	"github.com/multiyield-labs/multiyield-engine/internal/observability/metrics"
)

type oracleWithMetrics struct {
	oracle PriceOracle
}

func NewWithMetrics(oracle PriceOracle) *oracleWithMetrics {
	return &oracleWithMetrics{oracle: oracle}
}

func (o *oracleWithMetrics) GetPrice(ctx context.Context, feedID string) (*PriceData, error) {
	return runOracleMethodWithMetrics("GetPrice", func() (*PriceData, error) {
		return o.oracle.GetPrice(ctx, feedID)
	})
}

func runOracleMethodWithMetrics[T any](method string, f func() (T, error)) (T, error) {
	startTime := time.Now()
	v, err := f()
	duration := time.Since(startTime)

	metrics.RecordOracleClientLatency(duration, method, err != nil)
	return v, err
}
