// Package oracle reads prices from an external feed.
package oracle

import (
	"context"

	"github.com/multiyield-labs/multiyield-engine/internal/config"
)

// PriceData is a single price observation. Price is scaled by 10^Expo.
type PriceData struct {
	Price       int64  `json:"price"`
	Confidence  uint64 `json:"confidence"`
	Expo        int32  `json:"expo"`
	PublishTime int64  `json:"publish_time"`
}

//go:generate mockery --name=PriceOracle --output=../../tests/mocks --outpkg=mocks --filename=mock_price_oracle.go
type PriceOracle interface {
	// GetPrice fails with an ORACLE_ERROR when the feed cannot be loaded or decoded
	GetPrice(ctx context.Context, feedID string) (*PriceData, error)
}

// New returns the gateway described by cfg, instrumented with metrics.
func New(cfg *config.OracleConfig) PriceOracle {
	if cfg.IsStatic() {
		return NewWithMetrics(NewStatic(cfg.StaticPrices))
	}
	return NewWithMetrics(NewHTTPClient(cfg))
}
