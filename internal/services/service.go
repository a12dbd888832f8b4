package services

import (
	"context"
	"fmt"
	"time"

	"github.com/multiyield-labs/multiyield-engine/internal/config"
	"github.com/multiyield-labs/multiyield-engine/internal/db"
	"github.com/multiyield-labs/multiyield-engine/internal/engine"
	"github.com/multiyield-labs/multiyield-engine/internal/governance"
	"github.com/multiyield-labs/multiyield-engine/internal/ledger"
	"github.com/multiyield-labs/multiyield-engine/internal/oracle"
	"github.com/multiyield-labs/multiyield-engine/internal/queue"
)

// Service runs every protocol request as a single unit: load the records it
// touches, validate, compute, call the ledger and finally commit.
type Service struct {
	cfg       *config.Config
	db        db.DbInterface
	oracle    oracle.PriceOracle
	ledger    ledger.TokenLedger
	publisher queue.EventPublisher

	dest   config.Destinations
	params engine.Params
	limits governance.Limits
	clock  func() int64
}

func NewService(
	cfg *config.Config,
	db db.DbInterface,
	oracle oracle.PriceOracle,
	ledger ledger.TokenLedger,
	publisher queue.EventPublisher,
) (*Service, error) {
	dest, err := cfg.Engine.Destinations()
	if err != nil {
		return nil, fmt.Errorf("invalid engine destinations: %w", err)
	}
	if publisher == nil {
		publisher = queue.NoopPublisher{}
	}

	return &Service{
		cfg:       cfg,
		db:        db,
		oracle:    oracle,
		ledger:    ledger,
		publisher: publisher,
		dest:      dest,
		params: engine.Params{
			MinUniqueTraders: cfg.Engine.MinUniqueTraders,
			MinHoldSeconds:   cfg.Engine.MinHoldSeconds,
			PriceBandDivisor: cfg.Engine.PriceBandDivisor,
		},
		limits: governance.Limits{
			MaxBaseRewardPct: cfg.Engine.MaxBaseRewardPct,
			MaxLPBoostPct:    cfg.Engine.MaxLPBoostPct,
		},
		clock: func() int64 { return time.Now().Unix() },
	}, nil
}

// WithClock replaces the source of the current unix time.
func (s *Service) WithClock(clock func() int64) *Service {
	s.clock = clock
	return s
}

func (s *Service) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
