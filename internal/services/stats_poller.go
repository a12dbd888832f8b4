package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/multiyield-labs/multiyield-engine/internal/db"
	"github.com/multiyield-labs/multiyield-engine/internal/observability/metrics"
	"github.com/multiyield-labs/multiyield-engine/internal/utils/poller"
)

// StartStatsPoller periodically exports protocol state as metrics. It returns the
// poller so callers can stop it before the context ends.
func (s *Service) StartStatsPoller(ctx context.Context) *poller.Poller {
	statsPoller := poller.NewPoller("stats", s.cfg.Metrics.StatsPollingInterval, s.reportStats)
	go statsPoller.Start(ctx)
	return statsPoller
}

func (s *Service) reportStats(ctx context.Context) error {
	if err := s.db.Ping(ctx); err != nil {
		return fmt.Errorf("record store unreachable: %w", err)
	}

	gs, err := s.db.GetGlobalState(ctx)
	if db.IsNotFoundError(err) {
		log.Ctx(ctx).Debug().Msg("protocol not initialized, skipping stats")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load global state: %w", err)
	}

	metrics.RecordProtocolWideVolume(gs.ProtocolWideVolume)
	return nil
}
