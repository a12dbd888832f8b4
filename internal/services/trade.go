package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/multiyield-labs/multiyield-engine/internal/engine"
	"github.com/multiyield-labs/multiyield-engine/internal/observability/metrics"
	"github.com/multiyield-labs/multiyield-engine/internal/queue"
	"github.com/multiyield-labs/multiyield-engine/internal/types"
)

// RewardTrade validates a trade against the price feed and the trader's history and
// mints the reward. The insurance pool receives a tenth of it when configured.
func (s *Service) RewardTrade(ctx context.Context, req RewardTradeRequest) (*engine.TradeReward, *types.Error) {
	return runOperation(ctx, types.OpRewardTrade, req.Trader,
		func(ctx context.Context) (*engine.TradeReward, *types.Error) {
			now := s.clock()

			if err := engine.CheckUniqueTraders(s.params, req.UniqueTraderCount); err != nil {
				return nil, asError(err, "failed to check unique traders")
			}

			gs, err := s.loadGlobalState(ctx)
			if err != nil {
				return nil, err
			}

			tv, dbErr := s.db.LoadOrCreateTraderVolume(ctx, req.Trader)
			if dbErr != nil {
				return nil, asError(dbErr, "failed to load trader volume")
			}
			if err := checkOwner(tv.Trader, req.Trader); err != nil {
				return nil, err
			}

			oraclePrice, err := s.getUnsignedPrice(ctx, s.cfg.Engine.TradePriceFeed)
			if err != nil {
				return nil, err
			}

			reward, evalErr := engine.EvaluateTradeReward(
				s.params,
				engine.TradeInput{
					TradeAmount:       req.TradeAmount,
					TradePrice:        req.TradePrice,
					UniqueTraderCount: req.UniqueTraderCount,
				},
				oraclePrice,
				tv,
				gs.ProtocolWideVolume,
				now,
				!s.dest.InsurancePool.IsZero(),
			)
			if evalErr != nil {
				return nil, asError(evalErr, "failed to evaluate trade reward")
			}

			previous := snapshot(tv, gs)
			*tv = reward.TraderVolume
			gs.ProtocolWideVolume = reward.ProtocolWideVolume
			if err := s.commit(ctx, tv, gs); err != nil {
				return nil, err
			}

			mints := []mint{
				{destination: s.dest.InsurancePool, kind: queue.DestinationInsurance, amount: reward.FeeToInsurance},
				{destination: req.TraderAccount, kind: queue.DestinationTrader, amount: reward.RewardToTrader},
			}
			if err := s.issue(ctx, gs, mints); err != nil {
				return nil, s.revert(ctx, previous, err)
			}

			metrics.RecordProtocolWideVolume(gs.ProtocolWideVolume)
			log.Ctx(ctx).Info().
				Uint64("trade_amount", req.TradeAmount).
				Uint64("multiplier", reward.TierMultiplier*reward.ProtocolMultiplier).
				Uint64("reward_to_trader", reward.RewardToTrader).
				Uint64("fee_to_insurance", reward.FeeToInsurance).
				Msg("trade rewarded")

			s.publish(ctx, types.OpRewardTrade, req.Trader, gs, mints, now)
			return reward, nil
		})
}
