package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/multiyield-labs/multiyield-engine/internal/db/model"
	"github.com/multiyield-labs/multiyield-engine/internal/queue"
	"github.com/multiyield-labs/multiyield-engine/internal/stake"
	"github.com/multiyield-labs/multiyield-engine/internal/types"
)

// StakeTokens moves tokens into the staking pool and grows the caller's position.
func (s *Service) StakeTokens(ctx context.Context, req StakeTokensRequest) (*model.StakePosition, *types.Error) {
	return runOperation(ctx, types.OpStakeTokens, req.Staker,
		func(ctx context.Context) (*model.StakePosition, *types.Error) {
			now := s.clock()

			pos, dbErr := s.db.LoadOrCreateStakePosition(ctx, req.Staker)
			if dbErr != nil {
				return nil, asError(dbErr, "failed to load stake position")
			}
			if err := checkOwner(pos.Owner, req.Staker); err != nil {
				return nil, err
			}

			next, stakeErr := stake.Stake(*pos, req.Staker, req.Amount, req.AutoCompound, now)
			if stakeErr != nil {
				return nil, asError(stakeErr, "failed to stake")
			}

			previous := snapshot(pos)
			*pos = next
			if err := s.commit(ctx, pos); err != nil {
				return nil, err
			}

			if err := s.ledger.Transfer(ctx, req.StakerAccount, s.dest.StakingPool, req.Amount, req.Staker); err != nil {
				return nil, s.revert(ctx, previous, asError(err, "failed to transfer stake"))
			}

			log.Ctx(ctx).Info().
				Uint64("amount", req.Amount).
				Uint64("staked", pos.Amount).
				Bool("auto_compound", pos.AutoCompound).
				Msg("tokens staked")
			return pos, nil
		})
}

// ClaimStakeRewards pays out or compounds the loyalty adjusted staking reward.
// Early claims send the penalty to the DAO treasury.
func (s *Service) ClaimStakeRewards(ctx context.Context, req ClaimStakeRewardsRequest) (*stake.ClaimResult, *types.Error) {
	return runOperation(ctx, types.OpClaimStakeRewards, req.Staker,
		func(ctx context.Context) (*stake.ClaimResult, *types.Error) {
			now := s.clock()

			gs, err := s.loadGlobalState(ctx)
			if err != nil {
				return nil, err
			}

			pos, dbErr := s.db.LoadOrCreateStakePosition(ctx, req.Staker)
			if dbErr != nil {
				return nil, asError(dbErr, "failed to load stake position")
			}
			if pos.IsNew() {
				return nil, types.NewErrorWithMsg(types.InvalidArgument, "%s has no stake position", req.Staker)
			}
			if err := checkOwner(pos.Owner, req.Staker); err != nil {
				return nil, err
			}

			nft, dbErr := s.db.LoadOrCreateNFTStake(ctx, req.Staker)
			if dbErr != nil {
				return nil, asError(dbErr, "failed to load nft stake")
			}
			boosted := !nft.IsNew() && nft.Owner == req.Staker && nft.Boosted

			res, claimErr := stake.Claim(*pos, boosted, now)
			if claimErr != nil {
				return nil, asError(claimErr, "failed to compute stake rewards")
			}

			mints := []mint{
				{destination: s.dest.DAOTreasury, kind: queue.DestinationTreasury, amount: res.TreasuryFee},
			}
			if !res.Compounded {
				mints = append(mints, mint{destination: req.RewardAccount, kind: queue.DestinationStaker, amount: res.FinalReward})
			}

			// the position is committed even when unchanged so a concurrent claim fails as stale
			previous := snapshot(pos)
			*pos = res.Position
			if err := s.commit(ctx, pos); err != nil {
				return nil, err
			}

			if err := s.issue(ctx, gs, mints); err != nil {
				return nil, s.revert(ctx, previous, err)
			}

			log.Ctx(ctx).Info().
				Int64("time_staked", res.TimeStaked).
				Uint64("final_reward", res.FinalReward).
				Uint64("treasury_fee", res.TreasuryFee).
				Bool("compounded", res.Compounded).
				Bool("boosted", res.Boosted).
				Msg("stake rewards claimed")

			s.publish(ctx, types.OpClaimStakeRewards, req.Staker, gs, mints, now)
			return res, nil
		})
}

// StakeNFT boosts the caller's future stake claims once the collateral floor price clears the threshold.
func (s *Service) StakeNFT(ctx context.Context, req StakeNFTRequest) (*model.NFTStake, *types.Error) {
	return runOperation(ctx, types.OpStakeNFT, req.Owner,
		func(ctx context.Context) (*model.NFTStake, *types.Error) {
			nft, dbErr := s.db.LoadOrCreateNFTStake(ctx, req.Owner)
			if dbErr != nil {
				return nil, asError(dbErr, "failed to load nft stake")
			}
			if !nft.IsNew() {
				return nil, types.NewErrorWithMsg(types.AlreadyInitialized, "%s already staked an nft", req.Owner)
			}

			floor, err := s.getPrice(ctx, s.cfg.Engine.NFTFloorFeed)
			if err != nil {
				return nil, err
			}

			next, boostErr := stake.BoostNFT(*nft, req.Owner, req.NFTMint, floor, s.cfg.Engine.NFTFloorThreshold)
			if boostErr != nil {
				return nil, asError(boostErr, "failed to boost nft stake")
			}

			*nft = next
			if err := s.commit(ctx, nft); err != nil {
				return nil, err
			}

			log.Ctx(ctx).Info().
				Stringer("nft_mint", req.NFTMint).
				Int64("floor_price", floor).
				Msg("nft staked")
			return nft, nil
		})
}

// StakeLPTokens moves LP tokens into the LP pool and recomputes the position's multiplier.
func (s *Service) StakeLPTokens(ctx context.Context, req StakeLPTokensRequest) (*model.LPStake, *types.Error) {
	return runOperation(ctx, types.OpStakeLPTokens, req.Staker,
		func(ctx context.Context) (*model.LPStake, *types.Error) {
			lp, dbErr := s.db.LoadOrCreateLPStake(ctx, req.Staker)
			if dbErr != nil {
				return nil, asError(dbErr, "failed to load lp stake")
			}
			if err := checkOwner(lp.Owner, req.Staker); err != nil {
				return nil, err
			}

			next, stakeErr := stake.StakeLP(*lp, req.Staker, req.Amount)
			if stakeErr != nil {
				return nil, asError(stakeErr, "failed to stake lp tokens")
			}

			previous := snapshot(lp)
			*lp = next
			if err := s.commit(ctx, lp); err != nil {
				return nil, err
			}

			if err := s.ledger.Transfer(ctx, req.LPAccount, s.dest.LPStakingPool, req.Amount, req.Staker); err != nil {
				return nil, s.revert(ctx, previous, asError(err, "failed to transfer lp tokens"))
			}

			log.Ctx(ctx).Info().
				Uint64("amount", req.Amount).
				Uint64("lp_staked", lp.LPStaked).
				Uint8("multiplier", lp.RewardMultiplier).
				Msg("lp tokens staked")
			return lp, nil
		})
}

// ClaimLPRewards mints the LP reward. The staked principal is not reduced.
func (s *Service) ClaimLPRewards(ctx context.Context, req ClaimLPRewardsRequest) (uint64, *types.Error) {
	return runOperation(ctx, types.OpClaimLPRewards, req.Staker,
		func(ctx context.Context) (uint64, *types.Error) {
			now := s.clock()

			gs, err := s.loadGlobalState(ctx)
			if err != nil {
				return 0, err
			}

			lp, dbErr := s.db.LoadOrCreateLPStake(ctx, req.Staker)
			if dbErr != nil {
				return 0, asError(dbErr, "failed to load lp stake")
			}
			if lp.IsNew() {
				return 0, types.NewErrorWithMsg(types.InvalidArgument, "%s has no lp stake", req.Staker)
			}
			if err := checkOwner(lp.Owner, req.Staker); err != nil {
				return 0, err
			}

			reward, claimErr := stake.ClaimLP(*lp)
			if claimErr != nil {
				return 0, asError(claimErr, "failed to compute lp rewards")
			}

			mints := []mint{{destination: req.RewardAccount, kind: queue.DestinationLP, amount: reward}}
			if err := s.issue(ctx, gs, mints); err != nil {
				return 0, err
			}

			log.Ctx(ctx).Info().
				Uint64("lp_staked", lp.LPStaked).
				Uint64("reward", reward).
				Msg("lp rewards claimed")

			s.publish(ctx, types.OpClaimLPRewards, req.Staker, gs, mints, now)
			return reward, nil
		})
}
