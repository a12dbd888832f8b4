// Package stake implements the lifecycle of token, NFT collateral and LP stake
// positions. Every function returns the next state of a position and leaves its
// input alone, so a request can be abandoned at any point before commit.
package stake

import (
	"github.com/multiyield-labs/multiyield-engine/internal/db/model"
	"github.com/multiyield-labs/multiyield-engine/internal/types"
	"github.com/multiyield-labs/multiyield-engine/internal/utils/arith"
	"github.com/multiyield-labs/multiyield-engine/internal/volume"
)

const Day int64 = 24 * 60 * 60

const (
	// claims before this much time has passed pay PenaltyPct to the treasury
	PenaltyWindow = 7 * Day
	PenaltyPct    = 10

	BaseRewardDivisor = 10

	// loyalty multipliers are expressed in tenths
	LoyaltyDenominator = 10
	nftBoostDivisor    = 5

	LPRewardDivisor = 100
)

var loyaltyTiers = []struct {
	minStaked  int64
	multiplier uint64
}{
	{180 * Day, 15},
	{90 * Day, 13},
	{30 * Day, 11},
}

// LoyaltyMultiplier returns the claim multiplier in tenths for a position held timeStaked seconds.
func LoyaltyMultiplier(timeStaked int64) uint64 {
	for _, tier := range loyaltyTiers {
		if timeStaked >= tier.minStaked {
			return tier.multiplier
		}
	}
	return LoyaltyDenominator
}

// PenaltyRate returns the early exit penalty in percent.
func PenaltyRate(timeStaked int64) uint64 {
	if timeStaked < PenaltyWindow {
		return PenaltyPct
	}
	return 0
}

// Stake adds amount to the position. The stake timestamp is anchored to the
// first stake; top-ups keep it.
func Stake(pos model.StakePosition, owner types.Address, amount uint64, autoCompound bool, now int64) (model.StakePosition, error) {
	total, err := arith.CheckedAdd(pos.Amount, amount)
	if err != nil {
		return pos, err
	}
	if pos.IsNew() {
		pos.Owner = owner
		pos.StakeTimestamp = now
	}
	pos.Amount = total
	pos.AutoCompound = autoCompound
	return pos, nil
}

type ClaimResult struct {
	TimeStaked        int64
	BaseReward        uint64
	LoyaltyMultiplier uint64
	LoyaltyReward     uint64
	Boosted           bool
	PenaltyRate       uint64
	TreasuryFee       uint64
	// FinalReward is either minted to the staker or compounded into the position
	FinalReward uint64
	Compounded  bool

	Position model.StakePosition
}

// Claim computes the staking reward for pos at time now. boosted reports whether
// the owner's NFT collateral stake passed its floor check.
func Claim(pos model.StakePosition, boosted bool, now int64) (*ClaimResult, error) {
	res := &ClaimResult{
		TimeStaked: arith.SaturatingSubInt64(now, pos.StakeTimestamp),
		Boosted:    boosted,
	}
	res.PenaltyRate = PenaltyRate(res.TimeStaked)
	res.LoyaltyMultiplier = LoyaltyMultiplier(res.TimeStaked)
	res.BaseReward = pos.Amount / BaseRewardDivisor

	var err error
	if res.LoyaltyReward, err = arith.MulDiv(res.BaseReward, res.LoyaltyMultiplier, LoyaltyDenominator); err != nil {
		return nil, err
	}

	final := res.LoyaltyReward
	if boosted {
		if final, err = arith.CheckedAdd(final, res.LoyaltyReward/nftBoostDivisor); err != nil {
			return nil, err
		}
	}

	if res.TreasuryFee, err = arith.MulDiv(final, res.PenaltyRate, 100); err != nil {
		return nil, err
	}
	res.FinalReward = arith.SaturatingSub(final, res.TreasuryFee)

	res.Position = pos
	if pos.AutoCompound {
		res.Compounded = true
		res.Position.Amount = arith.SaturatingAdd(pos.Amount, res.FinalReward)
	}

	return res, nil
}

// BoostNFT records the collateral asset and grants the boost when the floor price
// clears the threshold. Once boosted a stake stays boosted.
func BoostNFT(nft model.NFTStake, owner, asset types.Address, floorPrice, threshold int64) (model.NFTStake, error) {
	if floorPrice <= threshold {
		return nft, types.NewErrorWithMsg(types.NFTFloorTooLow,
			"floor price %d must exceed %d", floorPrice, threshold)
	}
	nft.Owner = owner
	nft.NFTMint = asset
	nft.Boosted = true
	return nft, nil
}

// StakeLP adds amount to the LP position and recomputes its multiplier from the new total.
func StakeLP(lp model.LPStake, owner types.Address, amount uint64) (model.LPStake, error) {
	total, err := arith.CheckedAdd(lp.LPStaked, amount)
	if err != nil {
		return lp, err
	}
	lp.Owner = owner
	lp.LPStaked = total
	lp.RewardMultiplier = uint8(volume.TierMultiplier(total))
	return lp, nil
}

// ClaimLP returns the LP reward. The staked principal is left as is.
func ClaimLP(lp model.LPStake) (uint64, error) {
	return arith.MulDiv(lp.LPStaked, uint64(lp.RewardMultiplier), LPRewardDivisor)
}
