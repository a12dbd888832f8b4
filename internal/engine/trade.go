// Package engine turns observed trading activity into validated mint amounts.
// Nothing in this package touches storage or the ledger.
package engine

import (
	"github.com/multiyield-labs/multiyield-engine/internal/db/model"
	"github.com/multiyield-labs/multiyield-engine/internal/types"
	"github.com/multiyield-labs/multiyield-engine/internal/utils/arith"
	"github.com/multiyield-labs/multiyield-engine/internal/volume"
)

const (
	// RewardDivisor scales trade amount times multiplier down to the minted reward
	RewardDivisor = 1000
	// InsuranceFeeDivisor diverts a tenth of the reward when an insurance pool exists
	InsuranceFeeDivisor = 10
)

type Params struct {
	MinUniqueTraders uint64
	MinHoldSeconds   int64
	PriceBandDivisor uint64
}

func DefaultParams() Params {
	return Params{
		MinUniqueTraders: 5,
		MinHoldSeconds:   60,
		PriceBandDivisor: 20,
	}
}

type TradeInput struct {
	TradeAmount       uint64
	TradePrice        uint64
	UniqueTraderCount uint64
}

// TradeReward is the outcome of an accepted trade. The volume values are the
// post-trade state; callers persist them only if the whole request succeeds.
type TradeReward struct {
	RewardAmount       uint64
	RewardToTrader     uint64
	FeeToInsurance     uint64
	TierMultiplier     uint64
	ProtocolMultiplier uint64

	TraderVolume       model.TraderVolume
	ProtocolWideVolume uint64
}

// EvaluateTradeReward validates a trade against the oracle price and the trader's
// history and computes the reward split. Inputs are never mutated.
func EvaluateTradeReward(
	p Params,
	in TradeInput,
	oraclePrice uint64,
	tv *model.TraderVolume,
	protocolWideVolume uint64,
	now int64,
	insuranceConfigured bool,
) (*TradeReward, error) {
	if err := CheckUniqueTraders(p, in.UniqueTraderCount); err != nil {
		return nil, err
	}

	if err := CheckPriceBand(in.TradePrice, oraclePrice, p.PriceBandDivisor); err != nil {
		return nil, err
	}

	if err := volume.CheckHoldWindow(tv, now, p.MinHoldSeconds); err != nil {
		return nil, err
	}

	updated := volume.Record(*tv, in.TradeAmount, now)

	tier := volume.TierMultiplier(updated.TotalVolume)
	protocol := volume.ProtocolMultiplier(protocolWideVolume)
	multiplier, err := arith.CheckedMul(tier, protocol)
	if err != nil {
		return nil, err
	}

	reward, err := arith.MulDiv(in.TradeAmount, multiplier, RewardDivisor)
	if err != nil {
		return nil, err
	}

	res := &TradeReward{
		RewardAmount:       reward,
		RewardToTrader:     reward,
		TierMultiplier:     tier,
		ProtocolMultiplier: protocol,
		TraderVolume:       updated,
		ProtocolWideVolume: volume.AddProtocolVolume(protocolWideVolume, in.TradeAmount),
	}

	if insuranceConfigured {
		res.FeeToInsurance = reward / InsuranceFeeDivisor
		if res.RewardToTrader, err = arith.CheckedSub(reward, res.FeeToInsurance); err != nil {
			return nil, err
		}
	}

	return res, nil
}

// CheckUniqueTraders needs no external input, so callers may run it before any lookup.
func CheckUniqueTraders(p Params, count uint64) error {
	if count < p.MinUniqueTraders {
		return types.NewErrorWithMsg(types.InsufficientUniqueTraders,
			"%d unique traders, at least %d required", count, p.MinUniqueTraders)
	}
	return nil
}

// CheckPriceBand accepts price within oracle ± oracle/divisor, bounds inclusive.
// A zero oracle price has no band.
func CheckPriceBand(price, oraclePrice, divisor uint64) error {
	if oraclePrice == 0 {
		return types.NewErrorWithMsg(types.NegativePrice, "oracle price is not positive")
	}
	band, err := arith.CheckedDiv(oraclePrice, divisor)
	if err != nil {
		return err
	}
	lower, err := arith.CheckedSub(oraclePrice, band)
	if err != nil {
		return err
	}
	upper, err := arith.CheckedAdd(oraclePrice, band)
	if err != nil {
		return err
	}
	if price < lower || price > upper {
		return types.NewErrorWithMsg(types.InvalidTradePrice,
			"trade price %d outside oracle band [%d, %d]", price, lower, upper)
	}
	return nil
}
