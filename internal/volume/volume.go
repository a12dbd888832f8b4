// Package volume tracks cumulative trade volume per trader and across the protocol.
package volume

import (
	"github.com/multiyield-labs/multiyield-engine/internal/db/model"
	"github.com/multiyield-labs/multiyield-engine/internal/types"
	"github.com/multiyield-labs/multiyield-engine/internal/utils/arith"
)

const (
	HighTierVolume = 1_000_000
	MidTierVolume  = 100_000

	HighTierMultiplier = 5
	MidTierMultiplier  = 2
	BaseMultiplier     = 1

	// ProtocolBoostVolume is the aggregate volume above which every reward doubles
	ProtocolBoostVolume     = 1_000_000_000
	ProtocolBoostMultiplier = 2
)

// TierMultiplier maps a cumulative amount to its reward factor.
// The same tiers apply to trader volume and to LP stakes.
func TierMultiplier(cumulative uint64) uint64 {
	switch {
	case cumulative > HighTierVolume:
		return HighTierMultiplier
	case cumulative > MidTierVolume:
		return MidTierMultiplier
	default:
		return BaseMultiplier
	}
}

// ProtocolMultiplier is the dynamic adjustment driven by protocol-wide volume.
func ProtocolMultiplier(protocolWideVolume uint64) uint64 {
	if protocolWideVolume > ProtocolBoostVolume {
		return ProtocolBoostMultiplier
	}
	return BaseMultiplier
}

// CheckHoldWindow rejects a trade unless the trader's previous trade is more than
// minHold seconds in the past. Only the trader's own record is consulted.
func CheckHoldWindow(tv *model.TraderVolume, now, minHold int64) error {
	allowedAfter, err := arith.CheckedAddInt64(tv.LastTradeTime, minHold)
	if err != nil {
		return err
	}
	if allowedAfter >= now {
		return types.NewErrorWithMsg(types.FlashLoanDetected,
			"last trade at %d, next trade allowed after %d, now %d", tv.LastTradeTime, allowedAfter, now)
	}
	return nil
}

// Record returns a copy of tv with the trade accounted for. Volume saturates.
func Record(tv model.TraderVolume, amount uint64, now int64) model.TraderVolume {
	tv.TotalVolume = arith.SaturatingAdd(tv.TotalVolume, amount)
	tv.LastTradeTime = now
	return tv
}

// AddProtocolVolume returns the saturated aggregate after a trade of amount.
func AddProtocolVolume(protocolWideVolume, amount uint64) uint64 {
	return arith.SaturatingAdd(protocolWideVolume, amount)
}
