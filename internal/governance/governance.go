// Package governance gates changes to the economic parameters on an approval
// flag set by an external voting process.
package governance

import (
	"github.com/multiyield-labs/multiyield-engine/internal/db/model"
	"github.com/multiyield-labs/multiyield-engine/internal/types"
)

type Limits struct {
	MaxBaseRewardPct uint8
	MaxLPBoostPct    uint8
}

func DefaultLimits() Limits {
	return Limits{
		MaxBaseRewardPct: 50,
		MaxLPBoostPct:    10,
	}
}

// UpdateParameters returns gov with the new percentages. Ranges are checked
// before the approval flag.
func UpdateParameters(gov model.Governance, limits Limits, baseRewardPct, lpBoostPct uint8) (model.Governance, error) {
	if baseRewardPct > limits.MaxBaseRewardPct {
		return gov, types.NewErrorWithMsg(types.InvalidRewardParameters,
			"base reward %d%% exceeds %d%%", baseRewardPct, limits.MaxBaseRewardPct)
	}
	if lpBoostPct > limits.MaxLPBoostPct {
		return gov, types.NewErrorWithMsg(types.InvalidRewardParameters,
			"lp boost %d%% exceeds %d%%", lpBoostPct, limits.MaxLPBoostPct)
	}
	if !gov.DAOApproved {
		return gov, types.NewErrorWithMsg(types.GovernanceNotApproved, "parameter change has not been approved")
	}

	gov.RewardPercentage = baseRewardPct
	gov.LPBoost = lpBoostPct
	return gov, nil
}

// SetApproval records the outcome of a vote. Only the governance authority may call it.
func SetApproval(gov model.Governance, caller types.Address, approved bool, votes uint64) (model.Governance, error) {
	if caller != gov.Authority {
		return gov, types.NewErrorWithMsg(types.OwnerMismatch,
			"%s is not the governance authority", caller)
	}
	gov.DAOApproved = approved
	gov.TotalVotes = votes
	return gov, nil
}
