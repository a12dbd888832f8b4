package services

import (
	"github.com/multiyield-labs/multiyield-engine/internal/types"
)

type InitializeRequest struct {
	Mint types.Address
	Bump uint8
	// GovernanceAuthority may toggle the approval flag
	GovernanceAuthority types.Address
}

type RewardTradeRequest struct {
	Trader            types.Address
	TraderAccount     types.Address
	TradeAmount       uint64
	TradePrice        uint64
	UniqueTraderCount uint64
}

type StakeTokensRequest struct {
	Staker        types.Address
	StakerAccount types.Address
	Amount        uint64
	AutoCompound  bool
}

type ClaimStakeRewardsRequest struct {
	Staker        types.Address
	RewardAccount types.Address
}

type StakeNFTRequest struct {
	Owner   types.Address
	NFTMint types.Address
}

type StakeLPTokensRequest struct {
	Staker    types.Address
	LPAccount types.Address
	Amount    uint64
}

type ClaimLPRewardsRequest struct {
	Staker        types.Address
	RewardAccount types.Address
}

type UpdateRewardParametersRequest struct {
	Caller        types.Address
	BaseRewardPct uint8
	LPBoostPct    uint8
}

type SetGovernanceApprovalRequest struct {
	Caller     types.Address
	Approved   bool
	TotalVotes uint64
}

type ContributeInsuranceRequest struct {
	Contributor        types.Address
	ContributorAccount types.Address
	Amount             uint64
}
