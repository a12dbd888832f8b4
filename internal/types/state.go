package types

// Enum values for the namespace tag each persisted record kind is derived under
type RecordKind string

const (
	KindGlobalState  RecordKind = "global_state"
	KindGovernance   RecordKind = "governance"
	KindTraderVolume RecordKind = "volume"
	KindStake        RecordKind = "stake"
	KindNFTStake     RecordKind = "nft_stake"
	KindLPStake      RecordKind = "lp_stake"
)

func (k RecordKind) String() string {
	return string(k)
}

// RecordKey returns the storage key of the record of the given kind owned by owner.
// Two principals never share a key and the same principal always maps to the same key.
func RecordKey(kind RecordKind, owner Address) string {
	return DeriveAddress(kind.String(), owner[:]).Hex()
}

// SingletonKey returns the storage key of a deployment-wide record.
func SingletonKey(kind RecordKind) string {
	return DeriveAddress(kind.String()).Hex()
}

// Enum values for the operations exposed by the protocol
type Operation string

const (
	OpInitialize            Operation = "initialize"
	OpRewardTrade           Operation = "reward_trade"
	OpStakeTokens           Operation = "stake_tokens"
	OpClaimStakeRewards     Operation = "claim_stake_rewards"
	OpStakeNFT              Operation = "stake_nft"
	OpStakeLPTokens         Operation = "stake_lp_tokens"
	OpClaimLPRewards        Operation = "claim_lp_rewards"
	OpUpdateParameters      Operation = "update_reward_parameters"
	OpSetApproval           Operation = "set_governance_approval"
	OpInsuranceContribution Operation = "insurance_pool_contribution"
)

func (o Operation) String() string {
	return string(o)
}
