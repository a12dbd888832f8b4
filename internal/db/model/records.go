package model

import (
	"github.com/multiyield-labs/multiyield-engine/internal/types"
)

const (
	GlobalStateCollection  = "global_state"
	GovernanceCollection   = "governance"
	TraderVolumeCollection = "trader_volume"
	StakeCollection        = "stake_position"
	NFTStakeCollection     = "nft_stake"
	LPStakeCollection      = "lp_stake"
)

// Record is implemented by every persisted document. Version is the optimistic
// concurrency token: zero means the record has never been committed.
type Record interface {
	CollectionName() string
	Key() string
	GetVersion() int64
	SetVersion(version int64)
	Clone() Record
}

// RecordMeta carries the derived key and version of a record.
type RecordMeta struct {
	ID      string `bson:"_id"`
	Version int64  `bson:"version"`
}

func (m *RecordMeta) Key() string {
	return m.ID
}

func (m *RecordMeta) GetVersion() int64 {
	return m.Version
}

func (m *RecordMeta) SetVersion(version int64) {
	m.Version = version
}

// IsNew reports whether the record was created for the current request.
func (m *RecordMeta) IsNew() bool {
	return m.Version == 0
}

// GlobalState is the deployment singleton.
type GlobalState struct {
	RecordMeta         `bson:",inline"`
	Mint               types.Address `bson:"mint"`
	Bump               uint8         `bson:"bump"`
	ProtocolWideVolume uint64        `bson:"protocol_wide_volume"`
}

func NewGlobalState(mint types.Address, bump uint8) *GlobalState {
	return &GlobalState{
		RecordMeta: RecordMeta{ID: types.SingletonKey(types.KindGlobalState)},
		Mint:       mint,
		Bump:       bump,
	}
}

func (g *GlobalState) CollectionName() string { return GlobalStateCollection }

func (g *GlobalState) Clone() Record {
	c := *g
	return &c
}

// Governance holds the adjustable economic parameters.
type Governance struct {
	RecordMeta       `bson:",inline"`
	Authority        types.Address `bson:"authority"`
	TotalVotes       uint64        `bson:"total_votes"`
	RewardPercentage uint8         `bson:"reward_percentage"`
	LPBoost          uint8         `bson:"lp_boost"`
	DAOApproved      bool          `bson:"dao_approved"`
}

func NewGovernance(authority types.Address) *Governance {
	return &Governance{
		RecordMeta: RecordMeta{ID: types.SingletonKey(types.KindGovernance)},
		Authority:  authority,
	}
}

func (g *Governance) CollectionName() string { return GovernanceCollection }

func (g *Governance) Clone() Record {
	c := *g
	return &c
}

type TraderVolume struct {
	RecordMeta    `bson:",inline"`
	Trader        types.Address `bson:"owner"`
	TotalVolume   uint64        `bson:"total_volume"`
	LastTradeTime int64         `bson:"last_trade_time"`
}

func NewTraderVolume(trader types.Address) *TraderVolume {
	return &TraderVolume{
		RecordMeta: RecordMeta{ID: types.RecordKey(types.KindTraderVolume, trader)},
		Trader:     trader,
	}
}

func (t *TraderVolume) CollectionName() string { return TraderVolumeCollection }

func (t *TraderVolume) Clone() Record {
	c := *t
	return &c
}

type StakePosition struct {
	RecordMeta     `bson:",inline"`
	Owner          types.Address `bson:"owner"`
	Amount         uint64        `bson:"amount"`
	StakeTimestamp int64         `bson:"stake_timestamp"`
	AutoCompound   bool          `bson:"auto_compound"`
}

func NewStakePosition(owner types.Address) *StakePosition {
	return &StakePosition{
		RecordMeta: RecordMeta{ID: types.RecordKey(types.KindStake, owner)},
		Owner:      owner,
	}
}

func (s *StakePosition) CollectionName() string { return StakeCollection }

func (s *StakePosition) Clone() Record {
	c := *s
	return &c
}

type NFTStake struct {
	RecordMeta `bson:",inline"`
	Owner      types.Address `bson:"owner"`
	NFTMint    types.Address `bson:"nft_mint"`
	Boosted    bool          `bson:"boosted"`
}

func NewNFTStake(owner types.Address) *NFTStake {
	return &NFTStake{
		RecordMeta: RecordMeta{ID: types.RecordKey(types.KindNFTStake, owner)},
		Owner:      owner,
	}
}

func (n *NFTStake) CollectionName() string { return NFTStakeCollection }

func (n *NFTStake) Clone() Record {
	c := *n
	return &c
}

type LPStake struct {
	RecordMeta       `bson:",inline"`
	Owner            types.Address `bson:"owner"`
	LPStaked         uint64        `bson:"lp_staked"`
	RewardMultiplier uint8         `bson:"reward_multiplier"`
}

func NewLPStake(owner types.Address) *LPStake {
	return &LPStake{
		RecordMeta: RecordMeta{ID: types.RecordKey(types.KindLPStake, owner)},
		Owner:      owner,
	}
}

func (l *LPStake) CollectionName() string { return LPStakeCollection }

func (l *LPStake) Clone() Record {
	c := *l
	return &c
}
