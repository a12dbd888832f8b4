package queue

import (
	"github.com/google/uuid"

	"github.com/multiyield-labs/multiyield-engine/internal/types"
)

// DestinationKind names the role of the account a mint went to.
type DestinationKind string

const (
	DestinationTrader    DestinationKind = "trader"
	DestinationInsurance DestinationKind = "insurance_pool"
	DestinationTreasury  DestinationKind = "dao_treasury"
	DestinationStaker    DestinationKind = "staker"
	DestinationLP        DestinationKind = "lp_staker"
)

// RewardEvent describes one mint issued by an accepted request.
type RewardEvent struct {
	EventID         string          `json:"event_id"`
	Operation       string          `json:"operation"`
	Principal       types.Address   `json:"principal"`
	Mint            types.Address   `json:"mint"`
	Destination     types.Address   `json:"destination"`
	DestinationKind DestinationKind `json:"destination_kind"`
	// Amount is encoded as a string so consumers never lose precision
	Amount    uint64 `json:"amount,string"`
	Timestamp int64  `json:"timestamp"`
}

func NewRewardEvent(
	op types.Operation,
	principal, mint, destination types.Address,
	kind DestinationKind,
	amount uint64,
	timestamp int64,
) RewardEvent {
	return RewardEvent{
		EventID:         uuid.NewString(),
		Operation:       op.String(),
		Principal:       principal,
		Mint:            mint,
		Destination:     destination,
		DestinationKind: kind,
		Amount:          amount,
		Timestamp:       timestamp,
	}
}

// RoutingKey is reward.<operation>.<destination kind>
func RoutingKey(ev RewardEvent) string {
	return routingKeyPrefix + ev.Operation + "." + string(ev.DestinationKind)
}
