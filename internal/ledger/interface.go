// Package ledger is the token mint and transfer capability the engine calls into.
package ledger

import (
	"context"

	"github.com/multiyield-labs/multiyield-engine/internal/types"
)

// MintAuthoritySeed is the namespace the protocol mint authority is derived from.
const MintAuthoritySeed = "global_state"

// Authority identifies a protocol owned signer by its derivation. The engine
// never holds key material; the ledger decides whether the derivation may mint.
type Authority struct {
	Seed string
	Bump uint8
}

func MintAuthority(bump uint8) Authority {
	return Authority{Seed: MintAuthoritySeed, Bump: bump}
}

func (a Authority) Address() types.Address {
	return types.DeriveAddress(a.Seed, []byte{a.Bump})
}

// Instruction credits amount of a mint to one destination account
type Instruction struct {
	Destination types.Address
	Amount      uint64
}

//go:generate mockery --name=TokenLedger --output=../../tests/mocks --outpkg=mocks --filename=mock_token_ledger.go
type TokenLedger interface {
	// MintBatch creates new tokens of mint for every instruction. Either all
	// instructions apply or none do.
	MintBatch(ctx context.Context, mint types.Address, instructions []Instruction, authority Authority) error
	// Transfer moves amount between two accounts of the same mint. owner must own source.
	Transfer(ctx context.Context, source, destination types.Address, amount uint64, owner types.Address) error
}
