package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"sync"

	"github.com/multiyield-labs/multiyield-engine/internal/types"
)

type Account struct {
	Address types.Address `json:"address"`
	Mint    types.Address `json:"mint"`
	Owner   types.Address `json:"owner"`
	Balance uint64        `json:"balance"`
}

type mintInfo struct {
	Address   types.Address `json:"address"`
	Authority types.Address `json:"authority"`
	Supply    uint64        `json:"supply"`
}

// Memory is a balance book for local use and tests. Every call is all or nothing.
type Memory struct {
	mu       sync.RWMutex
	mints    map[types.Address]*mintInfo
	accounts map[types.Address]*Account
}

func NewMemory() *Memory {
	return &Memory{
		mints:    make(map[types.Address]*mintInfo),
		accounts: make(map[types.Address]*Account),
	}
}

func rejected(format string, args ...any) error {
	return types.NewErrorWithMsg(types.TransferRejected, format, args...)
}

// RegisterMint creates a mint whose supply can only be increased by authority.
func (m *Memory) RegisterMint(mint, authority types.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.mints[mint]; ok {
		return types.NewErrorWithMsg(types.InvalidArgument, "mint %s already exists", mint)
	}
	m.mints[mint] = &mintInfo{Address: mint, Authority: authority}
	return nil
}

// OpenAccount creates an empty token account of mint owned by owner.
func (m *Memory) OpenAccount(address, mint, owner types.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.mints[mint]; !ok {
		return types.NewErrorWithMsg(types.InvalidArgument, "unknown mint %s", mint)
	}
	if _, ok := m.accounts[address]; ok {
		return types.NewErrorWithMsg(types.InvalidArgument, "account %s already exists", address)
	}
	m.accounts[address] = &Account{Address: address, Mint: mint, Owner: owner}
	return nil
}

func (m *Memory) Account(address types.Address) (Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	acc, ok := m.accounts[address]
	if !ok {
		return Account{}, types.NewErrorWithMsg(types.InvalidArgument, "unknown account %s", address)
	}
	return *acc, nil
}

func (m *Memory) Balance(address types.Address) (uint64, error) {
	acc, err := m.Account(address)
	if err != nil {
		return 0, err
	}
	return acc.Balance, nil
}

func (m *Memory) Supply(mint types.Address) uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if info, ok := m.mints[mint]; ok {
		return info.Supply
	}
	return 0
}

// Mint credits a single destination. See MintBatch.
func (m *Memory) Mint(ctx context.Context, mint, destination types.Address, amount uint64, authority Authority) error {
	return m.MintBatch(ctx, mint, []Instruction{{Destination: destination, Amount: amount}}, authority)
}

func (m *Memory) MintBatch(_ context.Context, mint types.Address, instructions []Instruction, authority Authority) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	info, ok := m.mints[mint]
	if !ok {
		return rejected("unknown mint %s", mint)
	}
	if info.Authority != authority.Address() {
		return rejected("%s is not the authority of mint %s", authority.Address(), mint)
	}

	// credits accumulates per account so repeated destinations are checked together
	credits := make(map[types.Address]uint64, len(instructions))
	supply := info.Supply
	for _, ins := range instructions {
		acc, ok := m.accounts[ins.Destination]
		if !ok {
			return rejected("unknown destination account %s", ins.Destination)
		}
		if acc.Mint != mint {
			return rejected("account %s holds mint %s, not %s", ins.Destination, acc.Mint, mint)
		}
		credit := credits[ins.Destination]
		if credit > math.MaxUint64-ins.Amount || acc.Balance > math.MaxUint64-credit-ins.Amount ||
			supply > math.MaxUint64-ins.Amount {
			return types.NewErrorWithMsg(types.ArithmeticOverflow, "minting %d overflows %s", ins.Amount, ins.Destination)
		}
		credits[ins.Destination] = credit + ins.Amount
		supply += ins.Amount
	}

	for address, credit := range credits {
		m.accounts[address].Balance += credit
	}
	info.Supply = supply
	return nil
}

func (m *Memory) Transfer(_ context.Context, source, destination types.Address, amount uint64, owner types.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	from, ok := m.accounts[source]
	if !ok {
		return rejected("unknown source account %s", source)
	}
	to, ok := m.accounts[destination]
	if !ok {
		return rejected("unknown destination account %s", destination)
	}
	if from.Owner != owner {
		return rejected("%s does not own account %s", owner, source)
	}
	if from.Mint != to.Mint {
		return rejected("cannot transfer between mints %s and %s", from.Mint, to.Mint)
	}
	if from.Balance < amount {
		return types.NewErrorWithMsg(types.InsufficientFunds,
			"account %s holds %d, %d requested", source, from.Balance, amount)
	}
	if source == destination {
		return nil
	}
	if to.Balance > math.MaxUint64-amount {
		return types.NewErrorWithMsg(types.ArithmeticOverflow, "transfer of %d overflows %s", amount, destination)
	}

	from.Balance -= amount
	to.Balance += amount
	return nil
}

type snapshot struct {
	Mints    []*mintInfo `json:"mints"`
	Accounts []*Account  `json:"accounts"`
}

// Save writes the book to path.
func (m *Memory) Save(path string) error {
	m.mu.RLock()
	snap := snapshot{}
	for _, info := range m.mints {
		snap.Mints = append(snap.Mints, info)
	}
	for _, acc := range m.accounts {
		snap.Accounts = append(snap.Accounts, acc)
	}
	bz, err := json.MarshalIndent(snap, "", "  ")
	m.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to encode ledger: %w", err)
	}

	if err := os.WriteFile(path, bz, 0o600); err != nil {
		return fmt.Errorf("failed to write ledger %s: %w", path, err)
	}
	return nil
}

// LoadMemory reads a book written by Save. A missing file yields an empty book.
func LoadMemory(path string) (*Memory, error) {
	m := NewMemory()

	bz, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger %s: %w", path, err)
	}

	var snap snapshot
	if err := json.Unmarshal(bz, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode ledger %s: %w", path, err)
	}
	for _, info := range snap.Mints {
		m.mints[info.Address] = info
	}
	for _, acc := range snap.Accounts {
		m.accounts[acc.Address] = acc
	}
	return m, nil
}
