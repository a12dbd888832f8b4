package ledger

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multiyield-labs/multiyield-engine/internal/types"
	"github.com/multiyield-labs/multiyield-engine/testutil"
)

type fixture struct {
	ledger    *Memory
	mint      types.Address
	authority Authority
	alice     types.Address
	aliceAcc  types.Address
	poolAcc   types.Address
}

func setup(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		ledger:    NewMemory(),
		mint:      testutil.RandomAddress(),
		authority: MintAuthority(254),
		alice:     testutil.RandomAddress(),
		aliceAcc:  testutil.RandomAddress(),
		poolAcc:   testutil.RandomAddress(),
	}
	require.NoError(t, f.ledger.RegisterMint(f.mint, f.authority.Address()))
	require.NoError(t, f.ledger.OpenAccount(f.aliceAcc, f.mint, f.alice))
	require.NoError(t, f.ledger.OpenAccount(f.poolAcc, f.mint, testutil.RandomAddress()))
	return f
}

func TestAuthority(t *testing.T) {
	assert.Equal(t, MintAuthority(1).Address(), MintAuthority(1).Address())
	assert.NotEqual(t, MintAuthority(1).Address(), MintAuthority(2).Address())
}

func TestMemory_Mint(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	require.NoError(t, f.ledger.Mint(ctx, f.mint, f.aliceAcc, 1_000, f.authority))
	balance, err := f.ledger.Balance(f.aliceAcc)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000), balance)
	assert.Equal(t, uint64(1_000), f.ledger.Supply(f.mint))

	err = f.ledger.Mint(ctx, f.mint, f.aliceAcc, 1, MintAuthority(1))
	assert.True(t, errors.Is(err, types.TransferRejected))

	err = f.ledger.Mint(ctx, f.mint, testutil.RandomAddress(), 1, f.authority)
	assert.True(t, errors.Is(err, types.TransferRejected))

	err = f.ledger.Mint(ctx, testutil.RandomAddress(), f.aliceAcc, 1, f.authority)
	assert.True(t, errors.Is(err, types.TransferRejected))

	err = f.ledger.Mint(ctx, f.mint, f.aliceAcc, math.MaxUint64, f.authority)
	assert.True(t, errors.Is(err, types.ArithmeticOverflow))

	// failed calls leave balances untouched
	balance, err = f.ledger.Balance(f.aliceAcc)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000), balance)
}

func TestMemory_MintBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("credits every destination", func(t *testing.T) {
		f := setup(t)
		err := f.ledger.MintBatch(ctx, f.mint, []Instruction{
			{Destination: f.poolAcc, Amount: 40},
			{Destination: f.aliceAcc, Amount: 960},
			{Destination: f.aliceAcc, Amount: 40},
		}, f.authority)
		require.NoError(t, err)

		aliceBalance, _ := f.ledger.Balance(f.aliceAcc)
		poolBalance, _ := f.ledger.Balance(f.poolAcc)
		assert.Equal(t, uint64(1_000), aliceBalance)
		assert.Equal(t, uint64(40), poolBalance)
		assert.Equal(t, uint64(1_040), f.ledger.Supply(f.mint))
	})

	t.Run("unknown later destination applies nothing", func(t *testing.T) {
		f := setup(t)
		err := f.ledger.MintBatch(ctx, f.mint, []Instruction{
			{Destination: f.poolAcc, Amount: 40},
			{Destination: testutil.RandomAddress(), Amount: 960},
		}, f.authority)
		assert.True(t, errors.Is(err, types.TransferRejected))

		poolBalance, _ := f.ledger.Balance(f.poolAcc)
		assert.Zero(t, poolBalance)
		assert.Zero(t, f.ledger.Supply(f.mint))
	})

	t.Run("overflow across repeated destination applies nothing", func(t *testing.T) {
		f := setup(t)
		err := f.ledger.MintBatch(ctx, f.mint, []Instruction{
			{Destination: f.poolAcc, Amount: 1},
			{Destination: f.aliceAcc, Amount: math.MaxUint64/2 + 1},
			{Destination: f.aliceAcc, Amount: math.MaxUint64/2 + 1},
		}, f.authority)
		assert.True(t, errors.Is(err, types.ArithmeticOverflow))

		aliceBalance, _ := f.ledger.Balance(f.aliceAcc)
		poolBalance, _ := f.ledger.Balance(f.poolAcc)
		assert.Zero(t, aliceBalance)
		assert.Zero(t, poolBalance)
		assert.Zero(t, f.ledger.Supply(f.mint))
	})
}

func TestMemory_Transfer(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	require.NoError(t, f.ledger.Mint(ctx, f.mint, f.aliceAcc, 1_000, f.authority))

	require.NoError(t, f.ledger.Transfer(ctx, f.aliceAcc, f.poolAcc, 400, f.alice))
	aliceBalance, _ := f.ledger.Balance(f.aliceAcc)
	poolBalance, _ := f.ledger.Balance(f.poolAcc)
	assert.Equal(t, uint64(600), aliceBalance)
	assert.Equal(t, uint64(400), poolBalance)

	err := f.ledger.Transfer(ctx, f.aliceAcc, f.poolAcc, 601, f.alice)
	assert.True(t, errors.Is(err, types.InsufficientFunds))

	err = f.ledger.Transfer(ctx, f.aliceAcc, f.poolAcc, 1, testutil.RandomAddress())
	assert.True(t, errors.Is(err, types.TransferRejected))

	otherMint := testutil.RandomAddress()
	otherAcc := testutil.RandomAddress()
	require.NoError(t, f.ledger.RegisterMint(otherMint, f.authority.Address()))
	require.NoError(t, f.ledger.OpenAccount(otherAcc, otherMint, f.alice))
	err = f.ledger.Transfer(ctx, f.aliceAcc, otherAcc, 1, f.alice)
	assert.True(t, errors.Is(err, types.TransferRejected))

	aliceBalance, _ = f.ledger.Balance(f.aliceAcc)
	assert.Equal(t, uint64(600), aliceBalance)
}

func TestMemory_Setup(t *testing.T) {
	f := setup(t)

	assert.Error(t, f.ledger.RegisterMint(f.mint, f.authority.Address()))
	assert.Error(t, f.ledger.OpenAccount(f.aliceAcc, f.mint, f.alice))
	assert.Error(t, f.ledger.OpenAccount(testutil.RandomAddress(), testutil.RandomAddress(), f.alice))

	_, err := f.ledger.Balance(testutil.RandomAddress())
	assert.True(t, errors.Is(err, types.InvalidArgument))
}

func TestMemory_SaveLoad(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	require.NoError(t, f.ledger.Mint(ctx, f.mint, f.aliceAcc, math.MaxUint64-1, f.authority))

	path := filepath.Join(t.TempDir(), "ledger.json")
	require.NoError(t, f.ledger.Save(path))

	loaded, err := LoadMemory(path)
	require.NoError(t, err)

	acc, err := loaded.Account(f.aliceAcc)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64-1), acc.Balance)
	assert.Equal(t, f.alice, acc.Owner)
	assert.Equal(t, f.mint, acc.Mint)
	assert.Equal(t, uint64(math.MaxUint64-1), loaded.Supply(f.mint))

	// the authority survives the round trip
	require.NoError(t, NewWithMetrics(loaded).MintBatch(ctx, f.mint, []Instruction{{Destination: f.poolAcc, Amount: 1}}, f.authority))

	empty, err := LoadMemory(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), empty.Supply(f.mint))
}
