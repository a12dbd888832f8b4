package db_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multiyield-labs/multiyield-engine/internal/db"
	"github.com/multiyield-labs/multiyield-engine/internal/db/model"
	"github.com/multiyield-labs/multiyield-engine/internal/types"
	"github.com/multiyield-labs/multiyield-engine/testutil"
)

// runStoreContract exercises behaviour every DbInterface backend must share
func runStoreContract(t *testing.T, store db.DbInterface) {
	ctx := t.Context()

	t.Run("singletons before initialization", func(t *testing.T) {
		_, err := store.GetGlobalState(ctx)
		require.Error(t, err)
		assert.True(t, db.IsNotFoundError(err))

		_, err = store.GetGovernance(ctx)
		require.Error(t, err)
		assert.True(t, db.IsNotFoundError(err))
	})

	t.Run("load or create returns a fresh record", func(t *testing.T) {
		owner := testutil.RandomAddress()
		tv, err := store.LoadOrCreateTraderVolume(ctx, owner)
		require.NoError(t, err)
		assert.True(t, tv.IsNew())
		assert.Equal(t, owner, tv.Trader)
		assert.Equal(t, types.RecordKey(types.KindTraderVolume, owner), tv.Key())
	})

	t.Run("commit and reload", func(t *testing.T) {
		owner := testutil.RandomAddress()
		gs := model.NewGlobalState(testutil.RandomAddress(), 254)
		tv, err := store.LoadOrCreateTraderVolume(ctx, owner)
		require.NoError(t, err)
		tv.TotalVolume = math.MaxUint64
		tv.LastTradeTime = 100

		require.NoError(t, store.Commit(ctx, gs, tv))
		assert.Equal(t, int64(1), gs.GetVersion())
		assert.Equal(t, int64(1), tv.GetVersion())

		reloaded, err := store.LoadOrCreateTraderVolume(ctx, owner)
		require.NoError(t, err)
		assert.Equal(t, *tv, *reloaded)

		storedGs, err := store.GetGlobalState(ctx)
		require.NoError(t, err)
		assert.Equal(t, gs.Mint, storedGs.Mint)
		assert.Equal(t, uint8(254), storedGs.Bump)
	})

	t.Run("stale record is rejected", func(t *testing.T) {
		owner := testutil.RandomAddress()
		first, err := store.LoadOrCreateStakePosition(ctx, owner)
		require.NoError(t, err)
		first.Amount = 10
		require.NoError(t, store.Commit(ctx, first))

		a, err := store.LoadOrCreateStakePosition(ctx, owner)
		require.NoError(t, err)
		b, err := store.LoadOrCreateStakePosition(ctx, owner)
		require.NoError(t, err)

		a.Amount = 20
		require.NoError(t, store.Commit(ctx, a))

		b.Amount = 30
		err = store.Commit(ctx, b)
		require.Error(t, err)
		assert.True(t, db.IsVersionConflictError(err))
		// the caller keeps the version it loaded
		assert.Equal(t, int64(1), b.GetVersion())

		current, err := store.LoadOrCreateStakePosition(ctx, owner)
		require.NoError(t, err)
		assert.Equal(t, uint64(20), current.Amount)
	})

	t.Run("double create is rejected", func(t *testing.T) {
		owner := testutil.RandomAddress()
		a, err := store.LoadOrCreateLPStake(ctx, owner)
		require.NoError(t, err)
		b, err := store.LoadOrCreateLPStake(ctx, owner)
		require.NoError(t, err)

		require.NoError(t, store.Commit(ctx, a))
		err = store.Commit(ctx, b)
		assert.True(t, db.IsVersionConflictError(err))
	})

	t.Run("same record twice in one commit", func(t *testing.T) {
		owner := testutil.RandomAddress()
		a, err := store.LoadOrCreateNFTStake(ctx, owner)
		require.NoError(t, err)

		err = store.Commit(ctx, a, a.Clone())
		assert.True(t, db.IsDuplicateKeyError(err))
	})

	t.Run("revert restores the pre-commit state", func(t *testing.T) {
		owner := testutil.RandomAddress()
		pos, err := store.LoadOrCreateStakePosition(ctx, owner)
		require.NoError(t, err)
		pos.Amount = 10
		require.NoError(t, store.Commit(ctx, pos))

		pos, err = store.LoadOrCreateStakePosition(ctx, owner)
		require.NoError(t, err)
		tv, err := store.LoadOrCreateTraderVolume(ctx, owner)
		require.NoError(t, err)
		prevPos := pos.Clone()
		prevTv := tv.Clone()

		pos.Amount = 25
		tv.TotalVolume = 500
		require.NoError(t, store.Commit(ctx, pos, tv))

		// a holder of the undone state
		undone, err := store.LoadOrCreateStakePosition(ctx, owner)
		require.NoError(t, err)

		require.NoError(t, store.Revert(ctx, prevPos, prevTv))
		assert.Equal(t, int64(3), prevPos.GetVersion())

		restored, err := store.LoadOrCreateStakePosition(ctx, owner)
		require.NoError(t, err)
		assert.Equal(t, uint64(10), restored.Amount)
		assert.Equal(t, int64(3), restored.Version)

		created, err := store.LoadOrCreateTraderVolume(ctx, owner)
		require.NoError(t, err)
		assert.True(t, created.IsNew())

		undone.Amount = 99
		err = store.Commit(ctx, undone)
		assert.True(t, db.IsVersionConflictError(err))
	})

	t.Run("revert after a concurrent commit is rejected", func(t *testing.T) {
		owner := testutil.RandomAddress()
		pos, err := store.LoadOrCreateStakePosition(ctx, owner)
		require.NoError(t, err)
		prev := pos.Clone()
		pos.Amount = 10
		require.NoError(t, store.Commit(ctx, pos))

		pos.Amount = 20
		require.NoError(t, store.Commit(ctx, pos))

		err = store.Revert(ctx, prev)
		require.Error(t, err)
		assert.True(t, db.IsVersionConflictError(err))

		current, err := store.LoadOrCreateStakePosition(ctx, owner)
		require.NoError(t, err)
		assert.Equal(t, uint64(20), current.Amount)
	})
}
