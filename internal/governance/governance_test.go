package governance

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multiyield-labs/multiyield-engine/internal/db/model"
	"github.com/multiyield-labs/multiyield-engine/internal/types"
	"github.com/multiyield-labs/multiyield-engine/testutil"
)

func TestUpdateParameters(t *testing.T) {
	limits := DefaultLimits()
	gov := *model.NewGovernance(testutil.RandomAddress())

	t.Run("not approved", func(t *testing.T) {
		_, err := UpdateParameters(gov, limits, 20, 5)
		assert.True(t, errors.Is(err, types.GovernanceNotApproved))
	})

	t.Run("range is checked before approval", func(t *testing.T) {
		_, err := UpdateParameters(gov, limits, 51, 5)
		assert.True(t, errors.Is(err, types.InvalidRewardParameters))

		_, err = UpdateParameters(gov, limits, 50, 11)
		assert.True(t, errors.Is(err, types.InvalidRewardParameters))
	})

	t.Run("approved", func(t *testing.T) {
		approved := gov
		approved.DAOApproved = true

		updated, err := UpdateParameters(approved, limits, 50, 10)
		require.NoError(t, err)
		assert.Equal(t, uint8(50), updated.RewardPercentage)
		assert.Equal(t, uint8(10), updated.LPBoost)
		assert.Equal(t, uint8(0), approved.RewardPercentage)
	})

	t.Run("custom ceilings", func(t *testing.T) {
		approved := gov
		approved.DAOApproved = true

		_, err := UpdateParameters(approved, Limits{MaxBaseRewardPct: 30, MaxLPBoostPct: 5}, 31, 0)
		assert.True(t, errors.Is(err, types.InvalidRewardParameters))
	})
}

func TestSetApproval(t *testing.T) {
	authority := testutil.RandomAddress()
	gov := *model.NewGovernance(authority)

	_, err := SetApproval(gov, testutil.RandomAddress(), true, 10)
	assert.True(t, errors.Is(err, types.OwnerMismatch))

	updated, err := SetApproval(gov, authority, true, 10)
	require.NoError(t, err)
	assert.True(t, updated.DAOApproved)
	assert.Equal(t, uint64(10), updated.TotalVotes)

	revoked, err := SetApproval(updated, authority, false, 12)
	require.NoError(t, err)
	assert.False(t, revoked.DAOApproved)
}
