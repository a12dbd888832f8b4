package arith

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multiyield-labs/multiyield-engine/internal/types"
)

func TestCheckedArithmetic(t *testing.T) {
	sum, err := CheckedAdd(math.MaxUint64-1, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), sum)

	_, err = CheckedAdd(math.MaxUint64, 1)
	assert.True(t, errors.Is(err, types.ArithmeticOverflow))

	_, err = CheckedSub(1, 2)
	assert.True(t, errors.Is(err, types.ArithmeticOverflow))

	product, err := CheckedMul(math.MaxUint64/5, 5)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64/5*5), product)

	_, err = CheckedMul(math.MaxUint64/5+1, 5)
	assert.True(t, errors.Is(err, types.ArithmeticOverflow))

	_, err = CheckedDiv(10, 0)
	assert.True(t, errors.Is(err, types.ArithmeticOverflow))

	res, err := MulDiv(150_000, 2, 100)
	require.NoError(t, err)
	assert.Equal(t, uint64(3_000), res)
}

func TestSaturating(t *testing.T) {
	assert.Equal(t, uint64(math.MaxUint64), SaturatingAdd(math.MaxUint64, 10))
	assert.Equal(t, uint64(0), SaturatingSub(5, 10))
	assert.Equal(t, uint64(5), SaturatingSub(10, 5))

	assert.Equal(t, int64(0), SaturatingSubInt64(10, 20))
	assert.Equal(t, int64(10), SaturatingSubInt64(20, 10))
	assert.Equal(t, int64(math.MaxInt64), SaturatingSubInt64(math.MaxInt64, math.MinInt64))

	_, err := CheckedAddInt64(math.MaxInt64, 1)
	assert.True(t, errors.Is(err, types.ArithmeticOverflow))
}

func TestPriceToUnsigned(t *testing.T) {
	price, err := PriceToUnsigned(1_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000), price)

	for _, p := range []int64{0, -1, math.MinInt64} {
		_, err = PriceToUnsigned(p)
		assert.True(t, errors.Is(err, types.NegativePrice), "price %d", p)
	}
}
