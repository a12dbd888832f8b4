package arith

import (
	"fmt"
	"math"

	sdkmath "cosmossdk.io/math"

	"github.com/multiyield-labs/multiyield-engine/internal/types"
)

// Every product and sum that feeds a mint amount goes through these helpers.
// Intermediate values are computed on arbitrary precision integers and rejected
// if they do not fit back into 64 bits, so nothing ever wraps.

func overflow(op string, a, b uint64) *types.Error {
	return types.NewErrorWithMsg(types.ArithmeticOverflow, "%d %s %d overflows", a, op, b)
}

func CheckedAdd(a, b uint64) (uint64, error) {
	res := sdkmath.NewIntFromUint64(a).Add(sdkmath.NewIntFromUint64(b))
	if !res.IsUint64() {
		return 0, overflow("+", a, b)
	}
	return res.Uint64(), nil
}

func CheckedSub(a, b uint64) (uint64, error) {
	res := sdkmath.NewIntFromUint64(a).Sub(sdkmath.NewIntFromUint64(b))
	if !res.IsUint64() {
		return 0, overflow("-", a, b)
	}
	return res.Uint64(), nil
}

func CheckedMul(a, b uint64) (uint64, error) {
	res := sdkmath.NewIntFromUint64(a).Mul(sdkmath.NewIntFromUint64(b))
	if !res.IsUint64() {
		return 0, overflow("*", a, b)
	}
	return res.Uint64(), nil
}

func CheckedDiv(a, b uint64) (uint64, error) {
	if b == 0 {
		return 0, types.NewErrorWithMsg(types.ArithmeticOverflow, "division of %d by zero", a)
	}
	return a / b, nil
}

// MulDiv returns a*b/c, truncated, with the product checked to fit in 64 bits.
func MulDiv(a, b, c uint64) (uint64, error) {
	product, err := CheckedMul(a, b)
	if err != nil {
		return 0, err
	}
	return CheckedDiv(product, c)
}

// SaturatingAdd caps at the largest representable value instead of failing.
func SaturatingAdd(a, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}

// SaturatingSub floors at zero.
func SaturatingSub(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}

// SaturatingSubInt64 floors at zero, used for elapsed time since a timestamp.
func SaturatingSubInt64(now, since int64) int64 {
	if since > now {
		return 0
	}
	res := sdkmath.NewInt(now).Sub(sdkmath.NewInt(since))
	if !res.IsInt64() {
		return math.MaxInt64
	}
	return res.Int64()
}

// CheckedAddInt64 adds two signed timestamps or durations.
func CheckedAddInt64(a, b int64) (int64, error) {
	res := sdkmath.NewInt(a).Add(sdkmath.NewInt(b))
	if !res.IsInt64() {
		return 0, types.NewErrorWithMsg(types.ArithmeticOverflow, "%d + %d overflows", a, b)
	}
	return res.Int64(), nil
}

// PriceToUnsigned converts an oracle price, rejecting non-positive values and lossy conversions.
func PriceToUnsigned(price int64) (uint64, error) {
	if price <= 0 {
		return 0, types.NewErrorWithMsg(types.NegativePrice, "oracle price %d is not positive", price)
	}
	converted := sdkmath.NewInt(price)
	if !converted.IsUint64() {
		return 0, types.NewError(types.ConversionError.StatusCode(), types.ConversionError,
			fmt.Errorf("failed converting %d to an unsigned price", price))
	}
	return converted.Uint64(), nil
}
