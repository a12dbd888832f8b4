package testutil

import (
	"strings"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/multiyield-labs/multiyield-engine/internal/types"
)

// RandomAddress returns a fresh principal identity
func RandomAddress() types.Address {
	return types.DeriveAddress("testutil", []byte(gofakeit.UUID()))
}

// RandomAmount returns a token amount in [min, max]
func RandomAmount(min, max int) uint64 {
	return uint64(gofakeit.IntRange(min, max))
}

// RandomSuffix returns n lowercase letters, usable in container and exchange names
func RandomSuffix(n uint) string {
	return strings.ToLower(gofakeit.LetterN(n))
}
