package types

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

const AddressLength = 32

// Address identifies a principal, a token account or a mint. It is rendered in base58.
type Address [AddressLength]byte

// ZeroAddress marks an optional destination that is not configured.
var ZeroAddress Address

func ParseAddress(s string) (Address, error) {
	var addr Address
	if s == "" {
		return addr, fmt.Errorf("empty address")
	}
	bz := base58.Decode(s)
	if len(bz) != AddressLength {
		return addr, fmt.Errorf("invalid address %q: expected %d bytes, got %d", s, AddressLength, len(bz))
	}
	copy(addr[:], bz)
	return addr, nil
}

// MustParseAddress is ParseAddress for constants and tests.
func MustParseAddress(s string) Address {
	addr, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return addr
}

// DeriveAddress deterministically derives an address from a namespace tag and seeds.
// It is how record keys and the protocol mint authority are obtained.
func DeriveAddress(tag string, seeds ...[]byte) Address {
	return Address(*chainhash.TaggedHash([]byte(tag), seeds...))
}

func (a Address) String() string {
	return base58.Encode(a[:])
}

func (a Address) Hex() string {
	return hex.EncodeToString(a[:])
}

func (a Address) IsZero() bool {
	return a == ZeroAddress
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
