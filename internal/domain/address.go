package domain

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
)

// AddressLength is the byte size of every account address.
const AddressLength = 32

// ErrInvalidAddress is returned when a textual address cannot be decoded.
var ErrInvalidAddress = errors.New("invalid address")

// Address identifies an account: a wallet key, a mint, a token account or a program-derived record.
type Address [AddressLength]byte

// ParseAddress decodes a base58 address.
func ParseAddress(s string) (Address, error) {
	var addr Address
	raw := base58.Decode(s)
	if len(raw) != AddressLength {
		return addr, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	copy(addr[:], raw)
	return addr, nil
}

// MustParseAddress is ParseAddress for constants.
func MustParseAddress(s string) Address {
	addr, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return addr
}

// AddressFromBytes copies a 32 byte slice into an Address.
func AddressFromBytes(b []byte) (Address, error) {
	var addr Address
	if len(b) != AddressLength {
		return addr, fmt.Errorf("%w: length %d", ErrInvalidAddress, len(b))
	}
	copy(addr[:], b)
	return addr, nil
}

func (a Address) String() string {
	return base58.Encode(a[:])
}

// Bytes returns a copy of the raw address.
func (a Address) Bytes() []byte {
	out := make([]byte, AddressLength)
	copy(out, a[:])
	return out
}

// IsZero reports whether the address is unset.
func (a Address) IsZero() bool {
	return a == Address{}
}

// MarshalText encodes the address as base58.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText decodes a base58 address.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
