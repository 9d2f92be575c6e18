// Package pda derives deterministic account addresses from seed components.
//
// A derived address is the SHA3-256 digest of the seeds, a bump byte, the
// program id and a fixed marker, accepted only when it does not decode to a
// valid ed25519 point. Such an address has no private key, so the only way to
// act as its authority is to present the seeds that produce it.
package pda

import (
	"bytes"
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"golang.org/x/crypto/sha3"

	"github.com/spec-kit/vesting-service/internal/domain"
)

const (
	MaxSeeds      = 16
	MaxSeedLength = 32
)

var (
	ErrMaxSeedLengthExceeded = errors.New("seed exceeds max length")
	ErrTooManySeeds          = errors.New("too many seeds")
	ErrOnCurve               = errors.New("derived address lies on the ed25519 curve")
	ErrNoViableBump          = errors.New("no viable bump seed")
	ErrSeedMismatch          = errors.New("seeds do not derive the expected address")
)

var derivationMarker = []byte("ProgramDerivedAddress")

// CreateProgramAddress hashes the seeds into an off-curve address.
func CreateProgramAddress(programID domain.Address, seeds ...[]byte) (domain.Address, error) {
	if len(seeds) > MaxSeeds {
		return domain.Address{}, ErrTooManySeeds
	}
	h := sha3.New256()
	for _, seed := range seeds {
		if len(seed) > MaxSeedLength {
			return domain.Address{}, fmt.Errorf("%w: %d bytes", ErrMaxSeedLengthExceeded, len(seed))
		}
		h.Write(seed)
	}
	h.Write(programID[:])
	h.Write(derivationMarker)

	var addr domain.Address
	copy(addr[:], h.Sum(nil))
	if IsOnCurve(addr) {
		return domain.Address{}, ErrOnCurve
	}
	return addr, nil
}

// FindProgramAddress searches bumps from 255 downwards and returns the first off-curve address.
func FindProgramAddress(programID domain.Address, seeds ...[]byte) (domain.Address, uint8, error) {
	if len(seeds) >= MaxSeeds {
		return domain.Address{}, 0, ErrTooManySeeds
	}
	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)
	for bump := 255; bump >= 0; bump-- {
		withBump[len(seeds)] = []byte{byte(bump)}
		addr, err := CreateProgramAddress(programID, withBump...)
		if errors.Is(err, ErrOnCurve) {
			continue
		}
		if err != nil {
			return domain.Address{}, 0, err
		}
		return addr, uint8(bump), nil
	}
	return domain.Address{}, 0, ErrNoViableBump
}

// IsOnCurve reports whether the address is a valid ed25519 public key encoding.
func IsOnCurve(addr domain.Address) bool {
	_, err := new(edwards25519.Point).SetBytes(addr[:])
	return err == nil
}

// Signer is the signing capability of a derived address. It carries no secret:
// it is valid exactly when its seeds and bump re-derive its address.
type Signer struct {
	Address domain.Address
	Seeds   [][]byte
	Bump    uint8
}

// NewSigner derives the canonical signer for the given seeds.
func NewSigner(programID domain.Address, seeds ...[]byte) (Signer, error) {
	addr, bump, err := FindProgramAddress(programID, seeds...)
	if err != nil {
		return Signer{}, err
	}
	return Signer{Address: addr, Seeds: cloneSeeds(seeds), Bump: bump}, nil
}

// SignerWithBump rebuilds a signer from a stored bump.
func SignerWithBump(programID domain.Address, bump uint8, seeds ...[]byte) (Signer, error) {
	s := Signer{Seeds: cloneSeeds(seeds), Bump: bump}
	addr, err := CreateProgramAddress(programID, s.seedsWithBump()...)
	if err != nil {
		return Signer{}, err
	}
	s.Address = addr
	return s, nil
}

// Verify re-derives the address from seeds and bump.
func (s Signer) Verify(programID domain.Address) error {
	addr, err := CreateProgramAddress(programID, s.seedsWithBump()...)
	if err != nil {
		return err
	}
	if !bytes.Equal(addr[:], s.Address[:]) {
		return ErrSeedMismatch
	}
	return nil
}

func (s Signer) seedsWithBump() [][]byte {
	out := make([][]byte, 0, len(s.Seeds)+1)
	out = append(out, s.Seeds...)
	return append(out, []byte{s.Bump})
}

func cloneSeeds(seeds [][]byte) [][]byte {
	out := make([][]byte, len(seeds))
	for i, seed := range seeds {
		out[i] = append([]byte(nil), seed...)
	}
	return out
}
