package auth

import (
	"crypto/ed25519"

	"github.com/btcsuite/btcd/btcutil/base58"

	"github.com/spec-kit/vesting-service/internal/domain"
)

// VerifySignature checks a base58 ed25519 signature of message by the key at addr.
func VerifySignature(addr domain.Address, message []byte, signature string) error {
	raw := base58.Decode(signature)
	if len(raw) != ed25519.SignatureSize {
		return domain.ErrInvalidSignature
	}
	if !ed25519.Verify(ed25519.PublicKey(addr[:]), message, raw) {
		return domain.ErrInvalidSignature
	}
	return nil
}

// Sign produces a base58 signature. Used by the CLI and tests.
func Sign(key ed25519.PrivateKey, message []byte) string {
	return base58.Encode(ed25519.Sign(key, message))
}

// AddressOf returns the address a private key signs as.
func AddressOf(key ed25519.PrivateKey) domain.Address {
	var addr domain.Address
	copy(addr[:], key.Public().(ed25519.PublicKey))
	return addr
}
