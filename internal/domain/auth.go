package domain

import "time"

// Challenge is a one-time login nonce a wallet must sign.
type Challenge struct {
	Address   Address
	Nonce     string
	ExpiresAt time.Time
}

// LoginMessage is the exact byte string a wallet signs to prove key ownership.
func (c Challenge) LoginMessage() []byte {
	return []byte("vesting-login:" + c.Nonce)
}
