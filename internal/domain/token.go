package domain

import "time"

// Mint describes a token type under custody.
type Mint struct {
	Address       Address
	Decimals      uint8
	MintAuthority Address
	Supply        uint64
	CreatedAt     time.Time
}

// TokenAccount holds a balance of a single mint.
type TokenAccount struct {
	Address   Address
	Mint      Address
	Authority Address
	Balance   uint64
	CreatedAt time.Time
	UpdatedAt time.Time
}
