package domain

import "time"

// MaxCompanyNameLength bounds the company name, which doubles as a derivation seed.
const MaxCompanyNameLength = 32

// VestingPool is the company-scoped vesting configuration.
type VestingPool struct {
	Address      Address
	CompanyName  string
	Mint         Address
	Treasury     Address
	Authority    Address
	TreasuryBump uint8
	PoolBump     uint8
	CreatedAt    time.Time
}
