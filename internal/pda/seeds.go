package pda

import (
	"github.com/spec-kit/vesting-service/internal/domain"
)

var (
	TreasurySeed = []byte("vesting_treasury")
	EmployeeSeed = []byte("employee_vesting")
	TokenSeed    = []byte("token")
	MintSeed     = []byte("mint")
)

// PoolSeeds locates a vesting pool by company name.
func PoolSeeds(companyName string) [][]byte {
	return [][]byte{[]byte(companyName)}
}

// TreasurySeeds locates the custody account of a pool.
func TreasurySeeds(companyName string) [][]byte {
	return [][]byte{TreasurySeed, []byte(companyName)}
}

// EmployeeSeeds locates the vesting record of a beneficiary in a pool.
func EmployeeSeeds(beneficiary, pool domain.Address) [][]byte {
	return [][]byte{EmployeeSeed, beneficiary.Bytes(), pool.Bytes()}
}

// AssociatedTokenSeeds locates the canonical token account of an owner for a mint.
func AssociatedTokenSeeds(owner, mint domain.Address) [][]byte {
	return [][]byte{owner.Bytes(), TokenSeed, mint.Bytes()}
}

// MintSeeds locates a mint created by authority; nonce keeps mints of one authority apart.
func MintSeeds(authority domain.Address, nonce []byte) [][]byte {
	return [][]byte{MintSeed, authority.Bytes(), nonce}
}

// Deriver binds the derivation functions to one program id.
type Deriver struct {
	programID domain.Address
}

// NewDeriver returns a deriver for programID.
func NewDeriver(programID domain.Address) *Deriver {
	return &Deriver{programID: programID}
}

// ProgramID returns the program id all addresses are derived under.
func (d *Deriver) ProgramID() domain.Address {
	return d.programID
}

func (d *Deriver) Pool(companyName string) (domain.Address, uint8, error) {
	return FindProgramAddress(d.programID, PoolSeeds(companyName)...)
}

func (d *Deriver) Treasury(companyName string) (domain.Address, uint8, error) {
	return FindProgramAddress(d.programID, TreasurySeeds(companyName)...)
}

// TreasurySigner rebuilds the program signer that owns a pool's treasury.
func (d *Deriver) TreasurySigner(companyName string, bump uint8) (Signer, error) {
	return SignerWithBump(d.programID, bump, TreasurySeeds(companyName)...)
}

func (d *Deriver) Employee(beneficiary, pool domain.Address) (domain.Address, uint8, error) {
	return FindProgramAddress(d.programID, EmployeeSeeds(beneficiary, pool)...)
}

func (d *Deriver) AssociatedTokenAccount(owner, mint domain.Address) (domain.Address, error) {
	addr, _, err := FindProgramAddress(d.programID, AssociatedTokenSeeds(owner, mint)...)
	return addr, err
}

func (d *Deriver) Mint(authority domain.Address, nonce []byte) (domain.Address, error) {
	addr, _, err := FindProgramAddress(d.programID, MintSeeds(authority, nonce)...)
	return addr, err
}
