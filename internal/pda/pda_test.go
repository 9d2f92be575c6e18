package pda

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/vesting-service/internal/domain"
)

var testProgramID = domain.MustParseAddress("JAVuBXeBZqXNtS73azhBDAoYaaAFfo4gWXoZe2e7Jf8H")

func walletAddress(t *testing.T) domain.Address {
	t.Helper()
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	addr, err := domain.AddressFromBytes(pub)
	require.NoError(t, err)
	return addr
}

func TestFindProgramAddressIsDeterministic(t *testing.T) {
	first, bump1, err := FindProgramAddress(testProgramID, []byte("companyName"))
	require.NoError(t, err)
	second, bump2, err := FindProgramAddress(testProgramID, []byte("companyName"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, bump1, bump2)
	assert.False(t, IsOnCurve(first))
}

func TestFindProgramAddressMatchesCreateWithBump(t *testing.T) {
	addr, bump, err := FindProgramAddress(testProgramID, TreasurySeeds("companyName")...)
	require.NoError(t, err)

	seeds := append(TreasurySeeds("companyName"), []byte{bump})
	recreated, err := CreateProgramAddress(testProgramID, seeds...)
	require.NoError(t, err)
	assert.Equal(t, addr, recreated)
}

func TestDerivationSeparatesInputs(t *testing.T) {
	d := NewDeriver(testProgramID)

	poolA, _, err := d.Pool("alpha")
	require.NoError(t, err)
	poolB, _, err := d.Pool("beta")
	require.NoError(t, err)
	treasuryA, _, err := d.Treasury("alpha")
	require.NoError(t, err)
	assert.NotEqual(t, poolA, poolB)
	assert.NotEqual(t, poolA, treasuryA)

	other := NewDeriver(walletAddress(t))
	foreign, _, err := other.Pool("alpha")
	require.NoError(t, err)
	assert.NotEqual(t, poolA, foreign)

	alice, bob := walletAddress(t), walletAddress(t)
	recA, _, err := d.Employee(alice, poolA)
	require.NoError(t, err)
	recB, _, err := d.Employee(bob, poolA)
	require.NoError(t, err)
	recA2, _, err := d.Employee(alice, poolB)
	require.NoError(t, err)
	assert.NotEqual(t, recA, recB)
	assert.NotEqual(t, recA, recA2)
}

func TestSeedLimits(t *testing.T) {
	_, _, err := FindProgramAddress(testProgramID, bytes.Repeat([]byte{1}, MaxSeedLength+1))
	assert.ErrorIs(t, err, ErrMaxSeedLengthExceeded)

	seeds := make([][]byte, MaxSeeds)
	for i := range seeds {
		seeds[i] = []byte{byte(i)}
	}
	_, _, err = FindProgramAddress(testProgramID, seeds...)
	assert.ErrorIs(t, err, ErrTooManySeeds)

	_, err = CreateProgramAddress(testProgramID, append(seeds, []byte{0})...)
	assert.ErrorIs(t, err, ErrTooManySeeds)
}

func TestWalletKeysAreOnCurve(t *testing.T) {
	for i := 0; i < 8; i++ {
		assert.True(t, IsOnCurve(walletAddress(t)))
	}
}

func TestSignerVerify(t *testing.T) {
	d := NewDeriver(testProgramID)
	treasury, bump, err := d.Treasury("companyName")
	require.NoError(t, err)

	signer, err := d.TreasurySigner("companyName", bump)
	require.NoError(t, err)
	assert.Equal(t, treasury, signer.Address)
	assert.NoError(t, signer.Verify(testProgramID))

	forged := signer
	forged.Seeds = TreasurySeeds("otherCompany")
	assert.Error(t, forged.Verify(testProgramID))

	assert.Error(t, signer.Verify(walletAddress(t)))
}

func TestNewSignerCopiesSeeds(t *testing.T) {
	seed := []byte("companyName")
	signer, err := NewSigner(testProgramID, seed)
	require.NoError(t, err)

	seed[0] = 'X'
	assert.NoError(t, signer.Verify(testProgramID))
}

func TestAssociatedTokenAccountAndMint(t *testing.T) {
	d := NewDeriver(testProgramID)
	owner := walletAddress(t)

	mintA, err := d.Mint(owner, []byte("a"))
	require.NoError(t, err)
	mintB, err := d.Mint(owner, []byte("b"))
	require.NoError(t, err)
	assert.NotEqual(t, mintA, mintB)

	ata, err := d.AssociatedTokenAccount(owner, mintA)
	require.NoError(t, err)
	again, err := d.AssociatedTokenAccount(owner, mintA)
	require.NoError(t, err)
	assert.Equal(t, ata, again)
	assert.False(t, IsOnCurve(ata))
}
