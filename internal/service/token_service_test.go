package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/vesting-service/internal/domain"
)

func TestTokenServiceLifecycle(t *testing.T) {
	f := newVestingFixture(t, nil)
	alice := newWalletAddress(t)

	mint, err := f.tokens.GetMint(f.ctx, f.mint)
	require.NoError(t, err)
	assert.Equal(t, uint64(treasuryFunding), mint.Supply)
	assert.Equal(t, f.authority, mint.MintAuthority)

	result, err := f.tokens.Transfer(f.ctx, f.authority, f.mint, alice, 250)
	require.NoError(t, err)
	ata, err := f.ledger.Deriver().AssociatedTokenAccount(alice, f.mint)
	require.NoError(t, err)
	assert.Equal(t, ata, result.To)
	assert.Equal(t, uint64(250), f.walletBalance(t, alice))

	_, err = f.tokens.Transfer(f.ctx, alice, f.mint, f.authority, 251)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	_, err = f.tokens.MintTo(f.ctx, alice, f.mint, alice, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidAuthority)

	opened, err := f.tokens.OpenAccount(f.ctx, alice, f.mint)
	require.NoError(t, err)
	assert.Equal(t, ata, opened.Address)
	assert.Equal(t, uint64(250), opened.Balance)

	_, err = f.tokens.GetMint(f.ctx, newWalletAddress(t))
	assert.ErrorIs(t, err, domain.ErrMintNotFound)
}

func TestWalletCannotDrainTreasury(t *testing.T) {
	f := newVestingFixture(t, nil)
	pool := f.createPool(t, "companyName")
	f.fundTreasury(t, pool, 500)

	_, err := f.tokens.Transfer(f.ctx, pool.Treasury, f.mint, f.authority, 1)
	require.Error(t, err)

	assert.Equal(t, uint64(500), f.balance(t, pool.Treasury))
}
