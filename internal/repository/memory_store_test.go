package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/vesting-service/internal/domain"
)

func addr(b byte) domain.Address {
	var a domain.Address
	a[0] = b
	a[31] = b
	return a
}

var testMint = addr(250)

// seedPool creates a pool together with the mint and treasury account it references.
func seedPool(ctx context.Context, tx Tx, poolAddr domain.Address, company string) error {
	if _, err := tx.Mints().GetByAddress(ctx, testMint); errors.Is(err, ErrNotFound) {
		if err := tx.Mints().Create(ctx, &domain.Mint{Address: testMint, Decimals: 9}); err != nil {
			return err
		}
	}
	treasury := poolAddr
	treasury[1] = 0xee
	if err := tx.TokenAccounts().Create(ctx, &domain.TokenAccount{Address: treasury, Mint: testMint, Authority: treasury}); err != nil {
		return err
	}
	return tx.Pools().Create(ctx, &domain.VestingPool{Address: poolAddr, CompanyName: company, Mint: testMint, Treasury: treasury})
}

func TestMemoryStoreRollsBackFailedTx(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	boom := errors.New("boom")

	err := store.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		require.NoError(t, seedPool(ctx, tx, addr(1), "acme"))
		require.NoError(t, tx.TokenAccounts().Create(ctx, &domain.TokenAccount{Address: addr(2), Mint: testMint}))
		require.NoError(t, tx.TokenAccounts().UpdateBalance(ctx, addr(2), 99))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	err = store.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		_, err := tx.Pools().GetByAddress(ctx, addr(1))
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = tx.TokenAccounts().GetByAddress(ctx, addr(2))
		assert.ErrorIs(t, err, ErrNotFound)
		return seedPool(ctx, tx, addr(1), "acme")
	})
	assert.NoError(t, err)
}

func TestMemoryStoreRollsBackUpdates(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		if err := seedPool(ctx, tx, addr(2), "acme"); err != nil {
			return err
		}
		return tx.Employees().Create(ctx, &domain.EmployeeVestingRecord{Address: addr(1), Pool: addr(2), Beneficiary: addr(3), TotalAllocation: 10})
	}))

	_ = store.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		require.NoError(t, tx.Employees().UpdateWithdrawn(ctx, addr(1), 4))
		require.NoError(t, tx.Employees().UpdateWithdrawn(ctx, addr(1), 8))
		return errors.New("abort")
	})

	require.NoError(t, store.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		record, err := tx.Employees().GetByAddress(ctx, addr(1))
		require.NoError(t, err)
		assert.Equal(t, uint64(0), record.TotalWithdrawn)
		return nil
	}))
}

func TestMemoryStoreRollsBackOnPanic(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	assert.Panics(t, func() {
		_ = store.WithTx(ctx, func(ctx context.Context, tx Tx) error {
			_ = tx.Mints().Create(ctx, &domain.Mint{Address: addr(9)})
			panic("kaboom")
		})
	})

	require.NoError(t, store.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		_, err := tx.Mints().GetByAddress(ctx, addr(9))
		assert.ErrorIs(t, err, ErrNotFound)
		return nil
	}))
}

func TestMemoryStoreConflicts(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		if err := seedPool(ctx, tx, addr(1), "acme"); err != nil {
			return err
		}
		return tx.Employees().Create(ctx, &domain.EmployeeVestingRecord{Address: addr(5), Pool: addr(1), Beneficiary: addr(6)})
	}))

	err := store.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		return seedPool(ctx, tx, addr(2), "acme")
	})
	assert.ErrorIs(t, err, ErrConflict)

	err = store.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		return tx.Employees().Create(ctx, &domain.EmployeeVestingRecord{Address: addr(7), Pool: addr(1), Beneficiary: addr(6)})
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestMemoryStoreEnforcesReferences(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	err := store.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		return tx.TokenAccounts().Create(ctx, &domain.TokenAccount{Address: addr(2), Mint: testMint})
	})
	assert.ErrorIs(t, err, ErrMissingReference)

	require.NoError(t, store.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		return tx.Mints().Create(ctx, &domain.Mint{Address: testMint})
	}))

	err = store.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		return tx.Pools().Create(ctx, &domain.VestingPool{Address: addr(1), CompanyName: "acme", Mint: testMint, Treasury: addr(3)})
	})
	assert.ErrorIs(t, err, ErrMissingReference, "treasury account must exist before the pool")

	err = store.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		return tx.Employees().Create(ctx, &domain.EmployeeVestingRecord{Address: addr(5), Pool: addr(1), Beneficiary: addr(6)})
	})
	assert.ErrorIs(t, err, ErrMissingReference)
}

func TestMemoryStoreCreateIfAbsent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		require.NoError(t, tx.Mints().Create(ctx, &domain.Mint{Address: testMint}))

		created, err := tx.TokenAccounts().CreateIfAbsent(ctx, &domain.TokenAccount{Address: addr(2), Mint: testMint})
		require.NoError(t, err)
		assert.True(t, created)
		require.NoError(t, tx.TokenAccounts().UpdateBalance(ctx, addr(2), 7))

		created, err = tx.TokenAccounts().CreateIfAbsent(ctx, &domain.TokenAccount{Address: addr(2), Mint: testMint})
		require.NoError(t, err)
		assert.False(t, created)

		account, err := tx.TokenAccounts().GetByAddress(ctx, addr(2))
		require.NoError(t, err)
		assert.Equal(t, uint64(7), account.Balance)
		return nil
	}))
}

func TestMemoryStoreListing(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	beneficiary := addr(200)
	require.NoError(t, store.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		for i := byte(1); i <= 5; i++ {
			if err := seedPool(ctx, tx, addr(i), fmt.Sprintf("company-%d", i)); err != nil {
				return err
			}
			record := &domain.EmployeeVestingRecord{Address: addr(100 + i), Pool: addr(i), Beneficiary: beneficiary}
			if err := tx.Employees().Create(ctx, record); err != nil {
				return err
			}
		}
		return nil
	}))

	require.NoError(t, store.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		pools, err := tx.Pools().List(ctx, 2, 1)
		require.NoError(t, err)
		assert.Len(t, pools, 2)

		all, err := tx.Pools().List(ctx, 0, 0)
		require.NoError(t, err)
		assert.Len(t, all, 5)

		none, err := tx.Pools().List(ctx, 10, 10)
		require.NoError(t, err)
		assert.Empty(t, none)

		records, err := tx.Employees().ListByBeneficiary(ctx, beneficiary, 10, 0)
		require.NoError(t, err)
		assert.Len(t, records, 5)

		byPool, err := tx.Employees().ListByPool(ctx, addr(3), 10, 0)
		require.NoError(t, err)
		require.Len(t, byPool, 1)
		assert.Equal(t, addr(103), byPool[0].Address)
		return nil
	}))
}

func TestMemoryStoreHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewMemoryStore().WithTx(ctx, func(context.Context, Tx) error {
		t.Fatal("tx body must not run")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}
