package repository

import (
	"context"
	"errors"

	"github.com/spec-kit/vesting-service/internal/domain"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrConflict         = errors.New("record already exists")
	ErrMissingReference = errors.New("referenced record does not exist")
)

// Store runs units of work atomically. A failing fn rolls back every write it made.
type Store interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx exposes the repositories bound to one unit of work.
type Tx interface {
	Pools() PoolRepository
	Employees() EmployeeRepository
	Mints() MintRepository
	TokenAccounts() TokenAccountRepository
}

// PoolRepository persists vesting pools. Pools are never updated.
type PoolRepository interface {
	Create(ctx context.Context, pool *domain.VestingPool) error
	GetByAddress(ctx context.Context, addr domain.Address) (*domain.VestingPool, error)
	List(ctx context.Context, limit, offset int) ([]domain.VestingPool, error)
}

// EmployeeRepository persists employee vesting records.
type EmployeeRepository interface {
	Create(ctx context.Context, record *domain.EmployeeVestingRecord) error
	GetByAddress(ctx context.Context, addr domain.Address) (*domain.EmployeeVestingRecord, error)
	GetForUpdate(ctx context.Context, addr domain.Address) (*domain.EmployeeVestingRecord, error)
	UpdateWithdrawn(ctx context.Context, addr domain.Address, totalWithdrawn uint64) error
	ListByPool(ctx context.Context, pool domain.Address, limit, offset int) ([]domain.EmployeeVestingRecord, error)
	ListByBeneficiary(ctx context.Context, beneficiary domain.Address, limit, offset int) ([]domain.EmployeeVestingRecord, error)
}

// MintRepository persists token mints.
type MintRepository interface {
	Create(ctx context.Context, mint *domain.Mint) error
	GetByAddress(ctx context.Context, addr domain.Address) (*domain.Mint, error)
	GetForUpdate(ctx context.Context, addr domain.Address) (*domain.Mint, error)
	UpdateSupply(ctx context.Context, addr domain.Address, supply uint64) error
}

// TokenAccountRepository persists token balances.
type TokenAccountRepository interface {
	Create(ctx context.Context, account *domain.TokenAccount) error
	// CreateIfAbsent inserts account unless its address is taken, reporting
	// whether this call created it. A concurrent insert of the same address is
	// not an error.
	CreateIfAbsent(ctx context.Context, account *domain.TokenAccount) (bool, error)
	GetByAddress(ctx context.Context, addr domain.Address) (*domain.TokenAccount, error)
	GetForUpdate(ctx context.Context, addr domain.Address) (*domain.TokenAccount, error)
	UpdateBalance(ctx context.Context, addr domain.Address, balance uint64) error
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
