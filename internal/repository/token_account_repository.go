package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/vesting-service/internal/domain"
)

type tokenAccountRepository struct {
	db querier
}

func (r *tokenAccountRepository) Create(ctx context.Context, account *domain.TokenAccount) error {
	const query = `
        INSERT INTO token_accounts (address, mint, authority, balance)
        VALUES ($1,$2,$3,$4::numeric)
        RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		account.Address.String(),
		account.Mint.String(),
		account.Authority.String(),
		formatAmount(account.Balance),
	).Scan(&account.CreatedAt, &account.UpdatedAt)
	return translateError(err)
}

func (r *tokenAccountRepository) CreateIfAbsent(ctx context.Context, account *domain.TokenAccount) (bool, error) {
	const query = `
        INSERT INTO token_accounts (address, mint, authority, balance)
        VALUES ($1,$2,$3,$4::numeric)
        ON CONFLICT (address) DO NOTHING
        RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		account.Address.String(),
		account.Mint.String(),
		account.Authority.String(),
		formatAmount(account.Balance),
	).Scan(&account.CreatedAt, &account.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, translateError(err)
	}
	return true, nil
}

func (r *tokenAccountRepository) GetByAddress(ctx context.Context, addr domain.Address) (*domain.TokenAccount, error) {
	const query = `
        SELECT address, mint, authority, balance::text, created_at, updated_at
        FROM token_accounts WHERE address=$1`
	return scanTokenAccount(r.db.QueryRow(ctx, query, addr.String()))
}

func (r *tokenAccountRepository) GetForUpdate(ctx context.Context, addr domain.Address) (*domain.TokenAccount, error) {
	const query = `
        SELECT address, mint, authority, balance::text, created_at, updated_at
        FROM token_accounts WHERE address=$1 FOR UPDATE`
	return scanTokenAccount(r.db.QueryRow(ctx, query, addr.String()))
}

func (r *tokenAccountRepository) UpdateBalance(ctx context.Context, addr domain.Address, balance uint64) error {
	const query = `
        UPDATE token_accounts SET balance=$1::numeric, updated_at=NOW()
        WHERE address=$2`
	cmd, err := r.db.Exec(ctx, query, formatAmount(balance), addr.String())
	if err != nil {
		return translateError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanTokenAccount(row pgx.Row) (*domain.TokenAccount, error) {
	var (
		account domain.TokenAccount
		addrs   addressScan
		balance string
	)
	if err := row.Scan(
		addrs.target(&account.Address),
		addrs.target(&account.Mint),
		addrs.target(&account.Authority),
		&balance,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		return nil, translateError(err)
	}
	if err := addrs.decode(); err != nil {
		return nil, err
	}
	var err error
	if account.Balance, err = parseAmount(balance); err != nil {
		return nil, err
	}
	return &account, nil
}
