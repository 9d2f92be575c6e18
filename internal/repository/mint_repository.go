package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/vesting-service/internal/domain"
)

type mintRepository struct {
	db querier
}

func (r *mintRepository) Create(ctx context.Context, mint *domain.Mint) error {
	const query = `
        INSERT INTO mints (address, decimals, mint_authority, supply)
        VALUES ($1,$2,$3,$4::numeric)
        RETURNING created_at`
	err := r.db.QueryRow(ctx, query,
		mint.Address.String(),
		int16(mint.Decimals),
		mint.MintAuthority.String(),
		formatAmount(mint.Supply),
	).Scan(&mint.CreatedAt)
	return translateError(err)
}

func (r *mintRepository) GetByAddress(ctx context.Context, addr domain.Address) (*domain.Mint, error) {
	const query = `
        SELECT address, decimals, mint_authority, supply::text, created_at
        FROM mints WHERE address=$1`
	return scanMint(r.db.QueryRow(ctx, query, addr.String()))
}

func (r *mintRepository) GetForUpdate(ctx context.Context, addr domain.Address) (*domain.Mint, error) {
	const query = `
        SELECT address, decimals, mint_authority, supply::text, created_at
        FROM mints WHERE address=$1 FOR UPDATE`
	return scanMint(r.db.QueryRow(ctx, query, addr.String()))
}

func (r *mintRepository) UpdateSupply(ctx context.Context, addr domain.Address, supply uint64) error {
	cmd, err := r.db.Exec(ctx, `UPDATE mints SET supply=$1::numeric WHERE address=$2`, formatAmount(supply), addr.String())
	if err != nil {
		return translateError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanMint(row pgx.Row) (*domain.Mint, error) {
	var (
		mint     domain.Mint
		addrs    addressScan
		decimals int16
		supply   string
	)
	if err := row.Scan(
		addrs.target(&mint.Address),
		&decimals,
		addrs.target(&mint.MintAuthority),
		&supply,
		&mint.CreatedAt,
	); err != nil {
		return nil, translateError(err)
	}
	if err := addrs.decode(); err != nil {
		return nil, err
	}
	var err error
	if mint.Supply, err = parseAmount(supply); err != nil {
		return nil, err
	}
	mint.Decimals = uint8(decimals)
	return &mint, nil
}
