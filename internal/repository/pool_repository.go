package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/vesting-service/internal/domain"
)

type poolRepository struct {
	db querier
}

const poolColumns = `address, company_name, mint, treasury, authority, treasury_bump, pool_bump, created_at`

func (r *poolRepository) Create(ctx context.Context, pool *domain.VestingPool) error {
	const query = `
        INSERT INTO vesting_pools (address, company_name, mint, treasury, authority, treasury_bump, pool_bump)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING created_at`
	err := r.db.QueryRow(ctx, query,
		pool.Address.String(),
		pool.CompanyName,
		pool.Mint.String(),
		pool.Treasury.String(),
		pool.Authority.String(),
		int16(pool.TreasuryBump),
		int16(pool.PoolBump),
	).Scan(&pool.CreatedAt)
	return translateError(err)
}

func (r *poolRepository) GetByAddress(ctx context.Context, addr domain.Address) (*domain.VestingPool, error) {
	query := fmt.Sprintf(`SELECT %s FROM vesting_pools WHERE address=$1`, poolColumns)
	return scanPool(r.db.QueryRow(ctx, query, addr.String()))
}

func (r *poolRepository) List(ctx context.Context, limit, offset int) ([]domain.VestingPool, error) {
	limit, offset = normalizePage(limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM vesting_pools ORDER BY created_at, company_name LIMIT %d OFFSET %d`,
		poolColumns, limit, offset)
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.VestingPool
	for rows.Next() {
		pool, err := scanPool(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *pool)
	}
	return result, rows.Err()
}

func scanPool(row pgx.Row) (*domain.VestingPool, error) {
	var (
		pool                    domain.VestingPool
		addrs                   addressScan
		treasuryBump, poolBump int16
	)
	if err := row.Scan(
		addrs.target(&pool.Address),
		&pool.CompanyName,
		addrs.target(&pool.Mint),
		addrs.target(&pool.Treasury),
		addrs.target(&pool.Authority),
		&treasuryBump,
		&poolBump,
		&pool.CreatedAt,
	); err != nil {
		return nil, translateError(err)
	}
	if err := addrs.decode(); err != nil {
		return nil, err
	}
	pool.TreasuryBump = uint8(treasuryBump)
	pool.PoolBump = uint8(poolBump)
	return &pool, nil
}
