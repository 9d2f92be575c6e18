package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/vesting-service/internal/domain"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type postgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore returns a Store backed by a pgx pool.
func NewPostgresStore(pool *pgxpool.Pool) Store {
	return &postgresStore{pool: pool}
}

func (s *postgresStore) WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	return pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		return fn(ctx, &postgresTx{db: tx})
	})
}

type postgresTx struct {
	db querier
}

func (t *postgresTx) Pools() PoolRepository {
	return &poolRepository{db: t.db}
}

func (t *postgresTx) Employees() EmployeeRepository {
	return &employeeRepository{db: t.db}
}

func (t *postgresTx) Mints() MintRepository {
	return &mintRepository{db: t.db}
}

func (t *postgresTx) TokenAccounts() TokenAccountRepository {
	return &tokenAccountRepository{db: t.db}
}

func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return fmt.Errorf("%w: %s", ErrConflict, pgErr.ConstraintName)
		case foreignKeyViolation:
			return fmt.Errorf("%w: %s", ErrMissingReference, pgErr.ConstraintName)
		}
	}
	return err
}

func formatAmount(v uint64) string {
	return strconv.FormatUint(v, 10)
}

func parseAmount(s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return v, nil
}

// addressScan collects base58 columns and decodes them after Scan.
type addressScan struct {
	raw  []*string
	dsts []*domain.Address
}

func (a *addressScan) target(dst *domain.Address) *string {
	s := new(string)
	a.raw = append(a.raw, s)
	a.dsts = append(a.dsts, dst)
	return s
}

func (a *addressScan) decode() error {
	for i, dst := range a.dsts {
		addr, err := domain.ParseAddress(*a.raw[i])
		if err != nil {
			return err
		}
		*dst = addr
	}
	return nil
}
