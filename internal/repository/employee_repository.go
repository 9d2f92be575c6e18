package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/vesting-service/internal/domain"
)

type employeeRepository struct {
	db querier
}

const employeeColumns = `address, beneficiary, pool, start_time, cliff_time, end_time,
               total_allocation::text, total_withdrawn::text, bump, created_at, updated_at`

func (r *employeeRepository) Create(ctx context.Context, record *domain.EmployeeVestingRecord) error {
	const query = `
        INSERT INTO employee_vesting_records (address, beneficiary, pool, start_time, cliff_time, end_time,
            total_allocation, total_withdrawn, bump)
        VALUES ($1,$2,$3,$4,$5,$6,$7::numeric,$8::numeric,$9)
        RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		record.Address.String(),
		record.Beneficiary.String(),
		record.Pool.String(),
		record.StartTime,
		record.CliffTime,
		record.EndTime,
		formatAmount(record.TotalAllocation),
		formatAmount(record.TotalWithdrawn),
		int16(record.Bump),
	).Scan(&record.CreatedAt, &record.UpdatedAt)
	return translateError(err)
}

func (r *employeeRepository) GetByAddress(ctx context.Context, addr domain.Address) (*domain.EmployeeVestingRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM employee_vesting_records WHERE address=$1`, employeeColumns)
	return scanEmployee(r.db.QueryRow(ctx, query, addr.String()))
}

func (r *employeeRepository) GetForUpdate(ctx context.Context, addr domain.Address) (*domain.EmployeeVestingRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM employee_vesting_records WHERE address=$1 FOR UPDATE`, employeeColumns)
	return scanEmployee(r.db.QueryRow(ctx, query, addr.String()))
}

func (r *employeeRepository) UpdateWithdrawn(ctx context.Context, addr domain.Address, totalWithdrawn uint64) error {
	const query = `
        UPDATE employee_vesting_records SET total_withdrawn=$1::numeric, updated_at=NOW()
        WHERE address=$2`
	cmd, err := r.db.Exec(ctx, query, formatAmount(totalWithdrawn), addr.String())
	if err != nil {
		return translateError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *employeeRepository) ListByPool(ctx context.Context, pool domain.Address, limit, offset int) ([]domain.EmployeeVestingRecord, error) {
	return r.list(ctx, "pool", pool, limit, offset)
}

func (r *employeeRepository) ListByBeneficiary(ctx context.Context, beneficiary domain.Address, limit, offset int) ([]domain.EmployeeVestingRecord, error) {
	return r.list(ctx, "beneficiary", beneficiary, limit, offset)
}

func (r *employeeRepository) list(ctx context.Context, column string, value domain.Address, limit, offset int) ([]domain.EmployeeVestingRecord, error) {
	limit, offset = normalizePage(limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM employee_vesting_records WHERE %s=$1 ORDER BY created_at, address LIMIT %d OFFSET %d`,
		employeeColumns, column, limit, offset)
	rows, err := r.db.Query(ctx, query, value.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.EmployeeVestingRecord
	for rows.Next() {
		record, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *record)
	}
	return result, rows.Err()
}

func scanEmployee(row pgx.Row) (*domain.EmployeeVestingRecord, error) {
	var (
		record                domain.EmployeeVestingRecord
		addrs                 addressScan
		allocation, withdrawn string
		bump                  int16
	)
	if err := row.Scan(
		addrs.target(&record.Address),
		addrs.target(&record.Beneficiary),
		addrs.target(&record.Pool),
		&record.StartTime,
		&record.CliffTime,
		&record.EndTime,
		&allocation,
		&withdrawn,
		&bump,
		&record.CreatedAt,
		&record.UpdatedAt,
	); err != nil {
		return nil, translateError(err)
	}
	if err := addrs.decode(); err != nil {
		return nil, err
	}
	var err error
	if record.TotalAllocation, err = parseAmount(allocation); err != nil {
		return nil, err
	}
	if record.TotalWithdrawn, err = parseAmount(withdrawn); err != nil {
		return nil, err
	}
	record.Bump = uint8(bump)
	return &record, nil
}
