package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sasha-s/go-deadlock"

	"github.com/spec-kit/vesting-service/internal/domain"
)

// MemoryStore keeps all state in process. Each transaction holds the store lock
// for its whole duration and journals undo steps so a failure leaves no trace.
type MemoryStore struct {
	mu        *deadlock.Mutex
	pools     map[domain.Address]domain.VestingPool
	companies map[string]domain.Address
	employees map[domain.Address]domain.EmployeeVestingRecord
	mints     map[domain.Address]domain.Mint
	accounts  map[domain.Address]domain.TokenAccount
	now       func() time.Time
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		mu:        &deadlock.Mutex{},
		pools:     make(map[domain.Address]domain.VestingPool),
		companies: make(map[string]domain.Address),
		employees: make(map[domain.Address]domain.EmployeeVestingRecord),
		mints:     make(map[domain.Address]domain.Mint),
		accounts:  make(map[domain.Address]domain.TokenAccount),
		now:       time.Now,
	}
}

func (s *MemoryStore) WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memoryTx{store: s}
	defer func() {
		if r := recover(); r != nil {
			tx.rollback()
			panic(r)
		}
		if err != nil {
			tx.rollback()
		}
	}()
	return fn(ctx, tx)
}

type memoryTx struct {
	store   *MemoryStore
	journal []func()
}

func (t *memoryTx) record(undo func()) {
	t.journal = append(t.journal, undo)
}

func (t *memoryTx) rollback() {
	for i := len(t.journal) - 1; i >= 0; i-- {
		t.journal[i]()
	}
	t.journal = nil
}

func (t *memoryTx) Pools() PoolRepository                 { return memoryPools{t} }
func (t *memoryTx) Employees() EmployeeRepository         { return memoryEmployees{t} }
func (t *memoryTx) Mints() MintRepository                 { return memoryMints{t} }
func (t *memoryTx) TokenAccounts() TokenAccountRepository { return memoryAccounts{t} }

type memoryPools struct{ tx *memoryTx }

func (r memoryPools) Create(_ context.Context, pool *domain.VestingPool) error {
	s := r.tx.store
	if _, exists := s.pools[pool.Address]; exists {
		return fmt.Errorf("%w: pool %s", ErrConflict, pool.Address)
	}
	if _, exists := s.companies[pool.CompanyName]; exists {
		return fmt.Errorf("%w: company %q", ErrConflict, pool.CompanyName)
	}
	if _, ok := s.mints[pool.Mint]; !ok {
		return fmt.Errorf("%w: mint %s", ErrMissingReference, pool.Mint)
	}
	if _, ok := s.accounts[pool.Treasury]; !ok {
		return fmt.Errorf("%w: treasury %s", ErrMissingReference, pool.Treasury)
	}
	for _, other := range s.pools {
		if other.Treasury == pool.Treasury {
			return fmt.Errorf("%w: treasury %s", ErrConflict, pool.Treasury)
		}
	}
	pool.CreatedAt = s.now()
	s.pools[pool.Address] = *pool
	s.companies[pool.CompanyName] = pool.Address
	addr, name := pool.Address, pool.CompanyName
	r.tx.record(func() {
		delete(s.pools, addr)
		delete(s.companies, name)
	})
	return nil
}

func (r memoryPools) GetByAddress(_ context.Context, addr domain.Address) (*domain.VestingPool, error) {
	pool, ok := r.tx.store.pools[addr]
	if !ok {
		return nil, ErrNotFound
	}
	return &pool, nil
}

func (r memoryPools) List(_ context.Context, limit, offset int) ([]domain.VestingPool, error) {
	all := make([]domain.VestingPool, 0, len(r.tx.store.pools))
	for _, pool := range r.tx.store.pools {
		all = append(all, pool)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].CompanyName < all[j].CompanyName
	})
	return page(all, limit, offset), nil
}

type memoryEmployees struct{ tx *memoryTx }

func (r memoryEmployees) Create(_ context.Context, record *domain.EmployeeVestingRecord) error {
	s := r.tx.store
	if _, exists := s.employees[record.Address]; exists {
		return fmt.Errorf("%w: employee record %s", ErrConflict, record.Address)
	}
	if _, ok := s.pools[record.Pool]; !ok {
		return fmt.Errorf("%w: pool %s", ErrMissingReference, record.Pool)
	}
	for _, existing := range s.employees {
		if existing.Pool == record.Pool && existing.Beneficiary == record.Beneficiary {
			return fmt.Errorf("%w: beneficiary %s in pool %s", ErrConflict, record.Beneficiary, record.Pool)
		}
	}
	record.CreatedAt = s.now()
	record.UpdatedAt = record.CreatedAt
	s.employees[record.Address] = *record
	addr := record.Address
	r.tx.record(func() { delete(s.employees, addr) })
	return nil
}

func (r memoryEmployees) GetByAddress(_ context.Context, addr domain.Address) (*domain.EmployeeVestingRecord, error) {
	record, ok := r.tx.store.employees[addr]
	if !ok {
		return nil, ErrNotFound
	}
	return &record, nil
}

func (r memoryEmployees) GetForUpdate(ctx context.Context, addr domain.Address) (*domain.EmployeeVestingRecord, error) {
	return r.GetByAddress(ctx, addr)
}

func (r memoryEmployees) UpdateWithdrawn(_ context.Context, addr domain.Address, totalWithdrawn uint64) error {
	s := r.tx.store
	prev, ok := s.employees[addr]
	if !ok {
		return ErrNotFound
	}
	next := prev
	next.TotalWithdrawn = totalWithdrawn
	next.UpdatedAt = s.now()
	s.employees[addr] = next
	r.tx.record(func() { s.employees[addr] = prev })
	return nil
}

func (r memoryEmployees) ListByPool(_ context.Context, pool domain.Address, limit, offset int) ([]domain.EmployeeVestingRecord, error) {
	return r.filter(func(rec domain.EmployeeVestingRecord) bool { return rec.Pool == pool }, limit, offset), nil
}

func (r memoryEmployees) ListByBeneficiary(_ context.Context, beneficiary domain.Address, limit, offset int) ([]domain.EmployeeVestingRecord, error) {
	return r.filter(func(rec domain.EmployeeVestingRecord) bool { return rec.Beneficiary == beneficiary }, limit, offset), nil
}

func (r memoryEmployees) filter(keep func(domain.EmployeeVestingRecord) bool, limit, offset int) []domain.EmployeeVestingRecord {
	var matched []domain.EmployeeVestingRecord
	for _, rec := range r.tx.store.employees {
		if keep(rec) {
			matched = append(matched, rec)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].Address.String() < matched[j].Address.String()
	})
	return page(matched, limit, offset)
}

type memoryMints struct{ tx *memoryTx }

func (r memoryMints) Create(_ context.Context, mint *domain.Mint) error {
	s := r.tx.store
	if _, exists := s.mints[mint.Address]; exists {
		return fmt.Errorf("%w: mint %s", ErrConflict, mint.Address)
	}
	mint.CreatedAt = s.now()
	s.mints[mint.Address] = *mint
	addr := mint.Address
	r.tx.record(func() { delete(s.mints, addr) })
	return nil
}

func (r memoryMints) GetByAddress(_ context.Context, addr domain.Address) (*domain.Mint, error) {
	mint, ok := r.tx.store.mints[addr]
	if !ok {
		return nil, ErrNotFound
	}
	return &mint, nil
}

func (r memoryMints) GetForUpdate(ctx context.Context, addr domain.Address) (*domain.Mint, error) {
	return r.GetByAddress(ctx, addr)
}

func (r memoryMints) UpdateSupply(_ context.Context, addr domain.Address, supply uint64) error {
	s := r.tx.store
	prev, ok := s.mints[addr]
	if !ok {
		return ErrNotFound
	}
	next := prev
	next.Supply = supply
	s.mints[addr] = next
	r.tx.record(func() { s.mints[addr] = prev })
	return nil
}

type memoryAccounts struct{ tx *memoryTx }

func (r memoryAccounts) Create(_ context.Context, account *domain.TokenAccount) error {
	s := r.tx.store
	if _, exists := s.accounts[account.Address]; exists {
		return fmt.Errorf("%w: token account %s", ErrConflict, account.Address)
	}
	if _, ok := s.mints[account.Mint]; !ok {
		return fmt.Errorf("%w: mint %s", ErrMissingReference, account.Mint)
	}
	account.CreatedAt = s.now()
	account.UpdatedAt = account.CreatedAt
	s.accounts[account.Address] = *account
	addr := account.Address
	r.tx.record(func() { delete(s.accounts, addr) })
	return nil
}

func (r memoryAccounts) CreateIfAbsent(ctx context.Context, account *domain.TokenAccount) (bool, error) {
	if _, exists := r.tx.store.accounts[account.Address]; exists {
		return false, nil
	}
	if err := r.Create(ctx, account); err != nil {
		return false, err
	}
	return true, nil
}

func (r memoryAccounts) GetByAddress(_ context.Context, addr domain.Address) (*domain.TokenAccount, error) {
	account, ok := r.tx.store.accounts[addr]
	if !ok {
		return nil, ErrNotFound
	}
	return &account, nil
}

func (r memoryAccounts) GetForUpdate(ctx context.Context, addr domain.Address) (*domain.TokenAccount, error) {
	return r.GetByAddress(ctx, addr)
}

func (r memoryAccounts) UpdateBalance(_ context.Context, addr domain.Address, balance uint64) error {
	s := r.tx.store
	prev, ok := s.accounts[addr]
	if !ok {
		return ErrNotFound
	}
	next := prev
	next.Balance = balance
	next.UpdatedAt = s.now()
	s.accounts[addr] = next
	r.tx.record(func() { s.accounts[addr] = prev })
	return nil
}

func page[T any](items []T, limit, offset int) []T {
	limit, offset = normalizePage(limit, offset)
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
