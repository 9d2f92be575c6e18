package service

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/vesting-service/internal/cache"
	"github.com/spec-kit/vesting-service/internal/clock"
	"github.com/spec-kit/vesting-service/internal/config"
	"github.com/spec-kit/vesting-service/internal/domain"
	"github.com/spec-kit/vesting-service/internal/events"
	"github.com/spec-kit/vesting-service/internal/ledger"
	"github.com/spec-kit/vesting-service/internal/pda"
	"github.com/spec-kit/vesting-service/internal/repository"
)

const treasuryFunding = 10000 * 1_000_000_000

type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) SubscribeAll(events.EventHandler) {}

func (d *recordingDispatcher) types() []events.EventType {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]events.EventType, 0, len(d.events))
	for _, e := range d.events {
		out = append(out, e.Type)
	}
	return out
}

type vestingFixture struct {
	ctx        context.Context
	store      repository.Store
	ledger     *ledger.Ledger
	clock      *clock.Manual
	dispatcher *recordingDispatcher
	vesting    *VestingService
	tokens     *TokenService
	authority  domain.Address
	mint       domain.Address
}

func newWallet(t *testing.T) (domain.Address, ed25519.PrivateKey) {
	t.Helper()
	pub, key, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	addr, err := domain.AddressFromBytes(pub)
	require.NoError(t, err)
	return addr, key
}

func newWalletAddress(t *testing.T) domain.Address {
	t.Helper()
	addr, _ := newWallet(t)
	return addr
}

func newVestingFixture(t *testing.T, poolCache *cache.PoolCache) *vestingFixture {
	t.Helper()
	return newVestingFixtureOn(t, repository.NewMemoryStore(), poolCache, zap.NewNop())
}

func newVestingFixtureOn(t *testing.T, store repository.Store, poolCache *cache.PoolCache, logger *zap.Logger) *vestingFixture {
	t.Helper()
	f := &vestingFixture{
		ctx:        context.Background(),
		store:      store,
		ledger:     ledger.New(pda.NewDeriver(domain.MustParseAddress(config.DefaultProgramID))),
		clock:      clock.NewManual(0),
		dispatcher: &recordingDispatcher{},
		authority:  newWalletAddress(t),
	}
	f.tokens = NewTokenService(TokenDependencies{Store: f.store, Ledger: f.ledger, Dispatcher: f.dispatcher, Logger: logger})
	f.vesting = NewVestingService(VestingDependencies{
		Store:      f.store,
		Ledger:     f.ledger,
		Clock:      f.clock,
		PoolCache:  poolCache,
		Dispatcher: f.dispatcher,
		Logger:     logger,
	})

	mint, err := f.tokens.CreateMint(f.ctx, f.authority, 9)
	require.NoError(t, err)
	f.mint = mint.Address
	_, err = f.tokens.MintTo(f.ctx, f.authority, f.mint, f.authority, treasuryFunding)
	require.NoError(t, err)
	return f
}

func (f *vestingFixture) createPool(t *testing.T, company string) *domain.VestingPool {
	t.Helper()
	pool, err := f.vesting.CreatePool(f.ctx, f.authority, CreatePoolInput{CompanyName: company, Mint: f.mint})
	require.NoError(t, err)
	return pool
}

func (f *vestingFixture) fundTreasury(t *testing.T, pool *domain.VestingPool, amount uint64) {
	t.Helper()
	_, err := f.tokens.Transfer(f.ctx, f.authority, f.mint, pool.Treasury, amount)
	require.NoError(t, err)
}

func (f *vestingFixture) enroll(t *testing.T, company string, beneficiary domain.Address, start, cliff, end int64, total uint64) *domain.EmployeeVestingRecord {
	t.Helper()
	record, err := f.vesting.Enroll(f.ctx, f.authority, EnrollInput{
		CompanyName:     company,
		Beneficiary:     beneficiary,
		StartTime:       &start,
		CliffTime:       &cliff,
		EndTime:         &end,
		TotalAllocation: total,
	})
	require.NoError(t, err)
	return record
}

func (f *vestingFixture) balance(t *testing.T, addr domain.Address) uint64 {
	t.Helper()
	account, err := f.tokens.GetAccount(f.ctx, addr)
	require.NoError(t, err)
	return account.Balance
}

func (f *vestingFixture) walletBalance(t *testing.T, owner domain.Address) uint64 {
	t.Helper()
	ata, err := f.ledger.Deriver().AssociatedTokenAccount(owner, f.mint)
	require.NoError(t, err)
	return f.balance(t, ata)
}

func (f *vestingFixture) record(t *testing.T, company string, beneficiary domain.Address) domain.EmployeeVestingRecord {
	t.Helper()
	view, err := f.vesting.GetRecord(f.ctx, company, beneficiary)
	require.NoError(t, err)
	return view.Record
}

func ptr[T any](v T) *T {
	return &v
}
