package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/spec-kit/vesting-service/internal/cache"
	"github.com/spec-kit/vesting-service/internal/clock"
	"github.com/spec-kit/vesting-service/internal/domain"
	"github.com/spec-kit/vesting-service/internal/events"
	"github.com/spec-kit/vesting-service/internal/ledger"
	"github.com/spec-kit/vesting-service/internal/observability"
	"github.com/spec-kit/vesting-service/internal/pda"
	"github.com/spec-kit/vesting-service/internal/repository"
	"github.com/spec-kit/vesting-service/internal/schedule"
	"github.com/spec-kit/vesting-service/pkg/util/errorutil"
)

// Claim outcomes reported to metrics.
const (
	ClaimOutcomeReleased = "released"
	ClaimOutcomeNothing  = "nothing_to_claim"
	ClaimOutcomeRejected = "rejected"
)

// VestingService coordinates pool creation, enrollment and claims.
type VestingService struct {
	store      repository.Store
	ledger     *ledger.Ledger
	deriver    *pda.Deriver
	clock      clock.Clock
	pools      *cache.PoolCache
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// VestingDependencies bundles collaborators for the vesting service.
type VestingDependencies struct {
	Store      repository.Store
	Ledger     *ledger.Ledger
	Clock      clock.Clock
	PoolCache  *cache.PoolCache
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// CreatePoolInput describes a new pool.
type CreatePoolInput struct {
	CompanyName string
	Mint        domain.Address
}

// EnrollInput describes a beneficiary schedule. A nil StartTime means now.
// Cliff and end are given either as absolute instants or as deltas from start;
// a missing cliff equals start.
type EnrollInput struct {
	CompanyName     string
	Beneficiary     domain.Address
	StartTime       *int64
	CliffTime       *int64
	CliffDelta      *int64
	EndTime         *int64
	EndDelta        *int64
	TotalAllocation uint64
}

// ClaimInput names the record to claim from. A zero Beneficiary means the signer.
type ClaimInput struct {
	CompanyName string
	Beneficiary domain.Address
}

// ClaimResult reports a successful release.
type ClaimResult struct {
	Record      domain.EmployeeVestingRecord
	Amount      uint64
	Destination domain.Address
	ClaimedAt   int64
}

// RecordView is a record evaluated at an instant.
type RecordView struct {
	Record    domain.EmployeeVestingRecord
	Vested    uint64
	Claimable uint64
	At        int64
}

// NewVestingService constructs the service.
func NewVestingService(deps VestingDependencies) *VestingService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clk := deps.Clock
	if clk == nil {
		clk = clock.System{}
	}
	return &VestingService{
		store:      deps.Store,
		ledger:     deps.Ledger,
		deriver:    deps.Ledger.Deriver(),
		clock:      clk,
		pools:      deps.PoolCache,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
	}
}

// CreatePool initialises a company pool and its treasury account in one transaction.
// The treasury's token authority is its own derived address.
func (s *VestingService) CreatePool(ctx context.Context, signer domain.Address, input CreatePoolInput) (*domain.VestingPool, error) {
	if err := validateCompanyName(input.CompanyName); err != nil {
		return nil, err
	}
	poolAddr, poolBump, err := s.deriver.Pool(input.CompanyName)
	if err != nil {
		return nil, err
	}
	treasuryAddr, treasuryBump, err := s.deriver.Treasury(input.CompanyName)
	if err != nil {
		return nil, err
	}

	pool := &domain.VestingPool{
		Address:      poolAddr,
		CompanyName:  input.CompanyName,
		Mint:         input.Mint,
		Treasury:     treasuryAddr,
		Authority:    signer,
		TreasuryBump: treasuryBump,
		PoolBump:     poolBump,
	}

	err = s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		if _, err := tx.Pools().GetByAddress(ctx, poolAddr); err == nil {
			return domain.ErrDuplicatePool
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if _, err := tx.Mints().GetByAddress(ctx, input.Mint); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.ErrMintNotFound
			}
			return err
		}
		// The pool row references its treasury account, so the account goes first.
		if _, err := s.ledger.CreateAccount(ctx, tx, treasuryAddr, input.Mint, treasuryAddr); err != nil {
			if errors.Is(err, domain.ErrAccountExists) {
				return domain.ErrDuplicatePool
			}
			return err
		}
		if err := tx.Pools().Create(ctx, pool); err != nil {
			switch {
			case errors.Is(err, repository.ErrConflict):
				return domain.ErrDuplicatePool
			case errors.Is(err, repository.ErrMissingReference):
				return domain.ErrMintNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordPoolCreated()
	if err := s.pools.Set(ctx, pool); err != nil {
		s.logger.Warn("cache pool", zap.String("company", pool.CompanyName), zap.Error(err))
	}
	s.logger.Info("vesting pool created",
		zap.String("company", pool.CompanyName),
		zap.Stringer("pool", pool.Address),
		zap.Stringer("treasury", pool.Treasury),
		zap.Stringer("authority", pool.Authority))
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:    events.EventPoolCreated,
		Subject: pool.Address,
		Actor:   signer,
		Payload: events.PoolCreatedPayload{
			CompanyName: pool.CompanyName,
			Mint:        pool.Mint,
			Treasury:    pool.Treasury,
		},
	})
	return pool, nil
}

// Enroll registers a beneficiary schedule. Only the pool authority may enroll.
func (s *VestingService) Enroll(ctx context.Context, signer domain.Address, input EnrollInput) (*domain.EmployeeVestingRecord, error) {
	if input.Beneficiary.IsZero() {
		return nil, errorutil.NewValidationError("beneficiary is required", nil)
	}
	window, err := s.resolveWindow(input)
	if err != nil {
		return nil, err
	}
	if err := schedule.Validate(window, input.TotalAllocation); err != nil {
		return nil, err
	}

	var record *domain.EmployeeVestingRecord
	err = s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		pool, err := s.loadPool(ctx, tx, input.CompanyName)
		if err != nil {
			return err
		}
		if signer != pool.Authority {
			return domain.ErrUnauthorized
		}
		addr, bump, err := s.deriver.Employee(input.Beneficiary, pool.Address)
		if err != nil {
			return err
		}
		if _, err := tx.Employees().GetByAddress(ctx, addr); err == nil {
			return domain.ErrDuplicateEnrollment
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		record = &domain.EmployeeVestingRecord{
			Address:         addr,
			Beneficiary:     input.Beneficiary,
			Pool:            pool.Address,
			StartTime:       window.Start,
			CliffTime:       window.Cliff,
			EndTime:         window.End,
			TotalAllocation: input.TotalAllocation,
			Bump:            bump,
		}
		if err := tx.Employees().Create(ctx, record); err != nil {
			switch {
			case errors.Is(err, repository.ErrConflict):
				return domain.ErrDuplicateEnrollment
			case errors.Is(err, repository.ErrMissingReference):
				return domain.ErrPoolNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordEnrollment()
	s.logger.Info("beneficiary enrolled",
		zap.String("company", input.CompanyName),
		zap.Stringer("beneficiary", record.Beneficiary),
		zap.Stringer("record", record.Address),
		zap.Uint64("total_allocation", record.TotalAllocation))
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:    events.EventEmployeeEnrolled,
		Subject: record.Address,
		Actor:   signer,
		Payload: events.EmployeeEnrolledPayload{
			Pool:            record.Pool,
			Beneficiary:     record.Beneficiary,
			StartTime:       record.StartTime,
			CliffTime:       record.CliffTime,
			EndTime:         record.EndTime,
			TotalAllocation: record.TotalAllocation,
		},
	})
	return record, nil
}

// Claim releases everything vested and not yet withdrawn to the beneficiary's
// token account. Transfer and withdrawn counter commit together.
func (s *VestingService) Claim(ctx context.Context, signer domain.Address, input ClaimInput) (*ClaimResult, error) {
	beneficiary := input.Beneficiary
	if beneficiary.IsZero() {
		beneficiary = signer
	}

	var result *ClaimResult
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		pool, err := s.loadPool(ctx, tx, input.CompanyName)
		if err != nil {
			return err
		}
		recordAddr, _, err := s.deriver.Employee(beneficiary, pool.Address)
		if err != nil {
			return err
		}
		record, err := tx.Employees().GetForUpdate(ctx, recordAddr)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.ErrRecordNotFound
			}
			return err
		}
		if signer != record.Beneficiary {
			return domain.ErrUnauthorized
		}

		now := s.clock.Now()
		vested, claimable, err := schedule.ForRecord(now, record)
		if err != nil {
			return err
		}
		if claimable == 0 {
			return domain.ErrNothingToClaim
		}
		if record.TotalWithdrawn > math.MaxUint64-claimable {
			return domain.ErrArithmeticOverflow
		}

		dest, err := s.ledger.OpenAssociatedAccount(ctx, tx, record.Beneficiary, pool.Mint)
		if err != nil {
			return err
		}
		treasurySigner, err := s.deriver.TreasurySigner(pool.CompanyName, pool.TreasuryBump)
		if err != nil {
			return err
		}
		if err := s.ledger.Transfer(ctx, tx, pool.Treasury, dest.Address, claimable, ledger.Program(treasurySigner)); err != nil {
			if errors.Is(err, domain.ErrInsufficientFunds) {
				balance, _ := s.ledger.Balance(ctx, tx, pool.Treasury)
				return domain.ErrInsufficientTreasuryBalance.WithDetails(map[string]any{
					"treasury":  pool.Treasury.String(),
					"balance":   balance,
					"claimable": claimable,
				})
			}
			return err
		}

		withdrawn := record.TotalWithdrawn + claimable
		if err := tx.Employees().UpdateWithdrawn(ctx, record.Address, withdrawn); err != nil {
			return err
		}
		record.TotalWithdrawn = withdrawn
		s.logger.Debug("claim computed",
			zap.Stringer("record", record.Address),
			zap.Int64("now", now),
			zap.Uint64("vested", vested),
			zap.Uint64("claimable", claimable))
		result = &ClaimResult{
			Record:      *record,
			Amount:      claimable,
			Destination: dest.Address,
			ClaimedAt:   now,
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNothingToClaim):
			s.metrics.RecordClaim(ClaimOutcomeNothing, 0)
		default:
			s.metrics.RecordClaim(ClaimOutcomeRejected, 0)
		}
		return nil, err
	}

	s.metrics.RecordClaim(ClaimOutcomeReleased, result.Amount)
	s.logger.Info("tokens claimed",
		zap.String("company", input.CompanyName),
		zap.Stringer("beneficiary", result.Record.Beneficiary),
		zap.Uint64("amount", result.Amount),
		zap.Uint64("total_withdrawn", result.Record.TotalWithdrawn))
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:    events.EventTokensClaimed,
		Subject: result.Record.Address,
		Actor:   signer,
		Payload: events.TokensClaimedPayload{
			Pool:           result.Record.Pool,
			Beneficiary:    result.Record.Beneficiary,
			Destination:    result.Destination,
			Amount:         result.Amount,
			TotalWithdrawn: result.Record.TotalWithdrawn,
			ClaimedAt:      result.ClaimedAt,
		},
	})
	return result, nil
}

// GetPool returns a pool by company name, served from cache when possible.
func (s *VestingService) GetPool(ctx context.Context, companyName string) (*domain.VestingPool, error) {
	if cached, err := s.pools.Get(ctx, companyName); err != nil {
		s.logger.Warn("read pool cache", zap.String("company", companyName), zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	var pool *domain.VestingPool
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		pool, err = s.loadPool(ctx, tx, companyName)
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := s.pools.Set(ctx, pool); err != nil {
		s.logger.Warn("cache pool", zap.String("company", companyName), zap.Error(err))
	}
	return pool, nil
}

// ListPools pages through pools in creation order.
func (s *VestingService) ListPools(ctx context.Context, limit, offset int) ([]domain.VestingPool, error) {
	var pools []domain.VestingPool
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		pools, err = tx.Pools().List(ctx, limit, offset)
		return err
	})
	if pools == nil {
		pools = []domain.VestingPool{}
	}
	return pools, err
}

// GetRecord returns a beneficiary's record in a pool evaluated at the current instant.
func (s *VestingService) GetRecord(ctx context.Context, companyName string, beneficiary domain.Address) (*RecordView, error) {
	var view *RecordView
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		pool, err := s.loadPool(ctx, tx, companyName)
		if err != nil {
			return err
		}
		addr, _, err := s.deriver.Employee(beneficiary, pool.Address)
		if err != nil {
			return err
		}
		record, err := tx.Employees().GetByAddress(ctx, addr)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.ErrRecordNotFound
			}
			return err
		}
		view, err = s.Preview(record, s.clock.Now())
		return err
	})
	return view, err
}

// Preview evaluates record at the given instant without touching state.
func (s *VestingService) Preview(record *domain.EmployeeVestingRecord, at int64) (*RecordView, error) {
	vested, claimable, err := schedule.ForRecord(at, record)
	if err != nil {
		return nil, err
	}
	return &RecordView{Record: *record, Vested: vested, Claimable: claimable, At: at}, nil
}

// ListRecordsByPool pages through the records of one pool.
func (s *VestingService) ListRecordsByPool(ctx context.Context, companyName string, limit, offset int) ([]RecordView, error) {
	var records []domain.EmployeeVestingRecord
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		pool, err := s.loadPool(ctx, tx, companyName)
		if err != nil {
			return err
		}
		records, err = tx.Employees().ListByPool(ctx, pool.Address, limit, offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.previewAll(records)
}

// ListRecordsByBeneficiary pages through every record held by one beneficiary.
func (s *VestingService) ListRecordsByBeneficiary(ctx context.Context, beneficiary domain.Address, limit, offset int) ([]RecordView, error) {
	var records []domain.EmployeeVestingRecord
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		records, err = tx.Employees().ListByBeneficiary(ctx, beneficiary, limit, offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.previewAll(records)
}

func (s *VestingService) previewAll(records []domain.EmployeeVestingRecord) ([]RecordView, error) {
	now := s.clock.Now()
	views := make([]RecordView, 0, len(records))
	for i := range records {
		view, err := s.Preview(&records[i], now)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

func (s *VestingService) loadPool(ctx context.Context, tx repository.Tx, companyName string) (*domain.VestingPool, error) {
	if err := validateCompanyName(companyName); err != nil {
		return nil, err
	}
	addr, _, err := s.deriver.Pool(companyName)
	if err != nil {
		return nil, err
	}
	pool, err := tx.Pools().GetByAddress(ctx, addr)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrPoolNotFound
		}
		return nil, err
	}
	return pool, nil
}

func (s *VestingService) resolveWindow(input EnrollInput) (schedule.Window, error) {
	var w schedule.Window
	if input.StartTime != nil {
		w.Start = *input.StartTime
	} else {
		w.Start = s.clock.Now()
	}

	cliff, err := resolveInstant(w.Start, input.CliffTime, input.CliffDelta, "cliff")
	if err != nil {
		return w, err
	}
	if cliff == nil {
		w.Cliff = w.Start
	} else {
		w.Cliff = *cliff
	}

	end, err := resolveInstant(w.Start, input.EndTime, input.EndDelta, "end")
	if err != nil {
		return w, err
	}
	if end == nil {
		return w, fmt.Errorf("%w: end time is required", domain.ErrInvalidSchedule)
	}
	w.End = *end
	return w, nil
}

func resolveInstant(start int64, absolute, delta *int64, name string) (*int64, error) {
	switch {
	case absolute != nil && delta != nil:
		return nil, errorutil.NewValidationError(name+" given both as time and as delta", nil)
	case absolute != nil:
		return absolute, nil
	case delta != nil:
		if *delta < 0 {
			return nil, fmt.Errorf("%w: negative %s delta", domain.ErrInvalidSchedule, name)
		}
		if start > math.MaxInt64-*delta {
			return nil, domain.ErrArithmeticOverflow
		}
		at := start + *delta
		return &at, nil
	default:
		return nil, nil
	}
}

func validateCompanyName(name string) error {
	if len(name) == 0 || len(name) > domain.MaxCompanyNameLength {
		return domain.ErrInvalidCompanyName
	}
	return nil
}
