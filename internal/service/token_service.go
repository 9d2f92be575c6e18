package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/vesting-service/internal/domain"
	"github.com/spec-kit/vesting-service/internal/events"
	"github.com/spec-kit/vesting-service/internal/ledger"
	"github.com/spec-kit/vesting-service/internal/repository"
)

// TokenService exposes the token ledger to wallets: mints, balances and transfers.
type TokenService struct {
	store      repository.Store
	ledger     *ledger.Ledger
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TokenDependencies bundles collaborators for the token service.
type TokenDependencies struct {
	Store      repository.Store
	Ledger     *ledger.Ledger
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// TransferResult reports a completed transfer.
type TransferResult struct {
	Mint   domain.Address
	From   domain.Address
	To     domain.Address
	Amount uint64
}

// NewTokenService constructs the service.
func NewTokenService(deps TokenDependencies) *TokenService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TokenService{
		store:      deps.Store,
		ledger:     deps.Ledger,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// CreateMint registers a mint whose authority is the signer.
func (s *TokenService) CreateMint(ctx context.Context, signer domain.Address, decimals uint8) (*domain.Mint, error) {
	nonce := uuid.New()
	addr, err := s.ledger.Deriver().Mint(signer, nonce[:])
	if err != nil {
		return nil, err
	}

	var mint *domain.Mint
	err = s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		mint, err = s.ledger.CreateMint(ctx, tx, addr, decimals, signer)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("mint created", zap.Stringer("mint", mint.Address), zap.Uint8("decimals", decimals))
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:    events.EventMintCreated,
		Subject: mint.Address,
		Actor:   signer,
		Payload: events.MintCreatedPayload{Decimals: decimals, MintAuthority: signer},
	})
	return mint, nil
}

// MintTo issues amount into the owner's associated account. Only the mint authority may sign.
func (s *TokenService) MintTo(ctx context.Context, signer, mintAddr, owner domain.Address, amount uint64) (*domain.TokenAccount, error) {
	var account *domain.TokenAccount
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		dest, err := s.ledger.OpenAssociatedAccount(ctx, tx, owner, mintAddr)
		if err != nil {
			return err
		}
		if err := s.ledger.MintTo(ctx, tx, mintAddr, dest.Address, amount, ledger.Wallet(signer)); err != nil {
			return err
		}
		account, err = tx.TokenAccounts().GetByAddress(ctx, dest.Address)
		return err
	})
	if err != nil {
		return nil, err
	}

	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:    events.EventTokensMinted,
		Subject: mintAddr,
		Actor:   signer,
		Payload: events.TokensMintedPayload{Destination: account.Address, Amount: amount},
	})
	return account, nil
}

// OpenAccount returns the owner's associated account for mint, creating it if needed.
func (s *TokenService) OpenAccount(ctx context.Context, owner, mintAddr domain.Address) (*domain.TokenAccount, error) {
	var account *domain.TokenAccount
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		account, err = s.ledger.OpenAssociatedAccount(ctx, tx, owner, mintAddr)
		return err
	})
	return account, err
}

// Transfer moves amount from the signer's associated account. to is either an
// existing token account (a pool treasury, for instance) or a wallet whose
// associated account receives the funds.
func (s *TokenService) Transfer(ctx context.Context, signer, mintAddr, to domain.Address, amount uint64) (*TransferResult, error) {
	result := &TransferResult{Mint: mintAddr, Amount: amount}
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		from, err := s.ledger.Deriver().AssociatedTokenAccount(signer, mintAddr)
		if err != nil {
			return err
		}
		dest, err := tx.TokenAccounts().GetByAddress(ctx, to)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			if dest, err = s.ledger.OpenAssociatedAccount(ctx, tx, to, mintAddr); err != nil {
				return err
			}
		case err != nil:
			return err
		}
		result.From, result.To = from, dest.Address
		return s.ledger.Transfer(ctx, tx, from, dest.Address, amount, ledger.Wallet(signer))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("tokens transferred",
		zap.Stringer("from", result.From),
		zap.Stringer("to", result.To),
		zap.Uint64("amount", amount))
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:    events.EventTokensTransferred,
		Subject: result.To,
		Actor:   signer,
		Payload: events.TokensTransferredPayload{
			Mint:   mintAddr,
			From:   result.From,
			To:     result.To,
			Amount: amount,
		},
	})
	return result, nil
}

// GetAccount reads a token account.
func (s *TokenService) GetAccount(ctx context.Context, addr domain.Address) (*domain.TokenAccount, error) {
	var account *domain.TokenAccount
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		account, err = tx.TokenAccounts().GetByAddress(ctx, addr)
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrAccountNotFound
		}
		return err
	})
	return account, err
}

// GetMint reads a mint.
func (s *TokenService) GetMint(ctx context.Context, addr domain.Address) (*domain.Mint, error) {
	var mint *domain.Mint
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		mint, err = tx.Mints().GetByAddress(ctx, addr)
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrMintNotFound
		}
		return err
	})
	return mint, err
}
