// Package ledger is the token custody primitive: mints, token accounts and
// authority-checked transfers, executed inside a repository transaction.
package ledger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/spec-kit/vesting-service/internal/domain"
	"github.com/spec-kit/vesting-service/internal/pda"
	"github.com/spec-kit/vesting-service/internal/repository"
	"github.com/spec-kit/vesting-service/pkg/util/errorutil"
)

// MaxDecimals bounds mint precision.
const MaxDecimals = 18

// Authority is whoever signs a ledger operation: a wallet key or a program signer.
type Authority struct {
	address domain.Address
	program *pda.Signer
}

// Wallet is an authority proven by a key signature upstream.
func Wallet(addr domain.Address) Authority {
	return Authority{address: addr}
}

// Program is an authority proven by re-deriving a program address.
func Program(signer pda.Signer) Authority {
	return Authority{address: signer.Address, program: &signer}
}

// Address returns the signing address.
func (a Authority) Address() domain.Address {
	return a.address
}

// Ledger executes token operations under one program id.
type Ledger struct {
	deriver *pda.Deriver
}

// New builds a ledger.
func New(deriver *pda.Deriver) *Ledger {
	return &Ledger{deriver: deriver}
}

// Deriver exposes the address deriver the ledger signs with.
func (l *Ledger) Deriver() *pda.Deriver {
	return l.deriver
}

// CreateMint registers a new mint with zero supply.
func (l *Ledger) CreateMint(ctx context.Context, tx repository.Tx, addr domain.Address, decimals uint8, mintAuthority domain.Address) (*domain.Mint, error) {
	if decimals > MaxDecimals {
		return nil, errorutil.NewValidationError("decimals out of range", map[string]any{"max": MaxDecimals})
	}
	mint := &domain.Mint{Address: addr, Decimals: decimals, MintAuthority: mintAuthority}
	if err := tx.Mints().Create(ctx, mint); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, domain.ErrAccountExists
		}
		return nil, err
	}
	return mint, nil
}

// CreateAccount opens an empty token account for mint controlled by authority.
func (l *Ledger) CreateAccount(ctx context.Context, tx repository.Tx, addr, mint, authority domain.Address) (*domain.TokenAccount, error) {
	if _, err := l.mint(ctx, tx, mint); err != nil {
		return nil, err
	}
	account := &domain.TokenAccount{Address: addr, Mint: mint, Authority: authority}
	if err := tx.TokenAccounts().Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, domain.ErrAccountExists
		}
		return nil, err
	}
	return account, nil
}

// OpenAssociatedAccount returns the owner's canonical account for mint, creating
// it when missing. An account opened concurrently by another transaction is
// returned as if it had been found.
func (l *Ledger) OpenAssociatedAccount(ctx context.Context, tx repository.Tx, owner, mint domain.Address) (*domain.TokenAccount, error) {
	addr, err := l.deriver.AssociatedTokenAccount(owner, mint)
	if err != nil {
		return nil, err
	}
	account, err := tx.TokenAccounts().GetByAddress(ctx, addr)
	switch {
	case err == nil:
		if account.Mint != mint {
			return nil, domain.ErrMintMismatch
		}
		return account, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	if _, err := l.mint(ctx, tx, mint); err != nil {
		return nil, err
	}
	account = &domain.TokenAccount{Address: addr, Mint: mint, Authority: owner}
	created, err := tx.TokenAccounts().CreateIfAbsent(ctx, account)
	if err != nil {
		return nil, err
	}
	if created {
		return account, nil
	}
	existing, err := tx.TokenAccounts().GetByAddress(ctx, addr)
	if err != nil {
		return nil, err
	}
	if existing.Mint != mint {
		return nil, domain.ErrMintMismatch
	}
	return existing, nil
}

// MintTo issues new supply into dest. Only the mint authority may sign.
func (l *Ledger) MintTo(ctx context.Context, tx repository.Tx, mintAddr, dest domain.Address, amount uint64, signer Authority) error {
	if amount == 0 {
		return domain.ErrInvalidAmount
	}
	mint, err := tx.Mints().GetForUpdate(ctx, mintAddr)
	if err != nil {
		return notFound(err, domain.ErrMintNotFound)
	}
	if err := l.authorize(mint.MintAuthority, signer); err != nil {
		return err
	}
	account, err := tx.TokenAccounts().GetForUpdate(ctx, dest)
	if err != nil {
		return notFound(err, domain.ErrAccountNotFound)
	}
	if account.Mint != mintAddr {
		return domain.ErrMintMismatch
	}
	if mint.Supply > math.MaxUint64-amount || account.Balance > math.MaxUint64-amount {
		return domain.ErrSupplyOverflow
	}
	if err := tx.Mints().UpdateSupply(ctx, mintAddr, mint.Supply+amount); err != nil {
		return err
	}
	return tx.TokenAccounts().UpdateBalance(ctx, dest, account.Balance+amount)
}

// Transfer moves amount between two accounts of the same mint. signer must be
// the source account's authority.
func (l *Ledger) Transfer(ctx context.Context, tx repository.Tx, from, to domain.Address, amount uint64, signer Authority) error {
	if amount == 0 {
		return domain.ErrInvalidAmount
	}
	src, dst, err := l.lockPair(ctx, tx, from, to)
	if err != nil {
		return err
	}
	if err := l.authorize(src.Authority, signer); err != nil {
		return err
	}
	if src.Mint != dst.Mint {
		return domain.ErrMintMismatch
	}
	if src.Balance < amount {
		return fmt.Errorf("%w: balance %d, requested %d", domain.ErrInsufficientFunds, src.Balance, amount)
	}
	if from == to {
		return nil
	}
	if dst.Balance > math.MaxUint64-amount {
		return domain.ErrSupplyOverflow
	}
	if err := tx.TokenAccounts().UpdateBalance(ctx, from, src.Balance-amount); err != nil {
		return err
	}
	return tx.TokenAccounts().UpdateBalance(ctx, to, dst.Balance+amount)
}

// Balance reads an account balance.
func (l *Ledger) Balance(ctx context.Context, tx repository.Tx, addr domain.Address) (uint64, error) {
	account, err := tx.TokenAccounts().GetByAddress(ctx, addr)
	if err != nil {
		return 0, notFound(err, domain.ErrAccountNotFound)
	}
	return account.Balance, nil
}

// authorize checks signer against the account's authority. A wallet signature
// can never stand in for an off-curve (program-derived) authority.
func (l *Ledger) authorize(expected domain.Address, signer Authority) error {
	if signer.address != expected {
		return domain.ErrInvalidAuthority
	}
	if signer.program != nil {
		if err := signer.program.Verify(l.deriver.ProgramID()); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrInvalidAuthority, err)
		}
		return nil
	}
	if !pda.IsOnCurve(signer.address) {
		return fmt.Errorf("%w: derived address requires a program signer", domain.ErrInvalidAuthority)
	}
	return nil
}

func (l *Ledger) mint(ctx context.Context, tx repository.Tx, addr domain.Address) (*domain.Mint, error) {
	mint, err := tx.Mints().GetByAddress(ctx, addr)
	if err != nil {
		return nil, notFound(err, domain.ErrMintNotFound)
	}
	return mint, nil
}

// lockPair locks both accounts in address order so concurrent transfers cannot deadlock.
func (l *Ledger) lockPair(ctx context.Context, tx repository.Tx, from, to domain.Address) (*domain.TokenAccount, *domain.TokenAccount, error) {
	first, second := from, to
	if bytes.Compare(first[:], second[:]) > 0 {
		first, second = second, first
	}
	a, err := tx.TokenAccounts().GetForUpdate(ctx, first)
	if err != nil {
		return nil, nil, notFound(err, domain.ErrAccountNotFound)
	}
	b := a
	if second != first {
		if b, err = tx.TokenAccounts().GetForUpdate(ctx, second); err != nil {
			return nil, nil, notFound(err, domain.ErrAccountNotFound)
		}
	}
	if first == from {
		return a, b, nil
	}
	return b, a, nil
}

func notFound(err, replacement error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return replacement
	}
	return err
}
