package dto

import (
	"time"

	"github.com/spec-kit/vesting-service/internal/domain"
	"github.com/spec-kit/vesting-service/internal/service"
)

// CreateMintRequest payload for new mints.
type CreateMintRequest struct {
	Decimals uint8 `json:"decimals"`
}

// MintToRequest payload for issuing supply.
type MintToRequest struct {
	Owner  string `json:"owner"`
	Amount uint64 `json:"amount"`
}

// TransferRequest payload for wallet transfers.
type TransferRequest struct {
	Mint   string `json:"mint"`
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}

// MintResponse describes a mint.
type MintResponse struct {
	Address       string    `json:"address"`
	Decimals      uint8     `json:"decimals"`
	MintAuthority string    `json:"mint_authority"`
	Supply        uint64    `json:"supply"`
	UISupply      string    `json:"ui_supply"`
	CreatedAt     time.Time `json:"created_at"`
}

// TokenAccountResponse describes a token account.
type TokenAccountResponse struct {
	Address   string `json:"address"`
	Mint      string `json:"mint"`
	Authority string `json:"authority"`
	Balance   uint64 `json:"balance"`
	UIBalance string `json:"ui_balance"`
}

// TransferResponse describes a completed transfer.
type TransferResponse struct {
	Mint   string `json:"mint"`
	From   string `json:"from"`
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}

// NewMintResponse maps a mint.
func NewMintResponse(m *domain.Mint) MintResponse {
	return MintResponse{
		Address:       m.Address.String(),
		Decimals:      m.Decimals,
		MintAuthority: m.MintAuthority.String(),
		Supply:        m.Supply,
		UISupply:      UIAmount(m.Supply, m.Decimals),
		CreatedAt:     m.CreatedAt,
	}
}

// NewTokenAccountResponse maps an account; decimals come from its mint.
func NewTokenAccountResponse(a *domain.TokenAccount, decimals uint8) TokenAccountResponse {
	return TokenAccountResponse{
		Address:   a.Address.String(),
		Mint:      a.Mint.String(),
		Authority: a.Authority.String(),
		Balance:   a.Balance,
		UIBalance: UIAmount(a.Balance, decimals),
	}
}

// NewTransferResponse maps a transfer result.
func NewTransferResponse(r *service.TransferResult) TransferResponse {
	return TransferResponse{
		Mint:   r.Mint.String(),
		From:   r.From.String(),
		To:     r.To.String(),
		Amount: r.Amount,
	}
}
