package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/vesting-service/internal/api/dto"
	"github.com/spec-kit/vesting-service/internal/domain"
	"github.com/spec-kit/vesting-service/internal/service"
	apperrors "github.com/spec-kit/vesting-service/pkg/util/errorutil"
)

// TokensHandler exposes mints, accounts and transfers.
type TokensHandler struct {
	service *service.TokenService
}

// NewTokensHandler constructs handler.
func NewTokensHandler(tokenService *service.TokenService) *TokensHandler {
	return &TokensHandler{service: tokenService}
}

// CreateMint POST /v1/mints.
func (h *TokensHandler) CreateMint(c *fiber.Ctx) error {
	signer, err := signerFrom(c)
	if err != nil {
		return err
	}
	var req dto.CreateMintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	mint, err := h.service.CreateMint(c.UserContext(), signer, req.Decimals)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewMintResponse(mint)})
}

// GetMint GET /v1/mints/:mint.
func (h *TokensHandler) GetMint(c *fiber.Ctx) error {
	addr, err := parseAddress("mint", c.Params("mint"))
	if err != nil {
		return err
	}
	mint, err := h.service.GetMint(c.UserContext(), addr)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewMintResponse(mint)})
}

// MintTo POST /v1/mints/:mint/mint-to.
func (h *TokensHandler) MintTo(c *fiber.Ctx) error {
	signer, err := signerFrom(c)
	if err != nil {
		return err
	}
	mintAddr, err := parseAddress("mint", c.Params("mint"))
	if err != nil {
		return err
	}
	var req dto.MintToRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	owner, err := parseAddress("owner", req.Owner)
	if err != nil {
		return err
	}

	account, err := h.service.MintTo(c.UserContext(), signer, mintAddr, owner, req.Amount)
	if err != nil {
		return err
	}
	return h.renderAccount(c, account)
}

// Transfer POST /v1/transfers.
func (h *TokensHandler) Transfer(c *fiber.Ctx) error {
	signer, err := signerFrom(c)
	if err != nil {
		return err
	}
	var req dto.TransferRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	mintAddr, err := parseAddress("mint", req.Mint)
	if err != nil {
		return err
	}
	to, err := parseAddress("to", req.To)
	if err != nil {
		return err
	}

	result, err := h.service.Transfer(c.UserContext(), signer, mintAddr, to, req.Amount)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTransferResponse(result)})
}

// GetAccount GET /v1/accounts/:address.
func (h *TokensHandler) GetAccount(c *fiber.Ctx) error {
	addr, err := parseAddress("address", c.Params("address"))
	if err != nil {
		return err
	}
	account, err := h.service.GetAccount(c.UserContext(), addr)
	if err != nil {
		return err
	}
	return h.renderAccount(c, account)
}

func (h *TokensHandler) renderAccount(c *fiber.Ctx, account *domain.TokenAccount) error {
	mint, err := h.service.GetMint(c.UserContext(), account.Mint)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTokenAccountResponse(account, mint.Decimals)})
}
