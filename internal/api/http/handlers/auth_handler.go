package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/vesting-service/internal/api/dto"
	"github.com/spec-kit/vesting-service/internal/service"
	apperrors "github.com/spec-kit/vesting-service/pkg/util/errorutil"
)

// AuthHandler exposes the wallet login endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Challenge handles POST /auth/challenge.
func (h *AuthHandler) Challenge(c *fiber.Ctx) error {
	var req dto.ChallengeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	addr, err := parseAddress("address", req.Address)
	if err != nil {
		return err
	}

	challenge, err := h.auth.Challenge(c.UserContext(), addr)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.ChallengeResponse{
		Address:   challenge.Address.String(),
		Nonce:     challenge.Nonce,
		Message:   string(challenge.LoginMessage()),
		ExpiresAt: challenge.ExpiresAt,
	}})
}

// Verify handles POST /auth/verify.
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	var req dto.VerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	addr, err := parseAddress("address", req.Address)
	if err != nil {
		return err
	}
	if req.Nonce == "" || req.Signature == "" {
		return apperrors.NewValidationError("nonce and signature required", nil)
	}

	token, exp, err := h.auth.Verify(c.UserContext(), addr, req.Nonce, req.Signature)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AuthResponse{Token: token, ExpiresAt: exp}})
}
