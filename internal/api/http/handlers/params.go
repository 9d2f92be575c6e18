package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/vesting-service/internal/auth"
	"github.com/spec-kit/vesting-service/internal/domain"
	apperrors "github.com/spec-kit/vesting-service/pkg/util/errorutil"
)

func signerFrom(c *fiber.Ctx) (domain.Address, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return domain.Address{}, apperrors.NewUnauthorized("signer required")
	}
	return principal.Address, nil
}

func parseAddress(field, value string) (domain.Address, error) {
	if value == "" {
		return domain.Address{}, apperrors.NewValidationError(field+" required", nil)
	}
	addr, err := domain.ParseAddress(value)
	if err != nil {
		return domain.Address{}, apperrors.NewValidationError("invalid "+field, map[string]any{field: value})
	}
	return addr, nil
}

func parsePage(c *fiber.Ctx) (limit, offset int) {
	return parseInt(c.Query("limit"), 20), parseInt(c.Query("offset"), 0)
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return def
	}
	return parsed
}
