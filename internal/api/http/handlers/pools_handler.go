package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/vesting-service/internal/api/dto"
	"github.com/spec-kit/vesting-service/internal/service"
	apperrors "github.com/spec-kit/vesting-service/pkg/util/errorutil"
)

// PoolsHandler exposes pool creation, enrollment, claims and record queries.
type PoolsHandler struct {
	service *service.VestingService
}

// NewPoolsHandler constructs handler.
func NewPoolsHandler(vestingService *service.VestingService) *PoolsHandler {
	return &PoolsHandler{service: vestingService}
}

// CreatePool POST /v1/pools.
func (h *PoolsHandler) CreatePool(c *fiber.Ctx) error {
	signer, err := signerFrom(c)
	if err != nil {
		return err
	}
	var req dto.CreatePoolRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	mint, err := parseAddress("mint", req.Mint)
	if err != nil {
		return err
	}

	pool, err := h.service.CreatePool(c.UserContext(), signer, service.CreatePoolInput{
		CompanyName: req.CompanyName,
		Mint:        mint,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewPoolResponse(pool)})
}

// ListPools GET /v1/pools.
func (h *PoolsHandler) ListPools(c *fiber.Ctx) error {
	limit, offset := parsePage(c)
	pools, err := h.service.ListPools(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPoolResponses(pools)})
}

// GetPool GET /v1/pools/:company.
func (h *PoolsHandler) GetPool(c *fiber.Ctx) error {
	pool, err := h.service.GetPool(c.UserContext(), c.Params("company"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPoolResponse(pool)})
}

// Enroll POST /v1/pools/:company/employees.
func (h *PoolsHandler) Enroll(c *fiber.Ctx) error {
	signer, err := signerFrom(c)
	if err != nil {
		return err
	}
	var req dto.EnrollRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	beneficiary, err := parseAddress("beneficiary", req.Beneficiary)
	if err != nil {
		return err
	}

	record, err := h.service.Enroll(c.UserContext(), signer, service.EnrollInput{
		CompanyName:     c.Params("company"),
		Beneficiary:     beneficiary,
		StartTime:       req.StartTime,
		CliffTime:       req.CliffTime,
		CliffDelta:      req.CliffDelta,
		EndTime:         req.EndTime,
		EndDelta:        req.EndDelta,
		TotalAllocation: req.TotalAllocation,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewRecordResponse(record)})
}

// ListEmployees GET /v1/pools/:company/employees.
func (h *PoolsHandler) ListEmployees(c *fiber.Ctx) error {
	limit, offset := parsePage(c)
	views, err := h.service.ListRecordsByPool(c.UserContext(), c.Params("company"), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRecordViewResponses(views)})
}

// GetEmployee GET /v1/pools/:company/employees/:beneficiary.
func (h *PoolsHandler) GetEmployee(c *fiber.Ctx) error {
	beneficiary, err := parseAddress("beneficiary", c.Params("beneficiary"))
	if err != nil {
		return err
	}
	view, err := h.service.GetRecord(c.UserContext(), c.Params("company"), beneficiary)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRecordViewResponse(view)})
}

// Claim POST /v1/pools/:company/claim.
func (h *PoolsHandler) Claim(c *fiber.Ctx) error {
	signer, err := signerFrom(c)
	if err != nil {
		return err
	}
	var req dto.ClaimRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}
	input := service.ClaimInput{CompanyName: c.Params("company")}
	if req.Beneficiary != "" {
		if input.Beneficiary, err = parseAddress("beneficiary", req.Beneficiary); err != nil {
			return err
		}
	}

	result, err := h.service.Claim(c.UserContext(), signer, input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewClaimResponse(result)})
}

// ListBeneficiaryRecords GET /v1/beneficiaries/:address/records.
func (h *PoolsHandler) ListBeneficiaryRecords(c *fiber.Ctx) error {
	beneficiary, err := parseAddress("address", c.Params("address"))
	if err != nil {
		return err
	}
	limit, offset := parsePage(c)
	views, err := h.service.ListRecordsByBeneficiary(c.UserContext(), beneficiary, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRecordViewResponses(views)})
}
