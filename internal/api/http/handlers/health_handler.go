package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// DependencyCheck is one readiness probe. A nil Ping marks the dependency as
// disabled in this deployment; it is reported but never fails readiness.
type DependencyCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	serviceName string
	version     string
	programID   string
	startedAt   time.Time
	checks      []DependencyCheck
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version, programID string, checks ...DependencyCheck) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		programID:   programID,
		startedAt:   time.Now(),
		checks:      checks,
	}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":     "alive",
		"service":    h.serviceName,
		"version":    h.version,
		"program_id": h.programID,
		"uptime":     time.Since(h.startedAt).Truncate(time.Second).String(),
	})
}

// Ready reports service readiness by checking dependencies.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	depStatus := fiber.Map{}
	ready := true
	for _, check := range h.checks {
		switch {
		case check.Ping == nil:
			depStatus[check.Name] = "disabled"
		default:
			if err := check.Ping(ctx); err != nil {
				depStatus[check.Name] = err.Error()
				ready = false
			} else {
				depStatus[check.Name] = "ok"
			}
		}
	}

	if ready {
		return c.JSON(fiber.Map{
			"status":       "ready",
			"dependencies": depStatus,
		})
	}

	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error": fiber.Map{
			"code":      "DEPENDENCY_UNAVAILABLE",
			"message":   "one or more dependencies unavailable",
			"retryable": true,
			"details":   depStatus,
		},
	})
}
