package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/vesting-service/internal/api/http/handlers"
	"github.com/spec-kit/vesting-service/internal/auth"
	"github.com/spec-kit/vesting-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tokens         *handlers.TokensHandler
	Pools          *handlers.PoolsHandler
	Metrics        *observability.Metrics
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Metrics.Registry(), promhttp.HandlerOpts{})))
	}

	authGroup := app.Group("/auth")
	authGroup.Post("/challenge", cfg.Auth.Challenge)
	authGroup.Post("/verify", cfg.Auth.Verify)

	v1 := app.Group("/v1")
	signed := cfg.AuthMiddleware.Handle

	v1.Post("/mints", signed, cfg.Tokens.CreateMint)
	v1.Get("/mints/:mint", cfg.Tokens.GetMint)
	v1.Post("/mints/:mint/mint-to", signed, cfg.Tokens.MintTo)
	v1.Post("/transfers", signed, cfg.Tokens.Transfer)
	v1.Get("/accounts/:address", cfg.Tokens.GetAccount)

	v1.Post("/pools", signed, cfg.Pools.CreatePool)
	v1.Get("/pools", cfg.Pools.ListPools)
	v1.Get("/pools/:company", cfg.Pools.GetPool)
	v1.Post("/pools/:company/employees", signed, cfg.Pools.Enroll)
	v1.Get("/pools/:company/employees", cfg.Pools.ListEmployees)
	v1.Get("/pools/:company/employees/:beneficiary", cfg.Pools.GetEmployee)
	v1.Post("/pools/:company/claim", signed, cfg.Pools.Claim)
	v1.Get("/beneficiaries/:address/records", cfg.Pools.ListBeneficiaryRecords)
}
