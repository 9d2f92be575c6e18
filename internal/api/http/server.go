package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/vesting-service/internal/api/http/handlers"
	"github.com/spec-kit/vesting-service/internal/auth"
	"github.com/spec-kit/vesting-service/internal/observability"
	"github.com/spec-kit/vesting-service/internal/persistence"
	"github.com/spec-kit/vesting-service/internal/service"
)

// ServerConfig carries everything the HTTP surface is assembled from.
type ServerConfig struct {
	Name           string
	Version        string
	ProgramID      string
	RequestTimeout time.Duration
	Logger         *zap.Logger
	Metrics        *observability.Metrics
	Postgres       *persistence.Postgres
	Redis          *persistence.Redis
	Auth           *service.AuthService
	Tokens         *service.TokenService
	Vesting        *service.VestingService
}

// NewServer builds the fiber application with middlewares and routes registered.
func NewServer(cfg ServerConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               cfg.Name,
		DisableStartupMessage: true,
	})
	RegisterMiddlewares(app, cfg.Logger, cfg.Metrics, cfg.RequestTimeout)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.Name, cfg.Version, cfg.ProgramID, dependencyChecks(cfg)...),
		Auth:           handlers.NewAuthHandler(cfg.Auth),
		Tokens:         handlers.NewTokensHandler(cfg.Tokens),
		Pools:          handlers.NewPoolsHandler(cfg.Vesting),
		Metrics:        cfg.Metrics,
		AuthMiddleware: auth.NewAuthMiddleware(cfg.Auth.TokenManager()),
	})
	return app
}

// dependencyChecks probes postgres only when the service runs on it; the
// in-memory store has nothing to reach.
func dependencyChecks(cfg ServerConfig) []handlers.DependencyCheck {
	checks := []handlers.DependencyCheck{{Name: "postgres"}}
	if cfg.Postgres.PoolHandle() != nil {
		checks[0].Ping = cfg.Postgres.Ping
	}
	if cfg.Redis != nil {
		checks = append(checks, handlers.DependencyCheck{Name: "redis", Ping: cfg.Redis.Ping})
	}
	return checks
}
