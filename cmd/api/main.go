package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/vesting-service/internal/api/http"
	"github.com/spec-kit/vesting-service/internal/auth"
	"github.com/spec-kit/vesting-service/internal/cache"
	"github.com/spec-kit/vesting-service/internal/clock"
	"github.com/spec-kit/vesting-service/internal/config"
	"github.com/spec-kit/vesting-service/internal/domain"
	"github.com/spec-kit/vesting-service/internal/events"
	"github.com/spec-kit/vesting-service/internal/ledger"
	"github.com/spec-kit/vesting-service/internal/observability"
	"github.com/spec-kit/vesting-service/internal/pda"
	"github.com/spec-kit/vesting-service/internal/persistence"
	"github.com/spec-kit/vesting-service/internal/repository"
	"github.com/spec-kit/vesting-service/internal/service"
	"github.com/spec-kit/vesting-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger,
		zap.String("service", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("env", cfg.App.Env),
	)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	programID, err := domain.ParseAddress(cfg.Vesting.ProgramID)
	if err != nil {
		logger.Fatal("invalid program id", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	var store repository.Store
	if pool := pg.PoolHandle(); pool != nil {
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pool, cfg.Postgres.MigrationsDir, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		store = repository.NewPostgresStore(pool)
	} else {
		store = repository.NewMemoryStore()
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(func(event events.Event, err error) {
		logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.String("event_id", event.ID), zap.Error(err))
	})
	auditService := service.NewAuditService(dispatcher, events.NewStreamPublisher(redis.Client, cfg.Redis.EventStream, cfg.Redis.EventStreamMax), logger)
	worker.StartAuditWorker(auditService)

	tokenLedger := ledger.New(pda.NewDeriver(programID))
	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		Challenges: auth.NewChallengeStore(redis.Client, cfg.Auth.ChallengeTTL()),
	})
	tokenService := service.NewTokenService(service.TokenDependencies{
		Store:      store,
		Ledger:     tokenLedger,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	vestingService := service.NewVestingService(service.VestingDependencies{
		Store:      store,
		Ledger:     tokenLedger,
		Clock:      clock.System{},
		PoolCache:  cache.NewPoolCache(redis.Client, cfg.Redis.PoolCacheTTL()),
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})

	app := httptransport.NewServer(httptransport.ServerConfig{
		Name:           cfg.App.Name,
		Version:        cfg.App.Version,
		ProgramID:      cfg.Vesting.ProgramID,
		RequestTimeout: cfg.App.RequestTimeout(),
		Logger:         logger,
		Metrics:        metrics,
		Postgres:       pg,
		Redis:          redis,
		Auth:           authService,
		Tokens:         tokenService,
		Vesting:        vestingService,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.Stringer("program_id", programID))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
