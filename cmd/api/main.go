package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/smartdesk/internal/api/http"
	"github.com/spec-kit/smartdesk/internal/api/http/handlers"
	"github.com/spec-kit/smartdesk/internal/auth"
	"github.com/spec-kit/smartdesk/internal/config"
	"github.com/spec-kit/smartdesk/internal/events"
	"github.com/spec-kit/smartdesk/internal/intake"
	"github.com/spec-kit/smartdesk/internal/intake/linear"
	"github.com/spec-kit/smartdesk/internal/observability"
	"github.com/spec-kit/smartdesk/internal/persistence"
	"github.com/spec-kit/smartdesk/internal/repository"
	"github.com/spec-kit/smartdesk/internal/service"
	"github.com/spec-kit/smartdesk/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()

	models := linear.Load(cfg.Models.Dir, logger)
	engine := intake.NewEngine(intake.EngineDependencies{
		Category: models.Category,
		Queue:    models.Queue,
		Priority: models.Priority,
	}, logger)

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)

	authService := service.NewAuthService(*cfg, userRepo)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notify)
	worker.StartNotificationWorker(notificationService)

	ticketService := service.NewTicketService(service.TicketDependencies{
		Engine:     engine,
		TicketRepo: ticketRepo,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Cache:      redis,
		CacheTTL:   cfg.Redis.StatsCacheTTL(),
		ModelStats: models.Stats,
	})

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService),
		Analysis:       handlers.NewAnalysisHandler(ticketService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Stats:          handlers.NewStatsHandler(ticketService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
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
