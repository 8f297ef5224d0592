package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/staffdesk/helpdesk-api/internal/api/http"
	"github.com/staffdesk/helpdesk-api/internal/api/http/handlers"
	"github.com/staffdesk/helpdesk-api/internal/auth"
	"github.com/staffdesk/helpdesk-api/internal/config"
	"github.com/staffdesk/helpdesk-api/internal/events"
	"github.com/staffdesk/helpdesk-api/internal/observability"
	"github.com/staffdesk/helpdesk-api/internal/persistence"
	"github.com/staffdesk/helpdesk-api/internal/repository"
	"github.com/staffdesk/helpdesk-api/internal/service"
	"github.com/staffdesk/helpdesk-api/internal/worker"
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

	pool := pg.PoolHandle()
	profileRepo := repository.NewProfileRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	messageRepo := repository.NewTicketMessageRepository(pool)
	catalogRepo := repository.NewCatalogRepository(pool)

	verifier, err := auth.NewTokenVerifier(cfg.Auth, nil)
	if err != nil {
		logger.Fatal("failed to init token verifier", zap.Error(err))
	}
	authMiddleware := auth.NewMiddleware(verifier, profileRepo)

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, redis.Client, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	queryService := service.NewTicketQueryService(ticketRepo, messageRepo)
	mutationService := service.NewTicketMutationService(ticketRepo, messageRepo, dispatcher)
	catalogService := service.NewCatalogService(catalogRepo)
	userService := service.NewUserService(profileRepo)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(pg),
		Tickets:        handlers.NewTicketsHandler(queryService, mutationService),
		Catalogs:       handlers.NewCatalogsHandler(catalogService),
		Users:          handlers.NewUsersHandler(userService),
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
