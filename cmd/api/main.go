package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/centraldesk/helpdesk-service/internal/api/http"
	"github.com/centraldesk/helpdesk-service/internal/api/http/handlers"
	"github.com/centraldesk/helpdesk-service/internal/config"
	"github.com/centraldesk/helpdesk-service/internal/events"
	"github.com/centraldesk/helpdesk-service/internal/observability"
	"github.com/centraldesk/helpdesk-service/internal/persistence"
	"github.com/centraldesk/helpdesk-service/internal/repository"
	"github.com/centraldesk/helpdesk-service/internal/service"
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

	dispatcher := events.NewAsyncDispatcher(cfg.Notification.QueueSize, logger)
	defer dispatcher.Close()

	notifier := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	notifier.RegisterHandlers()

	pool := pg.PoolHandle()
	historyService := service.NewHistoryService(repository.NewTicketHistoryRepository(pool))
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: repository.NewTicketRepository(pool),
		History:    historyService,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	userService := service.NewUserService(repository.NewUserRepository(pool))
	interactionService := service.NewInteractionService(repository.NewInteractionRepository(pool))

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:       handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Tickets:      handlers.NewTicketsHandler(ticketService),
		History:      handlers.NewHistoryHandler(historyService),
		Users:        handlers.NewUsersHandler(userService),
		Interactions: handlers.NewInteractionsHandler(interactionService),
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
