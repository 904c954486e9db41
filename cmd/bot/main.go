package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Rashidov21/queue-management-bot/internal/app"
	"github.com/Rashidov21/queue-management-bot/internal/config"
	"github.com/Rashidov21/queue-management-bot/internal/controller"
	"github.com/Rashidov21/queue-management-bot/internal/notifier"
	"github.com/Rashidov21/queue-management-bot/internal/repository"
	"github.com/Rashidov21/queue-management-bot/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	userRepo := repository.NewUserRepository(pool)
	serviceRepo := repository.NewServiceRepository(pool)
	providerRepo := repository.NewProviderRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)

	notificationService := service.NewNotificationService(notificationRepo, bookingRepo, providerRepo, userRepo, logger)
	bookingService := service.NewBookingService(userRepo, providerRepo, bookingRepo, notificationService, logger)
	scheduleService := service.NewScheduleService(providerRepo, bookingRepo, logger)

	botInstance, err := bot.New(cfg.TelegramToken)
	if err != nil {
		logger.Fatal("Failed to create telegram bot", zap.Error(err))
	}

	botController := controller.NewBotController(botInstance, userRepo, providerRepo, serviceRepo, bookingService, scheduleService, logger)
	botController.RegisterHandlers()

	messenger := notifier.NewTelegram(botInstance, cfg.SendTimeout, logger)
	dispatcher := service.NewDispatcher(notificationRepo, messenger, logger, service.DispatcherConfig{
		MaxAttempts: cfg.MaxSendAttempts,
	})

	scheduler := app.NewScheduler(dispatcher, notificationService, logger, app.SchedulerConfig{
		DispatchInterval: cfg.DispatchInterval,
		PlanningInterval: cfg.PlanningInterval,
		HorizonDays:      cfg.PlanningHorizonDays,
	})
	scheduler.Start(ctx)
	defer scheduler.Stop()

	logger.Info("Queue management bot started",
		zap.String("environment", cfg.Environment),
	)

	botInstance.Start(ctx)

	logger.Info("Shutting down")
}
