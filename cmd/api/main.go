package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/Zwubman/team-work-supply-tracker/api/routes"
	"github.com/Zwubman/team-work-supply-tracker/internal/alerts"
	"github.com/Zwubman/team-work-supply-tracker/internal/auth"
	"github.com/Zwubman/team-work-supply-tracker/internal/items"
	"github.com/Zwubman/team-work-supply-tracker/internal/movements"
	"github.com/Zwubman/team-work-supply-tracker/internal/supplies"
	"github.com/Zwubman/team-work-supply-tracker/internal/users"
	"github.com/Zwubman/team-work-supply-tracker/pkg/config"
	"github.com/Zwubman/team-work-supply-tracker/pkg/db"
	"github.com/Zwubman/team-work-supply-tracker/pkg/logger"
	"github.com/Zwubman/team-work-supply-tracker/pkg/mailer"
	"github.com/Zwubman/team-work-supply-tracker/pkg/migrate"
	"github.com/Zwubman/team-work-supply-tracker/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sender, err := mailer.NewSMTPSender(cfg.SMTP)
	if err != nil {
		logg.Error(context.Background(), "failed to configure smtp sender", err)
		os.Exit(1)
	}

	userRepo := users.NewRepository(dbClient.DB())
	itemRepo := items.NewRepository(dbClient.DB())
	movementRepo := movements.NewRepository(dbClient.DB())
	supplyRepo := supplies.NewRepository(dbClient.DB())

	notifier, err := alerts.NewNotifier(alerts.NotifierParams{
		AdminEmails: userRepo,
		Sender:      sender,
		Logger:      logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create alert notifier", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	itemsService, err := items.NewService(itemRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create items service", err)
		os.Exit(1)
	}

	movementsService, err := movements.NewService(movements.ServiceParams{
		TxRunner:     dbClient,
		MovementRepo: movementRepo,
		ItemRepo:     itemRepo,
		AdminEmails:  userRepo,
		Notifier:     notifier,
		Logger:       logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create movements service", err)
		os.Exit(1)
	}

	suppliesService, err := supplies.NewService(supplies.ServiceParams{
		TxRunner:     dbClient,
		SupplyRepo:   supplyRepo,
		ItemRepo:     itemRepo,
		MovementRepo: movementRepo,
		UserRepo:     userRepo,
		Notifier:     notifier,
		Logger:       logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create supplies service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, authService, itemsService, movementsService, suppliesService),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
