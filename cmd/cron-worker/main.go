package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Zwubman/team-work-supply-tracker/internal/alerts"
	"github.com/Zwubman/team-work-supply-tracker/internal/cron"
	"github.com/Zwubman/team-work-supply-tracker/internal/items"
	"github.com/Zwubman/team-work-supply-tracker/internal/users"
	"github.com/Zwubman/team-work-supply-tracker/pkg/config"
	"github.com/Zwubman/team-work-supply-tracker/pkg/db"
	"github.com/Zwubman/team-work-supply-tracker/pkg/logger"
	"github.com/Zwubman/team-work-supply-tracker/pkg/mailer"
	"github.com/Zwubman/team-work-supply-tracker/pkg/metrics"
	"github.com/Zwubman/team-work-supply-tracker/pkg/migrate"
	"github.com/Zwubman/team-work-supply-tracker/pkg/redis"
)

const lockKeyFormat = "st:cron-worker:lock:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
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

	notifier, err := alerts.NewNotifier(alerts.NotifierParams{
		AdminEmails: userRepo,
		Sender:      sender,
		Logger:      logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create alert notifier", err)
		os.Exit(1)
	}

	metricsCollector := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)

	lowStockJob, err := cron.NewLowStockScanJob(cron.LowStockScanJobParams{
		Items:    itemRepo,
		Notifier: notifier,
		Logger:   logg,
		Metrics:  metricsCollector,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create low stock scan job", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, lockKey(cfg.App.Env), 0)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(lowStockJob),
		Lock:     lock,
		Metrics:  metricsCollector,
		Interval: cfg.Alerts.ScanInterval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}
