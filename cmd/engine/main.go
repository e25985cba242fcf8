// Package main is the entry point for the ledger recurrence engine.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/finance-tracker/engine/config"
	"github.com/finance-tracker/engine/internal/infra/db"
	"github.com/finance-tracker/engine/internal/infra/dependency"
	"github.com/finance-tracker/engine/internal/integration/persistence/model"
)

func main() {
	// Load .env file if it exists (development only)
	_ = godotenv.Load()

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg := config.Load()

	slog.Info("Starting ledger engine",
		"tick_interval", cfg.Engine.TickInterval,
		"batch_size", cfg.Engine.BatchSize,
	)

	// Initialize database connection
	database, err := db.NewPostgresConnection(&cfg.Database)
	if err != nil {
		slog.Error("Database connection failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}()

	// Run database migrations
	if err := database.AutoMigrate(
		&model.LedgerEntryModel{},
		&model.RecurringRuleModel{},
		&model.BudgetModel{},
		&model.BudgetAlertModel{},
		&model.GenerationModel{},
	); err != nil {
		slog.Error("Failed to run database migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database migrations completed successfully")

	// Initialize redis connection
	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		slog.Error("Invalid redis URL", "error", err)
		os.Exit(1)
	}
	if cfg.Redis.Password != "" {
		redisOpts.Password = cfg.Redis.Password
	}
	redisOpts.DB = cfg.Redis.DB
	redisClient := redis.NewClient(redisOpts)
	defer func() {
		if err := redisClient.Close(); err != nil {
			slog.Error("Failed to close redis connection", "error", err)
		}
	}()

	// Wire dependencies
	injector := dependency.NewInjector(cfg, database, redisClient)

	// Start background workers
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		injector.Scheduler.Start(ctx)
	}()

	if cfg.Notification.WorkerEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			injector.AlertWorker.Start(ctx)
		}()
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down engine...")
	cancel()
	wg.Wait()

	slog.Info("Engine exited properly")
}
