package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"spendwise/internal/amqp"
	"spendwise/internal/config"
	"spendwise/internal/log"
	"spendwise/internal/services"
	"spendwise/internal/storage"
	"spendwise/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig()).WithComponent(log.ComponentWorker)
	log.SetDefault(logger)

	logger.Info("Starting spendwise-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", log.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	analyticsService := services.NewAnalyticsService(repo)
	alertWorker := worker.NewAlertWorker(repo, analyticsService, cfg.SweepConcurrency)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// AMQP consumption reacts to expense-created events as they happen; the
	// periodic sweep below recovers anything the queue missed.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, relying on periodic sweep only", log.FieldError, err)
			amqpClient = nil
		} else {
			defer amqpClient.Close()
			go func() {
				if err := amqpClient.ConsumeExpenseCreated(ctx, func(msg *amqp.ExpenseCreatedMessage) error {
					return alertWorker.HandleExpenseCreated(ctx, msg)
				}); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("Message consumption failed", log.FieldError, err)
					cancel()
				}
			}()
		}
	}

	// Startup sweep, then one per interval.
	if err := alertWorker.SweepAllUsers(ctx); err != nil {
		logger.Error("Startup sweep failed", log.FieldError, err)
	}

	ticker := time.NewTicker(cfg.SweepInterval)
	defer ticker.Stop()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	for {
		select {
		case <-ticker.C:
			if err := alertWorker.SweepAllUsers(ctx); err != nil {
				logger.Error("Periodic sweep failed", log.FieldError, err)
			}
		case <-ctx.Done():
			logger.Info("Worker stopped")
			return
		}
	}
}
