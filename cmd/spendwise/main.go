package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"spendwise/internal/amqp"
	"spendwise/internal/config"
	apphttp "spendwise/internal/http"
	"spendwise/internal/log"
	"spendwise/internal/ocr"
	"spendwise/internal/services"
	"spendwise/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	logger.Info("Starting spendwise API")

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

	// AMQP is optional. Without it expense events are skipped and the
	// worker's periodic sweep carries alert evaluation alone.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, continuing without expense events", log.FieldError, err)
			amqpClient = nil
		}
	}

	// OCR is optional as well; without an endpoint receipt scanning
	// responds 503.
	var recognizer ocr.TextRecognizer
	if cfg.OCREndpoint != "" {
		recognizer = ocr.NewClient(cfg.OCREndpoint)
		logger.Info("OCR collaborator configured", "endpoint", cfg.OCREndpoint)
	} else {
		logger.Info("OCR disabled - no OCR_ENDPOINT provided")
	}

	expenseService := services.NewExpenseService(repo, amqpClient)
	analyticsService := services.NewAnalyticsService(repo)

	srv := apphttp.NewServer(cfg, expenseService, analyticsService, repo, recognizer, logger)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Error("AMQP close error", log.FieldError, err)
			}
		}
	}()

	if err := srv.Start(); err != nil {
		logger.Error("Server failed", log.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Server stopped")
}
