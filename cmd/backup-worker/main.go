package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"accountable/internal/amqp"
	"accountable/internal/backend"
	"accountable/internal/config"
	applog "accountable/internal/log"
	"accountable/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{
		Level:     slog.LevelInfo,
		Component: applog.ComponentWorker,
	})
	applog.SetDefault(logger)

	logger.Info("Starting backup-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the backup worker")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	factory := backend.NewFactory(logger.WithComponent(applog.ComponentStorage))
	result, err := factory.CreateBackend(ctx, backend.Config{
		Type:            backend.Type(cfg.StorageBackend),
		SQLiteDBPath:    cfg.SQLiteDBPath,
		MongoURI:        cfg.MongoURI,
		MongoDatabase:   cfg.MongoDatabase,
		MongoCollection: cfg.MongoCollection,
	})
	if err != nil {
		logger.Error("Failed to initialize storage backend", applog.FieldError, err, applog.FieldBackend, cfg.StorageBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Storage cleanup failed", applog.FieldError, err)
			}
		}()
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	bw := worker.NewBackupWorker(result.Blob, cfg.BackupDir, logger)

	// Cover changes that happened while the worker was down.
	if err := bw.StartupBackup(ctx); err != nil {
		logger.Error("Startup backup failed", applog.FieldError, err)
	}

	logger.Info("Consuming change messages",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue,
		"backup_dir", cfg.BackupDir)

	err = amqpClient.ConsumeChanges(ctx, func(msg *amqp.ChangeMessage) error {
		return bw.HandleChangeMessage(ctx, msg)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", applog.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Backup worker stopped gracefully")
}
