package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"accountable/internal/amqp"
	"accountable/internal/backend"
	"accountable/internal/config"
	applog "accountable/internal/log"
	"accountable/internal/services"
	"accountable/internal/store"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{
		Level:     slog.LevelInfo,
		Component: applog.ComponentRecurring,
	})
	applog.SetDefault(logger)

	logger.Info("Starting recurring-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
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

	// Publish change events so the backup worker sees generated transactions.
	var opts []store.Option
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without change events", applog.FieldError, err)
		} else {
			defer amqpClient.Close()
			opts = append(opts, store.WithPublisher(amqpClient))
		}
	}

	st := store.New(result.Blob, logger, opts...)
	if err := st.Load(ctx); err != nil {
		logger.Error("Failed to load application state", applog.FieldError, err)
		os.Exit(1)
	}

	processor := services.NewRecurringProcessor(st, logger)

	// Run once on startup to catch up on anything due while we were down.
	logger.Info("Running initial recurring transaction processing...")
	if count, err := processor.ProcessDue(ctx, time.Now()); err != nil {
		logger.Error("Initial processing failed", applog.FieldError, err)
	} else {
		logger.Info("Initial processing complete", "transactions_created", count)
	}

	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.RecurringSchedule, func() {
		// The server writes the same blob between runs; rehydrate before
		// dispatching so a run never persists a snapshot stale by our uptime.
		if err := st.Load(ctx); err != nil {
			logger.Error("State reload failed, skipping run", applog.FieldError, err)
			return
		}
		now := time.Now()
		count, err := processor.ProcessDue(ctx, now)
		if err != nil {
			logger.Error("Scheduled processing failed", applog.FieldError, err)
			return
		}
		logger.Info("Scheduled processing complete",
			"transactions_created", count,
			"at", now.Format(time.RFC3339))
	})
	if err != nil {
		logger.Error("Invalid recurring schedule", "schedule", cfg.RecurringSchedule, applog.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Recurring processor scheduled", "schedule", cfg.RecurringSchedule)
	scheduler.Start()

	<-ctx.Done()
	logger.Info("Shutdown signal received")

	stopCtx := scheduler.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(30 * time.Second):
		logger.Warn("Timed out waiting for running jobs")
	}

	logger.Info("Recurring worker stopped gracefully")
}
