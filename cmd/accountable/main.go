package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"accountable/internal/amqp"
	"accountable/internal/backend"
	"accountable/internal/config"
	"accountable/internal/currency"
	apphttp "accountable/internal/http"
	applog "accountable/internal/log"
	"accountable/internal/store"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{
		Level:     slog.LevelInfo,
		Component: applog.ComponentApp,
	})
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Blob store backend
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

	// Optional change publisher
	var opts []store.Option
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without change events", applog.FieldError, err)
		} else {
			defer amqpClient.Close()
			logger.Info("AMQP client initialized",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
			opts = append(opts, store.WithPublisher(amqpClient))
		}
	}

	st := store.New(result.Blob, logger, opts...)
	if err := st.Load(ctx); err != nil {
		logger.Error("Failed to load application state", applog.FieldError, err)
		os.Exit(1)
	}

	// Currency rates: live feed when configured, built-in table otherwise.
	var source currency.Source = currency.StaticSource{}
	if cfg.RatesURL != "" {
		source = &currency.HTTPSource{URL: cfg.RatesURL, Timeout: cfg.RatesTimeout}
	}
	rates := currency.NewProvider(source, result.Blob, logger)
	rates.Load(ctx)
	if rates.BaseCurrency() == currency.PivotCurrency && cfg.BaseCurrency != currency.PivotCurrency {
		if err := rates.SetBaseCurrency(ctx, cfg.BaseCurrency); err != nil {
			logger.Warn("Invalid configured base currency, keeping default", "code", cfg.BaseCurrency, applog.FieldError, err)
		}
	}

	srv := apphttp.NewServer(":"+cfg.Port, st, rates, logger.WithComponent(applog.ComponentHTTP))
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return rates.Run(gctx)
	})

	g.Go(func() error {
		logger.Info("Starting server", "port", cfg.Port, applog.FieldBackend, cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Server error", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
