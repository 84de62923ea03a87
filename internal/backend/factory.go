// Package backend wires configuration to a concrete blob store.
package backend

import (
	"context"
	"fmt"

	"accountable/internal/log"
	"accountable/internal/storage"
)

// DefaultFactory implements the Factory interface.
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory.
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.New(log.Config{Component: log.ComponentStorage})
	}
	return &DefaultFactory{logger: logger}
}

// CreateBackend implements Factory.CreateBackend.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*Result, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	switch config.Type {
	case SQLiteType:
		return f.createSQLite(config)
	case MongoType:
		return f.createMongo(ctx, config)
	case MemoryType:
		return f.createMemory()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLite(config Config) (*Result, error) {
	store, err := storage.NewSQLiteStore(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &Result{
		Blob:    store,
		Cleanup: store.Close,
	}, nil
}

func (f *DefaultFactory) createMongo(ctx context.Context, config Config) (*Result, error) {
	store, err := storage.NewMongoStore(ctx, config.MongoURI, config.MongoDatabase, config.MongoCollection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Mongo store: %w", err)
	}

	f.logger.Info("Initialized Mongo backend",
		"database", config.MongoDatabase,
		"collection", config.MongoCollection)

	return &Result{
		Blob:    store,
		Cleanup: store.Close,
	}, nil
}

func (f *DefaultFactory) createMemory() (*Result, error) {
	f.logger.Info("Initialized memory backend")

	return &Result{
		Blob:    storage.NewMemoryStore(),
		Cleanup: nil,
	}, nil
}
