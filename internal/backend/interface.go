package backend

import (
	"context"

	"accountable/internal/storage"
)

// CleanupFunc releases resources held by a backend.
type CleanupFunc func() error

// Result contains the blob store and an optional cleanup function.
type Result struct {
	Blob    storage.Blob
	Cleanup CleanupFunc
}

// Factory creates blob stores based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for backend creation.
type Config struct {
	Type Type

	// SQLite specific
	SQLiteDBPath string

	// Mongo specific
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
}

// Type selects the blob store implementation.
type Type string

const (
	SQLiteType Type = "sqlite"
	MongoType  Type = "mongo"
	MemoryType Type = "memory"
)

// String implements fmt.Stringer.
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid.
func (t Type) IsValid() bool {
	switch t {
	case SQLiteType, MongoType, MemoryType:
		return true
	default:
		return false
	}
}
