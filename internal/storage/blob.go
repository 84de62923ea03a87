// Package storage provides the durable blob store the application state is
// snapshotted into. The store is an opaque get/set keyed byte store; callers
// own the encoding of what they put in it.
package storage

import (
	"context"
	"errors"
)

// Well-known keys.
const (
	DataKey     = "accountable-data"
	CurrencyKey = "accountable-currency"
)

// ErrNotFound is returned by Get when no value exists under the key.
var ErrNotFound = errors.New("blob not found")

// Blob is the durable key-value store interface.
type Blob interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}
