// Package store provides the key-value adapters that persist link records.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound signals that a key does not exist or has expired. The two
// cases are deliberately indistinguishable.
var ErrKeyNotFound = errors.New("key not found")

// Store is the contract the link service consumes: byte values under string
// keys with store-enforced expiration. Get-then-Put pairs carry no
// transactional guarantee.
type Store interface {
	// Put stores value under key; the value becomes unreadable once ttl
	// elapses. An existing key is overwritten silently.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get returns the stored value, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Exists reports whether key currently holds a live value.
	Exists(ctx context.Context, key string) (bool, error)

	// Ping checks the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
