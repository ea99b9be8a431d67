// Package kv defines the blob key-value store the exchange cache persists to.
package kv

import "context"

// Store is a minimal persistent key-value store holding opaque blobs.
// Get returns (nil, nil) when the key is absent; errors are reserved for the
// backend being unreachable or misbehaving.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
