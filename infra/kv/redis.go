package kv

import (
	"context"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"
	pkgkv "github.com/voyago/travelsync/pkg/kv"
)

// Redis implements kv.Store on a Redis instance. Each blob lives under one
// Redis key; the store does not set TTLs because expiry is the caller's
// concern (the exchange cache tracks per-entry timestamps inside the blob).
type Redis struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// NewRedis creates a Redis-backed store from redis.Options.
func NewRedis(opt *redis.Options, prefix string, logger *slog.Logger) *Redis {
	if logger == nil {
		logger = slog.Default()
	}
	return &Redis{
		client: redis.NewClient(opt),
		prefix: prefix,
		logger: logger.With(slog.String("component", "kv_redis")),
	}
}

func (r *Redis) key(key string) string {
	return r.prefix + key
}

// Get retrieves a blob; a Redis miss yields (nil, nil).
func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		r.logger.Debug("kv miss", "key", key)
		return nil, nil
	}
	if err != nil {
		r.logger.Error("kv get error", "key", key, "error", err)
		return nil, err
	}
	return val, nil
}

// Set stores a blob under key.
func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		r.logger.Error("kv set error", "key", key, "error", err)
		return err
	}
	r.logger.Debug("kv set", "key", key, "bytes", len(value))
	return nil
}

// Delete removes a blob. Redis DEL on an absent key is already a no-op.
func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		r.logger.Error("kv delete error", "key", key, "error", err)
		return err
	}
	return nil
}

// Close releases the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}

var _ pkgkv.Store = (*Redis)(nil)
