// Package exchange provides the TTL-keyed currency-conversion cache and the
// cache-or-fetch converter built on top of it.
package exchange

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/voyago/travelsync/pkg/kv"
)

const (
	// StorageKey is the single slot the whole cache blob is serialized under.
	StorageKey = "currency_exchange_cache"

	// DefaultTTL bounds how long a conversion result is served without
	// re-fetching. Exchange rates don't need sub-hour freshness here.
	DefaultTTL = time.Hour
)

// CachedRate is one cached conversion result. Converted is precomputed at
// write time so hits need no arithmetic. Timestamp is epoch milliseconds.
type CachedRate struct {
	Rate      float64 `json:"rate"`
	Converted float64 `json:"converted"`
	Timestamp int64   `json:"timestamp"`
}

// Stats partitions the cache contents by the same expiry predicate Get uses.
type Stats struct {
	TotalEntries   int `json:"total_entries"`
	ValidEntries   int `json:"valid_entries"`
	ExpiredEntries int `json:"expired_entries"`
}

// Cache is a best-effort TTL cache for conversion results, keyed by the exact
// (from, to, amount) triple and persisted as one JSON blob in a kv.Store.
//
// Reads never fail: a missing, corrupt, or unreadable blob is a miss. Writes
// never fail either; persistence errors are logged and swallowed, since the
// caller can always re-derive the value from the upstream API.
type Cache struct {
	store  kv.Store
	logger *slog.Logger
	ttl    time.Duration
	now    func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL overrides the default entry lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

// WithClock injects the time source, for expiry-boundary tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// NewCache creates a cache over the given backing store.
func NewCache(store kv.Store, logger *slog.Logger, opts ...Option) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Cache{
		store:  store,
		logger: logger.With(slog.String("component", "exchange_cache")),
		ttl:    DefaultTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key derives the lookup key for a conversion triple. Amounts match exactly:
// an entry for 1000 never serves a request for 1000.01. FormatFloat with -1
// precision is deterministic, so equal float64 inputs always collide.
func Key(from, to string, amount float64) string {
	return from + "_" + to + "_" + strconv.FormatFloat(amount, 'f', -1, 64)
}

// Get returns the cached result for the exact triple, or nil when absent or
// expired. Backend and decoding failures are treated as misses.
func (c *Cache) Get(ctx context.Context, from, to string, amount float64) *CachedRate {
	entries, err := c.load(ctx)
	if err != nil || entries == nil {
		return nil
	}

	key := Key(from, to, amount)
	entry, exists := entries[key]
	if !exists {
		return nil
	}
	if c.expired(entry) {
		c.logger.Debug("cache entry expired", "key", key)
		return nil
	}
	return &entry
}

// Set writes the entry for the exact triple with a fresh timestamp. Before
// persisting it sweeps every expired entry out of the blob, so the cache is
// self-cleaning without a background timer.
func (c *Cache) Set(ctx context.Context, from, to string, amount, rate, converted float64) {
	entries, err := c.load(ctx)
	if err != nil {
		// A transient backend failure is not corruption: persisting now
		// would overwrite valid entries we simply could not read back.
		c.logger.Warn("skipping cache write, blob unreadable", "error", err)
		return
	}
	if entries == nil {
		entries = make(map[string]CachedRate)
	}

	for key, entry := range entries {
		if c.expired(entry) {
			delete(entries, key)
		}
	}

	entries[Key(from, to, amount)] = CachedRate{
		Rate:      rate,
		Converted: converted,
		Timestamp: c.now().UnixMilli(),
	}

	blob, err := json.Marshal(entries)
	if err != nil {
		c.logger.Warn("failed to encode cache blob", "error", err)
		return
	}
	if err := c.store.Set(ctx, StorageKey, blob); err != nil {
		c.logger.Warn("failed to persist cache blob", "error", err)
	}
}

// Clear removes the whole cache blob. Clearing an empty cache is a no-op.
func (c *Cache) Clear(ctx context.Context) {
	if err := c.store.Delete(ctx, StorageKey); err != nil {
		c.logger.Warn("failed to clear cache blob", "error", err)
	}
}

// Stats reports how many entries the blob currently holds, partitioned by the
// same expiry predicate Get applies.
func (c *Cache) Stats(ctx context.Context) Stats {
	entries, _ := c.load(ctx)

	var s Stats
	for _, entry := range entries {
		s.TotalEntries++
		if c.expired(entry) {
			s.ExpiredEntries++
		} else {
			s.ValidEntries++
		}
	}
	return s
}

func (c *Cache) expired(entry CachedRate) bool {
	return c.now().UnixMilli()-entry.Timestamp >= c.ttl.Milliseconds()
}

// load reads and decodes the blob. An absent or corrupt blob is (nil, nil):
// safe to rebuild from scratch. A backend read failure is returned as an
// error so writers know the blob may still hold live entries.
func (c *Cache) load(ctx context.Context) (map[string]CachedRate, error) {
	blob, err := c.store.Get(ctx, StorageKey)
	if err != nil {
		c.logger.Debug("cache blob unreadable, treating as miss", "error", err)
		return nil, err
	}
	if blob == nil {
		return nil, nil
	}

	var entries map[string]CachedRate
	if err := json.Unmarshal(blob, &entries); err != nil {
		c.logger.Debug("cache blob corrupt, treating as miss", "error", err)
		return nil, nil
	}
	return entries, nil
}
