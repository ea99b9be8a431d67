package exchange

import (
	"context"
	"log/slog"
)

// CachedConverter wraps a RateProvider with the TTL cache: hits short-circuit
// the upstream call, misses fetch and backfill. Cache failures never mask a
// provider result.
type CachedConverter struct {
	provider RateProvider
	cache    *Cache
	logger   *slog.Logger
}

// NewCachedConverter creates a converter over the given provider and cache.
func NewCachedConverter(provider RateProvider, cache *Cache, logger *slog.Logger) *CachedConverter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedConverter{
		provider: provider,
		cache:    cache,
		logger:   logger.With(slog.String("component", "cached_converter")),
	}
}

// Convert returns the conversion for the exact (from, to, amount) triple,
// consulting the cache first.
func (c *CachedConverter) Convert(
	ctx context.Context,
	from, to string,
	amount float64,
) (*Conversion, error) {
	if from == to {
		return &Conversion{
			FromCurrency: from,
			ToCurrency:   to,
			Amount:       amount,
			Rate:         1,
			Converted:    amount,
		}, nil
	}

	if hit := c.cache.Get(ctx, from, to, amount); hit != nil {
		c.logger.Debug("cache hit", "from", from, "to", to, "amount", amount)
		return &Conversion{
			FromCurrency: from,
			ToCurrency:   to,
			Amount:       amount,
			Rate:         hit.Rate,
			Converted:    hit.Converted,
		}, nil
	}

	c.logger.Debug("cache miss, fetching from provider", "from", from, "to", to, "amount", amount)
	conv, err := c.provider.Convert(ctx, from, to, amount)
	if err != nil {
		return nil, err
	}

	c.cache.Set(ctx, from, to, amount, conv.Rate, conv.Converted)
	return conv, nil
}

var _ RateProvider = (*CachedConverter)(nil)
