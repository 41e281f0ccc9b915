package cep

import (
	"context"
	"log/slog"

	"github.com/Raymond9734/customer-records-api/internal/cache"
	"github.com/Raymond9734/customer-records-api/internal/metrics"
	"github.com/Raymond9734/customer-records-api/internal/models"
)

// CachedResolver serves previously resolved CEPs from a cache and
// falls through to the wrapped resolver on a miss. Only successful
// lookups are cached. Cache failures never fail a lookup.
type CachedResolver struct {
	next   AddressResolver
	cache  cache.AddressCache
	logger *slog.Logger
}

// NewCachedResolver wraps next with an address cache
func NewCachedResolver(next AddressResolver, c cache.AddressCache, logger *slog.Logger) *CachedResolver {
	return &CachedResolver{
		next:   next,
		cache:  c,
		logger: logger,
	}
}

// Resolve returns the cached address or resolves and caches it
func (r *CachedResolver) Resolve(ctx context.Context, cep string) (*models.Address, error) {
	addr, found, err := r.cache.Get(ctx, cep)
	switch {
	case err != nil:
		metrics.RecordCacheResult("error")
		r.logger.Warn("cep cache read failed",
			slog.String("cep", cep),
			slog.String("error", err.Error()),
		)
	case found:
		metrics.RecordCacheResult("hit")
		return addr, nil
	default:
		metrics.RecordCacheResult("miss")
	}

	addr, err = r.next.Resolve(ctx, cep)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, cep, addr); err != nil {
		r.logger.Warn("cep cache write failed",
			slog.String("cep", cep),
			slog.String("error", err.Error()),
		)
	}

	return addr, nil
}
