// Package cache provides Redis caching decorators for watchlist ports.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"watchlist_backend/internal/feature/watchlist/domain/entity"
	"watchlist_backend/internal/feature/watchlist/usecase"
)

const (
	// DefaultQuoteTTL bounds how stale a cached price can be.
	DefaultQuoteTTL = 60 * time.Second
	// DefaultReferenceTTL applies to profile and metrics, which change slowly.
	DefaultReferenceTTL = time.Hour

	marketNamespace = "finnhub"
)

// CachingMarketData decorates a MarketDataProvider with Redis caching.
// Only successful responses are cached.
type CachingMarketData struct {
	inner        usecase.MarketDataProvider
	rdb          *redis.Client
	quoteTTL     time.Duration
	referenceTTL time.Duration
}

var _ usecase.MarketDataProvider = (*CachingMarketData)(nil)

// NewCachingMarketData decorates inner with Redis caching.
// Non-positive TTLs fall back to DefaultQuoteTTL and DefaultReferenceTTL.
func NewCachingMarketData(rdb *redis.Client, inner usecase.MarketDataProvider, quoteTTL, referenceTTL time.Duration) *CachingMarketData {
	if quoteTTL <= 0 {
		quoteTTL = DefaultQuoteTTL
	}
	if referenceTTL <= 0 {
		referenceTTL = DefaultReferenceTTL
	}
	return &CachingMarketData{
		inner:        inner,
		rdb:          rdb,
		quoteTTL:     quoteTTL,
		referenceTTL: referenceTTL,
	}
}

func (c *CachingMarketData) Quote(ctx context.Context, symbol string) (entity.Quote, error) {
	return cached(ctx, c.rdb, marketKey("quote", symbol), c.quoteTTL, func() (entity.Quote, error) {
		return c.inner.Quote(ctx, symbol)
	})
}

func (c *CachingMarketData) Profile(ctx context.Context, symbol string) (entity.Profile, error) {
	return cached(ctx, c.rdb, marketKey("profile", symbol), c.referenceTTL, func() (entity.Profile, error) {
		return c.inner.Profile(ctx, symbol)
	})
}

func (c *CachingMarketData) Metrics(ctx context.Context, symbol string) (entity.Metrics, error) {
	return cached(ctx, c.rdb, marketKey("metrics", symbol), c.referenceTTL, func() (entity.Metrics, error) {
		return c.inner.Metrics(ctx, symbol)
	})
}

func marketKey(kind, symbol string) string {
	return fmt.Sprintf("%s:%s:%s", marketNamespace, kind, safe(strings.ToUpper(symbol)))
}

// cached reads key from Redis, falling back to fetch and storing its result.
// A nil client bypasses the cache entirely.
func cached[T any](ctx context.Context, rdb *redis.Client, key string, ttl time.Duration, fetch func() (T, error)) (T, error) {
	if rdb == nil {
		return fetch()
	}

	// 1) Check cache
	if b, err := rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out T
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to upstream
	out, err := fetch()
	if err != nil {
		return out, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = rdb.Set(ctx, key, b, ttl).Err()
	}
	return out, nil
}
