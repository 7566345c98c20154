// Package di provides dependency injection factories for creating application components.
package di

import (
	"github.com/redis/go-redis/v9"

	"watchlist_backend/internal/feature/watchlist/usecase"
	"watchlist_backend/internal/platform/cache"
	"watchlist_backend/internal/platform/externalapi/finnhub"
	infrahttp "watchlist_backend/internal/platform/http"
)

// NewMarket creates a rate-limited Finnhub client behind the Redis cache.
// A nil rdb disables caching.
func NewMarket(cfg finnhub.Config, rdb *redis.Client) usecase.MarketDataProvider {
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout, infrahttp.DefaultRetryMax)
	market := finnhub.NewMarketFromConfig(cfg, httpClient)
	return cache.NewCachingMarketData(rdb, market, cache.DefaultQuoteTTL, cache.DefaultReferenceTTL)
}
