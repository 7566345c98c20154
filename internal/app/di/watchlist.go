package di

import (
	"os"
	"strconv"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"watchlist_backend/internal/feature/watchlist/adapters"
	"watchlist_backend/internal/feature/watchlist/transport/handler"
	"watchlist_backend/internal/feature/watchlist/usecase"
	"watchlist_backend/internal/platform/cache"
	"watchlist_backend/internal/platform/externalapi/finnhub"
	jwtmw "watchlist_backend/internal/platform/jwt"
)

// EnvKeyFanoutLimit bounds how many symbols are enriched at once.
const EnvKeyFanoutLimit = "WATCHLIST_FANOUT_LIMIT"

// NewWatchlistUsecase wires the store accessor. It needs no session for ListSymbolsByEmail.
// Changes are published on Redis when rdb is non-nil.
func NewWatchlistUsecase(db *gorm.DB, rdb *redis.Client) *usecase.WatchlistUsecase {
	return usecase.NewWatchlistUsecase(
		adapters.NewWatchlistRepository(db),
		adapters.NewIdentityRepository(db),
		jwtmw.ContextSession{},
		cache.NewWatchlistChangeNotifier(rdb),
	)
}

// NewWatchlistHandler wires the watchlist HTTP surface.
// rdb caches provider responses and carries change notifications; enriched rows are never cached.
func NewWatchlistHandler(db *gorm.DB, rdb *redis.Client) *handler.WatchlistHandler {
	cfg := finnhub.LoadConfig()

	store := NewWatchlistUsecase(db, rdb)
	enrich := usecase.NewEnrichUsecase(
		NewMarket(cfg, rdb),
		store,
		jwtmw.ContextSession{},
		usecase.EnricherConfig{APIKey: cfg.APIKey, FanoutLimit: fanoutLimit()},
	)
	return handler.NewWatchlistHandler(store, enrich)
}

func fanoutLimit() int {
	n, err := strconv.Atoi(os.Getenv(EnvKeyFanoutLimit))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
