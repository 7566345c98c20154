package cache

import (
	"context"

	"github.com/redis/go-redis/v9"

	"watchlist_backend/internal/feature/watchlist/usecase"
)

// WatchlistChangedChannel is the pub/sub channel carrying the id of a user whose watchlist changed.
const WatchlistChangedChannel = "watchlist:changed"

// WatchlistChangeNotifier publishes watchlist changes over Redis pub/sub.
// Subscribers (other server instances, symbol-driven jobs) drop whatever they derived from the old list.
// No enriched rows are stored here; views are rebuilt on every render.
type WatchlistChangeNotifier struct {
	rdb *redis.Client
}

var _ usecase.ChangeNotifier = (*WatchlistChangeNotifier)(nil)

// NewWatchlistChangeNotifier creates a notifier. A nil client makes NotifyChanged a no-op.
func NewWatchlistChangeNotifier(rdb *redis.Client) *WatchlistChangeNotifier {
	return &WatchlistChangeNotifier{rdb: rdb}
}

// NotifyChanged publishes userID on WatchlistChangedChannel.
func (n *WatchlistChangeNotifier) NotifyChanged(ctx context.Context, userID string) error {
	if n.rdb == nil {
		return nil
	}
	return n.rdb.Publish(ctx, WatchlistChangedChannel, safe(userID)).Err()
}
