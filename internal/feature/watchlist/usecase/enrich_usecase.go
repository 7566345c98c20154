package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"watchlist_backend/internal/feature/watchlist/domain/entity"
)

// MarketDataProvider reads live market data for one symbol.
// Implementations treat provider JSON as partial: absent numbers come back as zero.
type MarketDataProvider interface {
	Quote(ctx context.Context, symbol string) (entity.Quote, error)
	Profile(ctx context.Context, symbol string) (entity.Profile, error)
	Metrics(ctx context.Context, symbol string) (entity.Metrics, error)
}

// WatchlistLister lists the current user's watchlist items.
type WatchlistLister interface {
	List(ctx context.Context) ([]entity.WatchlistItem, error)
}

// EnricherConfig configures the enricher.
type EnricherConfig struct {
	// APIKey is the market-data credential; when empty, rows carry identity fields only.
	APIKey string
	// FanoutLimit bounds symbols enriched concurrently; zero or less means unbounded.
	FanoutLimit int
}

// EnrichUsecase joins watchlist items with live market data.
type EnrichUsecase struct {
	provider MarketDataProvider
	lister   WatchlistLister
	session  SessionReader
	cfg      EnricherConfig
}

// NewEnrichUsecase creates an EnrichUsecase.
func NewEnrichUsecase(provider MarketDataProvider, lister WatchlistLister, session SessionReader, cfg EnricherConfig) *EnrichUsecase {
	return &EnrichUsecase{
		provider: provider,
		lister:   lister,
		session:  session,
		cfg:      cfg,
	}
}

// WatchlistWithData returns the current user's watchlist enriched with market data.
// Rows are rebuilt on every call; only the provider responses underneath are cached.
// The error only reports ErrUnauthenticated; every other failure degrades the result.
func (u *EnrichUsecase) WatchlistWithData(ctx context.Context) ([]entity.StockRow, error) {
	userID, err := u.session.CurrentUserID(ctx)
	if err != nil || userID == "" {
		return []entity.StockRow{}, ErrUnauthenticated
	}

	items, err := u.lister.List(ctx)
	if err != nil {
		return []entity.StockRow{}, err
	}

	return u.Enrich(ctx, items), nil
}

// Enrich fetches market data for every item concurrently and returns one row per item, in input order.
// A failing symbol gets sentinel display values; it never affects the other rows.
func (u *EnrichUsecase) Enrich(ctx context.Context, items []entity.WatchlistItem) []entity.StockRow {
	if len(items) == 0 {
		return []entity.StockRow{}
	}

	if u.cfg.APIKey == "" {
		slog.Error("market data API key not configured")
		rows := make([]entity.StockRow, len(items))
		for i, it := range items {
			rows[i] = identityRow(it)
		}
		return rows
	}

	rows := make([]entity.StockRow, len(items))
	var g errgroup.Group
	if u.cfg.FanoutLimit > 0 {
		g.SetLimit(u.cfg.FanoutLimit)
	}
	for i, it := range items {
		g.Go(func() error {
			// 各goroutineは自分のインデックスにのみ書き込む
			rows[i] = u.enrichOne(ctx, it)
			return nil
		})
	}
	// workers never return an error
	g.Wait()
	return rows
}

// enrichOne runs the quote, profile and metrics fetches for one symbol.
// Errors and panics are contained and turn into a degraded row.
func (u *EnrichUsecase) enrichOne(ctx context.Context, item entity.WatchlistItem) (row entity.StockRow) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("error fetching data for symbol", "symbol", item.Symbol, "error", fmt.Sprint(r))
			row = degradedRow(item)
		}
	}()

	quote, err := u.provider.Quote(ctx, item.Symbol)
	if err != nil {
		return u.fail(item, "quote", err)
	}
	profile, err := u.provider.Profile(ctx, item.Symbol)
	if err != nil {
		return u.fail(item, "profile", err)
	}
	metrics, err := u.provider.Metrics(ctx, item.Symbol)
	if err != nil {
		return u.fail(item, "metrics", err)
	}

	return BuildRow(item, quote, profile, metrics)
}

func (u *EnrichUsecase) fail(item entity.WatchlistItem, step string, err error) entity.StockRow {
	slog.Error("error fetching data for symbol", "symbol", item.Symbol, "step", step, "error", err)
	return degradedRow(item)
}

// BuildRow derives the display fields from raw provider values.
func BuildRow(item entity.WatchlistItem, q entity.Quote, p entity.Profile, m entity.Metrics) entity.StockRow {
	row := identityRow(item)
	price, change := q.Current, q.ChangePercent
	row.CurrentPrice = &price
	row.ChangePercent = &change
	row.PriceFormatted = FormatPrice(price)
	row.ChangeFormatted = FormatChange(change)
	row.MarketCap = FormatMarketCap(p.MarketCapitalization)
	row.PERatio = FormatPERatio(peRatio(m))
	return row
}

func identityRow(item entity.WatchlistItem) entity.StockRow {
	return entity.StockRow{
		UserID:  item.UserID,
		Symbol:  item.Symbol,
		Company: item.Company,
		AddedAt: item.AddedAt,
	}
}

func degradedRow(item entity.WatchlistItem) entity.StockRow {
	row := identityRow(item)
	row.PriceFormatted = entity.NotAvailable
	row.ChangeFormatted = entity.NotAvailable
	row.MarketCap = entity.NotAvailable
	row.PERatio = entity.NotAvailable
	return row
}
