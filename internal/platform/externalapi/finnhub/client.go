package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"watchlist_backend/internal/feature/watchlist/domain/entity"
	"watchlist_backend/internal/feature/watchlist/usecase"
	"watchlist_backend/internal/platform/externalapi/finnhub/dto"
	"watchlist_backend/internal/shared/ratelimiter"
)

// Market はFinnhub APIから銘柄データを取得するMarketDataProvider実装です。
type Market struct {
	cfg     Config
	client  *http.Client
	limiter ratelimiter.Limiter
}

var _ usecase.MarketDataProvider = (*Market)(nil)

// NewMarket は指定された設定とHTTPクライアントでMarketを生成します。
// limiterがnilの場合はレート制限を行いません。
func NewMarket(cfg Config, client *http.Client, limiter ratelimiter.Limiter) *Market {
	return &Market{cfg: cfg, client: client, limiter: limiter}
}

// NewMarketFromConfig は設定値からHTTPクライアントとレートリミッタを組み立てます。
func NewMarketFromConfig(cfg Config, client *http.Client) *Market {
	var limiter ratelimiter.Limiter
	if cfg.RequestsPerMinute > 0 {
		limiter = ratelimiter.NewRateLimiter(cfg.RequestsPerMinute, time.Minute)
	}
	return NewMarket(cfg, client, limiter)
}

// Quote は/quoteから現在値と前日比(%)を取得します。
func (m *Market) Quote(ctx context.Context, symbol string) (entity.Quote, error) {
	var body dto.QuoteResponse
	if err := m.get(ctx, "/quote", url.Values{"symbol": {symbol}}, &body); err != nil {
		return entity.Quote{}, err
	}
	return entity.Quote{Current: body.Current, ChangePercent: body.ChangePercent}, nil
}

// Profile は/stock/profile2から時価総額を取得します。
func (m *Market) Profile(ctx context.Context, symbol string) (entity.Profile, error) {
	var body dto.ProfileResponse
	if err := m.get(ctx, "/stock/profile2", url.Values{"symbol": {symbol}}, &body); err != nil {
		return entity.Profile{}, err
	}
	return entity.Profile{MarketCapitalization: body.MarketCapitalization}, nil
}

// Metrics は/stock/metricからP/Eレシオを取得します。
func (m *Market) Metrics(ctx context.Context, symbol string) (entity.Metrics, error) {
	var body dto.MetricResponse
	q := url.Values{"symbol": {symbol}, "metric": {"all"}}
	if err := m.get(ctx, "/stock/metric", q, &body); err != nil {
		return entity.Metrics{}, err
	}
	return entity.Metrics{
		PEBasicExclExtraTTM: body.Metric.PEBasicExclExtraTTM,
		PETTM:               body.Metric.PETTM,
	}, nil
}

// get issues a GET against path and decodes the JSON body into out.
// Any status >= 400 is an error.
func (m *Market) get(ctx context.Context, path string, q url.Values, out any) error {
	if m.limiter != nil {
		if err := m.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("finnhub rate limit: %w", err)
		}
	}

	q.Set("token", m.cfg.APIKey)
	u := fmt.Sprintf("%s%s?%s", m.cfg.BaseURL, path, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	res, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return fmt.Errorf("finnhub %s http %d", path, res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("finnhub %s decode: %w", path, err)
	}
	return nil
}
