package entity

import "time"

// NotAvailable is the sentinel shown whenever a market value is missing,
// non-positive where positivity is required, or could not be fetched.
const NotAvailable = "N/A"

// StockRow is a WatchlistItem joined with live market data, ready for display.
// It is recomputed per request and never persisted.
type StockRow struct {
	UserID  string    `json:"userId"`
	Symbol  string    `json:"symbol"`
	Company string    `json:"company"`
	AddedAt time.Time `json:"addedAt"`

	// Raw values are set only when the market data fetch succeeded.
	CurrentPrice  *float64 `json:"currentPrice,omitempty"`
	ChangePercent *float64 `json:"changePercent,omitempty"`

	PriceFormatted  string `json:"priceFormatted,omitempty"`
	ChangeFormatted string `json:"changeFormatted,omitempty"`
	MarketCap       string `json:"marketCap,omitempty"`
	PERatio         string `json:"peRatio,omitempty"`
}
