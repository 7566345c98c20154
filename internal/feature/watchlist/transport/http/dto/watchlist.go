// Package dto defines data transfer objects for the watchlist HTTP API.
package dto

import (
	"net/url"
	"time"

	"watchlist_backend/internal/feature/watchlist/domain/entity"
)

// Tone classes for the change cell.
const (
	TonePositive = "text-green-500"
	ToneNegative = "text-red-500"
	ToneNeutral  = "text-gray-400"
)

// AddWatchlistRequest is the body of POST /api/watchlist.
type AddWatchlistRequest struct {
	Symbol  string `json:"symbol"`
	Company string `json:"company"`
}

// WatchlistRow is one enriched row as served to clients.
type WatchlistRow struct {
	Symbol          string    `json:"symbol"`
	Company         string    `json:"company"`
	AddedAt         time.Time `json:"addedAt"`
	Href            string    `json:"href"`
	CurrentPrice    *float64  `json:"currentPrice,omitempty"`
	ChangePercent   *float64  `json:"changePercent,omitempty"`
	PriceFormatted  string    `json:"priceFormatted,omitempty"`
	ChangeFormatted string    `json:"changeFormatted,omitempty"`
	ChangeTone      string    `json:"changeTone"`
	MarketCap       string    `json:"marketCap,omitempty"`
	PERatio         string    `json:"peRatio,omitempty"`
}

// StockHref is the detail page of a symbol.
func StockHref(symbol string) string {
	return "/stocks/" + url.PathEscape(symbol)
}

// ChangeTone is neutral when the change is absent or exactly zero.
func ChangeTone(changePercent *float64) string {
	switch {
	case changePercent == nil || *changePercent == 0:
		return ToneNeutral
	case *changePercent > 0:
		return TonePositive
	default:
		return ToneNegative
	}
}

// FromStockRow converts an enriched row to its wire form.
func FromStockRow(r entity.StockRow) WatchlistRow {
	return WatchlistRow{
		Symbol:          r.Symbol,
		Company:         r.Company,
		AddedAt:         r.AddedAt,
		Href:            StockHref(r.Symbol),
		CurrentPrice:    r.CurrentPrice,
		ChangePercent:   r.ChangePercent,
		PriceFormatted:  r.PriceFormatted,
		ChangeFormatted: r.ChangeFormatted,
		ChangeTone:      ChangeTone(r.ChangePercent),
		MarketCap:       r.MarketCap,
		PERatio:         r.PERatio,
	}
}

// FromStockRows converts rows, keeping their order. It never returns nil.
func FromStockRows(rows []entity.StockRow) []WatchlistRow {
	out := make([]WatchlistRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromStockRow(r))
	}
	return out
}
