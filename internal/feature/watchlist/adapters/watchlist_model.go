// Package adapters はwatchlistフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"time"

	"watchlist_backend/internal/feature/watchlist/domain/entity"
)

// WatchlistModel is the persisted form of a watchlist item.
// (user_id, symbol) is unique; symbol is stored uppercase.
type WatchlistModel struct {
	ID      uint      `gorm:"primaryKey"`
	UserID  string    `gorm:"size:64;not null;uniqueIndex:idx_watchlist_user_symbol,priority:1;index:idx_watchlist_user_added,priority:1"`
	Symbol  string    `gorm:"size:32;not null;uniqueIndex:idx_watchlist_user_symbol,priority:2"`
	Company string    `gorm:"size:255;not null"`
	AddedAt time.Time `gorm:"not null;index:idx_watchlist_user_added,priority:2"`
}

func (WatchlistModel) TableName() string {
	return "watchlist"
}

func toModel(e *entity.WatchlistItem) WatchlistModel {
	return WatchlistModel{
		UserID:  e.UserID,
		Symbol:  e.Symbol,
		Company: e.Company,
		AddedAt: e.AddedAt,
	}
}

func (m WatchlistModel) toEntity() entity.WatchlistItem {
	return entity.WatchlistItem{
		UserID:  m.UserID,
		Symbol:  m.Symbol,
		Company: m.Company,
		AddedAt: m.AddedAt,
	}
}
