// Package entity defines the domain models for the watchlist feature.
package entity

import "time"

// WatchlistItem is a user's persisted intent to track one ticker symbol.
// (UserID, Symbol) is unique; items are created and deleted but never updated.
type WatchlistItem struct {
	UserID  string
	Symbol  string
	Company string
	AddedAt time.Time
}

// Identity is a user record resolved outside of a session, e.g. by e-mail.
type Identity struct {
	ID string
}

// ActionResult is the uniform outcome of a mutating watchlist operation.
type ActionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
