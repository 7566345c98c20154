// Package usecase implements the business logic for the watchlist feature.
package usecase

import "errors"

var (
	// ErrUnauthenticated is returned when the request carries no valid session.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrValidation is returned when a symbol or company is empty after normalization.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when removing a (user, symbol) pair that does not exist.
	ErrNotFound = errors.New("watchlist item not found")

	// ErrAlreadyExists is returned by repositories when the (user, symbol) unique key is violated.
	ErrAlreadyExists = errors.New("watchlist item already exists")

	// ErrStoreUnavailable classifies unexpected store failures surfaced as a generic message.
	ErrStoreUnavailable = errors.New("watchlist store unavailable")

	// ErrIdentityNotFound is returned by identity lookups when no user matches.
	ErrIdentityNotFound = errors.New("identity not found")
)

// User-facing messages carried in ActionResult.
const (
	msgSymbolRequired  = "Stock symbol is required."
	msgCompanyRequired = "Company name is required."
	msgAlreadyExists   = "Stock is already in your watchlist."
	msgNotFound        = "Stock not found in watchlist."
	msgAddFailed       = "Failed to add stock to watchlist."
	msgRemoveFailed    = "Failed to remove stock from watchlist."
)
