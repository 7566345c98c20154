// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User represents a registered user in the system.
type User struct {
	// ID is the internal row identifier.
	ID uint `gorm:"primaryKey"`

	// PublicID is the opaque identifier carried in tokens and used as the
	// owner key of watchlist items.
	PublicID string `gorm:"uniqueIndex;size:36;not null"`

	// Email must be unique across all users.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// Password is the bcrypt hash; plaintext is never stored.
	Password string `gorm:"size:255;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
