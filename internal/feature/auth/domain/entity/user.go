// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User represents a provisioned account that can sign in.
// Rows are created once by the seed command and are read-only for the sign-in flow.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey"`

	// Email is the address used to sign in. It is unique across all users.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// Name is the display name. Optional.
	Name string `gorm:"size:255"`

	// PasswordHash is the stored credential. Accepted formats are a bcrypt hash,
	// an argon2id PHC string, or the legacy "sha256hex:salt" pair.
	PasswordHash string `gorm:"column:password_hash;size:255;not null"`

	// CreatedAt is the timestamp when the user was provisioned.
	CreatedAt time.Time

	// UpdatedAt is the timestamp when the user was last updated.
	UpdatedAt time.Time
}

// ClientInfo describes the client that is signing in.
// It is stored on the session for auditing only.
type ClientInfo struct {
	UserAgent string
	IPAddress string
}
