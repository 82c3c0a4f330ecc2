// Package domain defines domain-level errors for the auth feature.
package domain

import "errors"

// Domain errors for authentication operations.
// Handlers map them to HTTP responses; anything else is treated as an internal failure.
var (
	// ErrInvalidCredentials is the only failure a signing-in user ever sees.
	// Unknown email, wrong password and a malformed stored hash all collapse into it.
	ErrInvalidCredentials = errors.New("email or password is incorrect")

	// ErrAuthenticationRequired is returned to JSON clients hitting a protected route without a marker.
	ErrAuthenticationRequired = errors.New("authentication required")

	// ErrStoreUnavailable wraps any failure reaching the credential or session store.
	ErrStoreUnavailable = errors.New("credential store unavailable")

	// ErrUserNotFound indicates that no user matches the given email or ID.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailAlreadyExists is returned when provisioning a user whose email is taken.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrSessionNotFound is returned when a session cannot be found by ID.
	ErrSessionNotFound = errors.New("session not found")
)
