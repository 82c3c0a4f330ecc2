package entity

import "time"

// Session is the server-side record behind the authentication marker cookie.
// The cookie only carries the opaque ID; everything else lives in the store.
type Session struct {
	ID        string     // Opaque marker value (64-character hex string)
	UserID    uint       // Signed-in user
	UserAgent string     // Client's User-Agent header at sign-in
	IPAddress string     // Client's IP address at sign-in
	CreatedAt time.Time  // Sign-in time
	ExpiresAt time.Time  // Hard expiry; the cookie itself has no Max-Age
	RevokedAt *time.Time // Sign-out time (nil while active)
}

// IsExpired returns true if the session has passed its expiration time.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// IsRevoked returns true if the session was ended by sign-out.
func (s *Session) IsRevoked() bool {
	return s.RevokedAt != nil
}

// IsValid reports whether the session still proves a prior sign-in.
func (s *Session) IsValid() bool {
	return !s.IsExpired() && !s.IsRevoked()
}

// TTL returns the remaining lifetime, or zero when already expired.
func (s *Session) TTL() time.Duration {
	d := time.Until(s.ExpiresAt)
	if d < 0 {
		return 0
	}
	return d
}
