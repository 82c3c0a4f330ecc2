// Package pending remembers the protected URL a visitor asked for while signed out,
// so the sign-in flow can send them back to it.
//
// The destination travels with the client in a short-lived HS256-signed cookie.
// Nothing is kept in process memory, so two visitors never see each other's destination.
package pending

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"fluxfinance/internal/platform/cookie"
)

const (
	// CookieName is the cookie carrying the signed destination.
	CookieName = "pending_destination"

	// DefaultTTL is how long a recorded destination stays usable.
	DefaultTTL = 10 * time.Minute

	// DefaultDestination is returned by Take when nothing valid is pending.
	DefaultDestination = "/"
)

// ErrNonLocalDestination is returned by Record for URLs that could leave the site.
var ErrNonLocalDestination = errors.New("destination is not a local path")

type destinationClaims struct {
	Dest string `json:"dest"`
	jwt.RegisteredClaims
}

// Tracker records and restores pending destinations.
type Tracker struct {
	secret  []byte
	ttl     time.Duration
	cookies *cookie.Manager
	now     func() time.Time
}

// NewTracker creates a Tracker that signs with secret.
// A non-positive ttl falls back to DefaultTTL.
func NewTracker(secret string, ttl time.Duration, cookies *cookie.Manager) *Tracker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Tracker{
		secret:  []byte(secret),
		ttl:     ttl,
		cookies: cookies,
		now:     time.Now,
	}
}

// Record overwrites the visitor's pending destination with dest.
func (t *Tracker) Record(c *gin.Context, dest string) error {
	if !IsLocal(dest) {
		return ErrNonLocalDestination
	}
	now := t.now()
	claims := destinationClaims{
		Dest: dest,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return fmt.Errorf("failed to sign pending destination: %w", err)
	}
	t.cookies.Set(c, CookieName, signed, int(t.ttl.Seconds()))
	return nil
}

// Peek returns the pending destination without consuming it.
// Missing, tampered, expired or non-local values all read as "".
func (t *Tracker) Peek(c *gin.Context) string {
	raw, err := c.Cookie(CookieName)
	if err != nil || raw == "" {
		return ""
	}
	var claims destinationClaims
	_, err = jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !IsLocal(claims.Dest) {
		return ""
	}
	return claims.Dest
}

// Take returns the pending destination and clears it, or DefaultDestination when none is pending.
func (t *Tracker) Take(c *gin.Context) string {
	dest := t.Peek(c)
	if _, err := c.Cookie(CookieName); err == nil {
		t.cookies.Clear(c, CookieName)
	}
	if dest == "" {
		return DefaultDestination
	}
	return dest
}

// IsLocal reports whether dest is a same-site absolute path such as "/purchase-invoices?page=2".
func IsLocal(dest string) bool {
	if !strings.HasPrefix(dest, "/") || strings.HasPrefix(dest, "//") || strings.HasPrefix(dest, "/\\") {
		return false
	}
	if strings.ContainsAny(dest, "\r\n\t") {
		return false
	}
	u, err := url.Parse(dest)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == "" && u.User == nil
}
