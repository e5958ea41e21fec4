package identity

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the bearer-token payload: a signed, time-bounded assertion that
// the holder is the account behind Subject.
type Claims struct {
	jwt.RegisteredClaims
}

// Subject returns the token subject, the account's email at issuance time.
func (c *Claims) Subject() string {
	return c.RegisteredClaims.Subject
}

// Email is an alias for Subject; the subject claim carries the login email.
func (c *Claims) Email() string {
	return c.RegisteredClaims.Subject
}

// Expires returns the expiry timestamp.
func (c *Claims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issuance timestamp.
func (c *Claims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
