package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultExpiryMargin is subtracted from a token's expiration instant during
// validity checks to absorb clock skew and request latency.
const DefaultExpiryMargin = 60 * time.Second

// Claims is the decoded payload of a bearer token.
type Claims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Codec decodes tokens and computes expiration against a fixed safety
// margin. The zero margin is replaced with [DefaultExpiryMargin].
type Codec struct {
	margin time.Duration
}

// NewCodec returns a Codec using the given expiry margin.
func NewCodec(margin time.Duration) *Codec {
	if margin <= 0 {
		margin = DefaultExpiryMargin
	}
	return &Codec{margin: margin}
}

// Decode extracts the claims embedded in tok without verifying its
// signature. It reports false on malformed input — wrong segment count,
// invalid encoding, invalid JSON — and never panics.
func (c *Codec) Decode(tok string) (*Claims, bool) {
	if tok == "" {
		return nil, false
	}

	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return nil, false
	}
	return claims, true
}

// IsExpired reports whether tok should be treated as expired. Undecodable
// tokens are expired. Tokens without an exp claim never expire; bridged
// sessions are issued without one. Otherwise the token is expired once the
// current time is within the safety margin of the expiration instant.
func (c *Codec) IsExpired(tok string) bool {
	claims, ok := c.Decode(tok)
	if !ok {
		return true
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !time.Now().Before(claims.ExpiresAt.Time.Add(-c.margin))
}

// TimeRemaining returns the duration until tok's expiration instant,
// ignoring the safety margin. It returns zero for expired, undecodable, and
// claim-less tokens.
func (c *Codec) TimeRemaining(tok string) time.Duration {
	claims, ok := c.Decode(tok)
	if !ok || claims.ExpiresAt == nil {
		return 0
	}
	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining < 0 {
		return 0
	}
	return remaining
}
