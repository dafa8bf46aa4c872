// ABOUTME: Reads bearer token claims without verifying the signature
// ABOUTME: Used for expiry checks on restore and the admin fallback claim

package session

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is what the client can read from a bearer token without the
// server's signing key. Tokens that are not JWTs yield zero Claims.
type Claims struct {
	ExpiresAt time.Time
	Admin     bool
}

// Expired reports whether the token carried an exp claim that has passed
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// ParseClaims decodes token claims without verifying the signature. The
// server stays the authority; this only lets the client drop a token it
// already knows is dead.
func ParseClaims(token string) Claims {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Claims{}
	}

	var out Claims
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	if v, ok := claims["is_admin"].(bool); ok && v {
		out.Admin = true
	}
	if role, ok := claims["role"].(string); ok && strings.EqualFold(role, "admin") {
		out.Admin = true
	}
	return out
}
