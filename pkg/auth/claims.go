package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenClaims is the payload of a backend-issued access token.
type AccessTokenClaims struct {
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Claims is the subset of token data the storefront relies on.
type Claims struct {
	Subject   string
	Email     string
	Role      string
	ExpiresAt time.Time
}

// Expired reports whether the token expiry is set and has passed at now.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}
