package model

import (
	"errors"
	"time"
)

// ErrOpaqueToken is returned by a TokenInspector for tokens it cannot read.
// Opaque tokens are valid as far as the client can tell.
var ErrOpaqueToken = errors.New("opaque token")

// TokenClaims are the fields the client can read from a bearer token.
type TokenClaims struct {
	Subject   string
	Email     string
	Username  string
	ExpiresAt time.Time
}

// Expired reports whether the claims carry an expiry before now.
func (c TokenClaims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// TokenInspector reads claims from a bearer token without verifying it.
type TokenInspector interface {
	Inspect(token string) (TokenClaims, error)
}
