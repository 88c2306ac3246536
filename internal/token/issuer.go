package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer signs session tokens with a symmetric HMAC key.
// The client never signs tokens itself; the issuer backs the fake API used in
// tests and local development.
type Issuer struct {
	secretKey string
	ttl       time.Duration
	now       func() time.Time
}

// NewIssuer creates a new token issuer. A zero ttl produces tokens without expiry.
func NewIssuer(secretKey string, ttl time.Duration) *Issuer {
	return &Issuer{secretKey: secretKey, ttl: ttl, now: time.Now}
}

// Issue creates a signed token for the given user.
func (i *Issuer) Issue(email, username string) (string, error) {
	now := i.now()
	registered := jwt.RegisteredClaims{
		Subject:  email,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if i.ttl != 0 {
		registered.ExpiresAt = jwt.NewNumericDate(now.Add(i.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: registered,
		Email:            email,
		Username:         username,
	})

	tokenString, err := token.SignedString([]byte(i.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}
