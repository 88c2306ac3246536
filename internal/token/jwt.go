package token

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dtroode/recipai/internal/model"
	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the JWT claims the remote API may place in a session token.
type Claims struct {
	jwt.RegisteredClaims
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
}

// JWT implements TokenInspector for JWT-shaped tokens.
// The client holds no key, so signatures are never verified here.
type JWT struct {
	parser *jwt.Parser
}

// NewJWT creates a new JWT token inspector.
func NewJWT() model.TokenInspector {
	return &JWT{parser: jwt.NewParser()}
}

// Inspect extracts claims from tokenString.
// Tokens that are not JWTs yield ErrOpaqueToken.
func (j *JWT) Inspect(tokenString string) (model.TokenClaims, error) {
	if strings.Count(tokenString, ".") != 2 {
		return model.TokenClaims{}, model.ErrOpaqueToken
	}

	claims := &Claims{}
	_, _, err := j.parser.ParseUnverified(tokenString, claims)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return model.TokenClaims{}, fmt.Errorf("%w: %w", model.ErrOpaqueToken, err)
		}
		return model.TokenClaims{}, fmt.Errorf("failed to parse token: %w", err)
	}

	out := model.TokenClaims{
		Subject:  claims.Subject,
		Email:    claims.Email,
		Username: claims.Username,
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
