package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dtroode/recipai/internal/logger"
	"github.com/dtroode/recipai/internal/model"
)

const fallbackEmail = "user@example.com"

// TokenService persists the session keys and decides whether a stored token
// can still be used.
type TokenService struct {
	inspector model.TokenInspector
	store     model.Store
	logger    *logger.Logger
	now       func() time.Time
}

func NewTokenService(inspector model.TokenInspector, store model.Store, logger *logger.Logger) *TokenService {
	return &TokenService{inspector: inspector, store: store, logger: logger, now: time.Now}
}

// Load reads the persisted session. It never fails: an absent, unreadable or
// expired token yields an anonymous state.
func (s *TokenService) Load(ctx context.Context) model.SessionState {
	anonymous := model.SessionState{Status: model.StatusAnonymous}

	token, ok := s.read(ctx, model.KeyToken)
	if !ok {
		return anonymous
	}

	claims, valid := s.Inspect(token)
	if !valid {
		s.logger.Info("Token service: stored token is no longer valid, clearing session")
		if err := s.Clear(ctx); err != nil {
			s.logger.Warn("Token service: failed to clear stale session", "error", err.Error())
		}
		return anonymous
	}

	email, _ := s.read(ctx, model.KeyUserEmail)
	username, _ := s.read(ctx, model.KeyUsername)

	identity := ResolveIdentity(email, username, claims)
	return model.SessionState{
		Status:   model.StatusAuthenticated,
		Token:    token,
		Identity: &identity,
	}
}

// Inspect reports whether token may be used and returns whatever claims it carries.
// Opaque tokens are accepted as is.
func (s *TokenService) Inspect(token string) (model.TokenClaims, bool) {
	if strings.TrimSpace(token) == "" {
		return model.TokenClaims{}, false
	}

	claims, err := s.inspector.Inspect(token)
	if errors.Is(err, model.ErrOpaqueToken) {
		return model.TokenClaims{}, true
	}
	if err != nil {
		s.logger.Warn("Token service: failed to inspect token", "error", err.Error())
		return model.TokenClaims{}, false
	}
	if claims.Expired(s.now()) {
		return claims, false
	}
	return claims, true
}

// Save persists the token and identity. On failure any partial write is rolled back.
func (s *TokenService) Save(ctx context.Context, token string, identity model.Identity) error {
	writes := []struct {
		key   string
		value string
	}{
		{model.KeyToken, token},
		{model.KeyUserEmail, identity.Email},
		{model.KeyUsername, identity.Username},
	}

	for _, w := range writes {
		if err := s.store.Set(ctx, w.key, []byte(w.value)); err != nil {
			if clearErr := s.Clear(context.WithoutCancel(ctx)); clearErr != nil {
				s.logger.Error("Token service: failed to roll back session write", "error", clearErr.Error())
			}
			return fmt.Errorf("failed to persist %s: %w", w.key, err)
		}
	}
	return nil
}

// Clear removes every session key.
func (s *TokenService) Clear(ctx context.Context) error {
	if err := s.store.Delete(ctx, model.SessionKeys...); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func (s *TokenService) read(ctx context.Context, key string) (string, bool) {
	raw, err := s.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			s.logger.Warn("Token service: failed to read session key", "key", key, "error", err.Error())
		}
		return "", false
	}
	v := strings.TrimSpace(string(raw))
	return v, v != ""
}

// ResolveIdentity fills missing identity fields from the token claims, then
// from fixed fallbacks: a placeholder email and the email local part.
func ResolveIdentity(email, username string, claims model.TokenClaims) model.Identity {
	if email == "" {
		email = claims.Email
	}
	if email == "" {
		email = fallbackEmail
	}
	if username == "" {
		username = claims.Username
	}
	if username == "" {
		username = localPart(email)
	}
	return model.Identity{Email: email, Username: username}
}

func localPart(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}
