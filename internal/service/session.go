package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dtroode/recipai/internal/logger"
	"github.com/dtroode/recipai/internal/model"
)

// Session owns the authentication lifecycle of one running client.
// Authenticated holds exactly when both a token and an identity are present.
type Session struct {
	api    model.AuthAPI
	tokens *TokenService
	logger *logger.Logger

	mu    sync.RWMutex
	state model.SessionState
	// epoch advances on every logout. Auth responses issued under an older
	// epoch are discarded.
	epoch uint64

	// persistMu orders writes of the session keys.
	persistMu sync.Mutex
}

var _ model.TokenSource = (*Session)(nil)

func NewSession(api model.AuthAPI, tokens *TokenService, logger *logger.Logger) *Session {
	return &Session{
		api:    api,
		tokens: tokens,
		logger: logger,
		state:  model.SessionState{Status: model.StatusInitializing},
	}
}

// Initialize resolves the session from the persisted keys. It is a no-op once
// the session has left Initializing.
func (s *Session) Initialize(ctx context.Context) model.SessionStatus {
	s.logger.Debug("Session service: initializing")

	loaded := s.tokens.Load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Status != model.StatusInitializing {
		return s.state.Status
	}
	s.state = loaded

	s.logger.Info("Session service: initialized", "status", loaded.Status.String())
	return loaded.Status
}

// Login authenticates with email and password. The username comes from the
// server or, when absent, from the email local part.
func (s *Session) Login(ctx context.Context, email, password string) error {
	if err := validateInput(credentialsInput{Email: email, Password: password}); err != nil {
		return err
	}

	s.logger.Debug("Session service: login started", "email", email)

	epoch := s.currentEpoch()
	res, err := settle(ctx, func(ctx context.Context) (model.AuthResult, error) {
		return s.api.Login(ctx, email, password)
	})
	if err != nil {
		return s.authFailed("login", email, err)
	}

	username := res.Username
	if username == "" {
		username = localPart(email)
	}
	return s.establish(ctx, "login", epoch, res.Token, model.Identity{Email: email, Username: username})
}

// Signup creates an account and authenticates with it.
func (s *Session) Signup(ctx context.Context, email, password, username string) error {
	username = strings.TrimSpace(username)
	if err := validateInput(signupInput{Email: email, Password: password, Username: username}); err != nil {
		return err
	}

	s.logger.Debug("Session service: signup started", "email", email, "username", username)

	epoch := s.currentEpoch()
	res, err := settle(ctx, func(ctx context.Context) (model.AuthResult, error) {
		return s.api.Signup(ctx, email, password, username)
	})
	if err != nil {
		return s.authFailed("signup", email, err)
	}

	return s.establish(ctx, "signup", epoch, res.Token, model.Identity{Email: email, Username: username})
}

// Logout drops the session in memory first, then clears the persisted keys.
// Store failures are logged and never returned. A login or signup still in
// flight is discarded.
func (s *Session) Logout(ctx context.Context) {
	s.mu.Lock()
	s.state = model.SessionState{Status: model.StatusAnonymous}
	s.epoch++
	s.mu.Unlock()

	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	if err := s.tokens.Clear(context.WithoutCancel(ctx)); err != nil {
		s.logger.Error("Session service: failed to clear persisted session", "error", err.Error())
		return
	}
	s.logger.Info("Session service: logged out")
}

func (s *Session) Status() model.SessionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Status
}

// Token returns the bearer token when authenticated.
func (s *Session) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token, s.state.Status == model.StatusAuthenticated
}

// Identity returns the signed-in user, or nil.
func (s *Session) Identity() *model.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.Identity == nil {
		return nil
	}
	id := *s.state.Identity
	return &id
}

// Snapshot returns a consistent copy of the session.
func (s *Session) Snapshot() model.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.state
	if s.state.Identity != nil {
		id := *s.state.Identity
		out.Identity = &id
	}
	return out
}

// Guard decides whether a protected view may render.
func (s *Session) Guard() model.GuardDecision {
	switch s.Status() {
	case model.StatusAuthenticated:
		return model.GuardRender
	case model.StatusAnonymous:
		return model.GuardRedirect
	default:
		return model.GuardBlock
	}
}

func (s *Session) currentEpoch() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch
}

func (s *Session) establish(ctx context.Context, op string, epoch uint64, token string, identity model.Identity) error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	if s.currentEpoch() != epoch {
		s.logger.Debug("Session service: result discarded after logout", "op", op, "email", identity.Email)
		return model.ErrSuperseded
	}

	if err := s.tokens.Save(ctx, token, identity); err != nil {
		s.logger.Error("Session service: failed to persist session",
			"op", op,
			"email", identity.Email,
			"error", err.Error())
		return fmt.Errorf("failed to persist session: %w", err)
	}

	s.mu.Lock()
	if s.epoch != epoch {
		// The logout waiting on persistMu clears the keys just written.
		s.mu.Unlock()
		s.logger.Debug("Session service: result discarded after logout", "op", op, "email", identity.Email)
		return model.ErrSuperseded
	}
	s.state = model.SessionState{
		Status:   model.StatusAuthenticated,
		Token:    token,
		Identity: &identity,
	}
	s.mu.Unlock()

	s.logger.Info("Session service: authenticated",
		"op", op,
		"email", identity.Email,
		"username", identity.Username)
	return nil
}

func (s *Session) authFailed(op, email string, err error) error {
	if model.IsCancelled(err) {
		s.logger.Debug("Session service: result discarded, caller is gone", "op", op, "email", email)
		return err
	}

	s.logger.Warn("Session service: authentication failed",
		"op", op,
		"email", email,
		"reason", model.Reason(err, err.Error()))
	return fmt.Errorf("%w: %w", model.ErrAuth, err)
}
