package context

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

// Keys used to carry per-call values through an outgoing request context.
const (
	requestIDKey contextKey = "request_id"
	routeKey     contextKey = "route"
	tokenKey     contextKey = "token"
)

// Manager represents a context manager for outgoing API calls.
// It attaches and reads the request ID and route name of a call.
type Manager struct{}

// NewManager creates a new context manager instance.
//
// Returns a pointer to the newly created Manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetRequestIDToContext stores the request ID in the context.
//
// Parameters:
//   - ctx: The call context
//   - requestID: The request UUID to set in the context
//
// Returns a new context with the request ID.
func (m *Manager) SetRequestIDToContext(ctx context.Context, requestID uuid.UUID) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestIDFromContext retrieves the request ID from the context.
//
// Returns the request UUID and a boolean indicating if it was found.
func (m *Manager) GetRequestIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	requestID, ok := ctx.Value(requestIDKey).(uuid.UUID)
	if !ok || requestID == uuid.Nil {
		return uuid.Nil, false
	}
	return requestID, true
}

// EnsureRequestID returns ctx carrying a request ID, generating one if absent.
func (m *Manager) EnsureRequestID(ctx context.Context) (context.Context, uuid.UUID) {
	if requestID, ok := m.GetRequestIDFromContext(ctx); ok {
		return ctx, requestID
	}
	requestID := uuid.New()
	return m.SetRequestIDToContext(ctx, requestID), requestID
}

// SetRouteToContext stores the route name of the call in the context.
func (m *Manager) SetRouteToContext(ctx context.Context, route string) context.Context {
	return context.WithValue(ctx, routeKey, route)
}

// GetRouteFromContext retrieves the route name from the context.
func (m *Manager) GetRouteFromContext(ctx context.Context) (string, bool) {
	route, ok := ctx.Value(routeKey).(string)
	if !ok || route == "" {
		return "", false
	}
	return route, true
}

// SetTokenToContext stores the bearer token for the call in the context.
func (m *Manager) SetTokenToContext(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// GetTokenFromContext retrieves the bearer token from the context.
func (m *Manager) GetTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey).(string)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}
