package middleware

import (
	"fmt"
	"net/http"

	apicontext "github.com/dtroode/recipai/internal/api/context"
	"github.com/dtroode/recipai/internal/api/router"
	"github.com/dtroode/recipai/internal/logger"
	"github.com/dtroode/recipai/internal/model"
)

// Authenticate attaches the bearer token of the call to outgoing requests.
type Authenticate struct {
	routes         *router.Router
	contextManager *apicontext.Manager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(routes *router.Router, contextManager *apicontext.Manager, logger *logger.Logger) *Authenticate {
	return &Authenticate{routes: routes, contextManager: contextManager, logger: logger}
}

// Wrap sets the Authorization header from the context token. Requests for
// bearer routes without a token are rejected before reaching the network.
func (m *Authenticate) Wrap(next http.RoundTripper) http.RoundTripper {
	return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
		ctx := req.Context()
		token, hasToken := m.contextManager.GetTokenFromContext(ctx)

		if name, ok := m.contextManager.GetRouteFromContext(ctx); ok {
			if route, ok := m.routes.Route(name); ok && route.Bearer && !hasToken {
				m.logger.Warn("API request rejected: missing token", "route", name)
				return nil, fmt.Errorf("%s: %w", name, model.ErrNotAuthenticated)
			}
		}

		if !hasToken {
			return next.RoundTrip(req)
		}

		out := req.Clone(ctx)
		out.Header.Set("Authorization", "Bearer "+token)
		return next.RoundTrip(out)
	})
}
