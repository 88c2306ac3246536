package middleware

import (
	"net/http"

	apicontext "github.com/dtroode/recipai/internal/api/context"
)

// RequestIDHeader carries the per-call request ID.
const RequestIDHeader = "X-Request-ID"

// RequestID tags every outgoing request with a request ID.
type RequestID struct {
	contextManager *apicontext.Manager
}

// NewRequestID creates a new RequestID middleware.
func NewRequestID(contextManager *apicontext.Manager) *RequestID {
	return &RequestID{contextManager: contextManager}
}

// Wrap reuses the context request ID or generates a new one.
func (m *RequestID) Wrap(next http.RoundTripper) http.RoundTripper {
	return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
		ctx, requestID := m.contextManager.EnsureRequestID(req.Context())
		out := req.Clone(ctx)
		out.Header.Set(RequestIDHeader, requestID.String())
		return next.RoundTrip(out)
	})
}
