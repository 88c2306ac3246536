package middleware

import (
	"net/http"
	"time"

	apicontext "github.com/dtroode/recipai/internal/api/context"
)

// RequestObserver records remote API calls.
type RequestObserver interface {
	ObserveRequest(route string, status int, duration time.Duration)
}

// Metrics records the count and duration of outgoing requests.
type Metrics struct {
	observer       RequestObserver
	contextManager *apicontext.Manager
}

// NewMetrics creates a new Metrics middleware.
func NewMetrics(observer RequestObserver, contextManager *apicontext.Manager) *Metrics {
	return &Metrics{observer: observer, contextManager: contextManager}
}

// Wrap observes each request once it settles.
func (m *Metrics) Wrap(next http.RoundTripper) http.RoundTripper {
	return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
		start := time.Now()
		route, ok := m.contextManager.GetRouteFromContext(req.Context())
		if !ok {
			route = "unknown"
		}

		resp, err := next.RoundTrip(req)

		status := 0
		if err == nil {
			status = resp.StatusCode
		}
		m.observer.ObserveRequest(route, status, time.Since(start))
		return resp, err
	})
}
