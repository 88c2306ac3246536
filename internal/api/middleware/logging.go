package middleware

import (
	"net/http"
	"time"

	apicontext "github.com/dtroode/recipai/internal/api/context"
	"github.com/dtroode/recipai/internal/logger"
)

// Logging logs outgoing API requests and their results.
type Logging struct {
	contextManager *apicontext.Manager
	logger         *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(contextManager *apicontext.Manager, logger *logger.Logger) *Logging {
	return &Logging{contextManager: contextManager, logger: logger}
}

// Wrap logs route, duration and status for each request.
func (l *Logging) Wrap(next http.RoundTripper) http.RoundTripper {
	return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
		start := time.Now()
		ctx := req.Context()

		route, _ := l.contextManager.GetRouteFromContext(ctx)
		requestID, _ := l.contextManager.GetRequestIDFromContext(ctx)

		l.logger.Debug("API request started",
			"route", route,
			"method", req.Method,
			"path", req.URL.Path,
			"request_id", requestID.String())

		resp, err := next.RoundTrip(req)
		duration := time.Since(start)

		if err != nil {
			l.logger.Error("API request failed",
				"route", route,
				"duration_ms", duration.Milliseconds(),
				"request_id", requestID.String(),
				"error", err.Error())
			return nil, err
		}

		l.logger.Info("API request completed",
			"route", route,
			"duration_ms", duration.Milliseconds(),
			"status", resp.StatusCode,
			"request_id", requestID.String())

		return resp, nil
	})
}
