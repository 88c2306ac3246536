package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	apicontext "github.com/dtroode/recipai/internal/api/context"
	"github.com/dtroode/recipai/internal/api/middleware"
	"github.com/dtroode/recipai/internal/api/router"
	"github.com/dtroode/recipai/internal/logger"
	"github.com/dtroode/recipai/internal/model"
)

const (
	defaultTimeout  = 30 * time.Second
	maxResponseBody = 4 << 20
)

// Options configures a Client.
type Options struct {
	BaseURL string
	// Transport is the base round-tripper. http.DefaultTransport is used when nil.
	Transport http.RoundTripper
	Timeout   time.Duration
	// Metrics receives one observation per request when set.
	Metrics middleware.RequestObserver
}

// Client is the JSON over HTTP client of the remote recipe API.
type Client struct {
	http           *http.Client
	routes         *router.Router
	contextManager *apicontext.Manager
	logger         *logger.Logger
}

var (
	_ model.AuthAPI     = (*Client)(nil)
	_ model.RecipeAPI   = (*Client)(nil)
	_ model.ShoppingAPI = (*Client)(nil)
)

// New creates new Client instance.
func New(opts Options, logger *logger.Logger) (*Client, error) {
	routes, err := router.New(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create router: %w", err)
	}

	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	cm := apicontext.NewManager()
	mws := []middleware.Middleware{
		middleware.NewRequestID(cm).Wrap,
		middleware.NewAuthenticate(routes, cm, logger).Wrap,
		middleware.NewLogging(cm, logger).Wrap,
	}
	if opts.Metrics != nil {
		mws = append(mws, middleware.NewMetrics(opts.Metrics, cm).Wrap)
	}

	return &Client{
		http: &http.Client{
			Transport: middleware.Chain(base, mws...),
			Timeout:   timeout,
		},
		routes:         routes,
		contextManager: cm,
		logger:         logger,
	}, nil
}

type call struct {
	route string
	token string
	query url.Values
	body  any
	out   any
}

// do performs one API call. A nil out discards the response body.
func (c *Client) do(ctx context.Context, cl call) error {
	route, ok := c.routes.Route(cl.route)
	if !ok {
		return fmt.Errorf("unknown route %q", cl.route)
	}
	target, err := c.routes.URL(cl.route, cl.query)
	if err != nil {
		return err
	}

	ctx = c.contextManager.SetRouteToContext(ctx, route.Name)
	if cl.token != "" {
		ctx = c.contextManager.SetTokenToContext(ctx, cl.token)
	}

	var body io.Reader
	if cl.body != nil {
		raw, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", route.Name, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, route.Method, target, body)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", route.Name, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return c.transportError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if cl.out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBody))
		return nil
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(cl.out); err != nil {
		if ctx.Err() != nil {
			return c.transportError(ctx, ctx.Err())
		}
		return &model.RemoteError{
			Status: resp.StatusCode,
			Err:    fmt.Errorf("failed to decode %s response: %w", route.Name, err),
		}
	}
	return nil
}

func (c *Client) transportError(ctx context.Context, err error) error {
	if errors.Is(err, model.ErrNotAuthenticated) {
		return model.ErrNotAuthenticated
	}
	if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("%w: %w", model.ErrCancelled, err)
	}
	return &model.RemoteError{Err: err}
}
