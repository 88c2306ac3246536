package metrics

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "recipai"

// Deal lookup outcomes.
const (
	DealFound     = "found"
	DealNotFound  = "not_found"
	DealCancelled = "cancelled"
	DealFailed    = "failed"
)

// Collector holds the client metrics on a private registry.
type Collector struct {
	registry *prometheus.Registry

	apiRequestsTotal   *prometheus.CounterVec
	apiRequestDuration *prometheus.HistogramVec
	dealLookupsTotal   *prometheus.CounterVec
}

// New creates a new Collector with every metric registered.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		apiRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_requests_total",
				Help:      "Total number of remote API requests",
			},
			[]string{"route", "status"},
		),
		apiRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "api_request_duration_seconds",
				Help:      "Remote API request duration in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
			},
			[]string{"route"},
		),
		dealLookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "deal_lookups_total",
				Help:      "Total number of settled deal lookups",
			},
			[]string{"outcome"},
		),
	}

	c.registry.MustRegister(c.apiRequestsTotal, c.apiRequestDuration, c.dealLookupsTotal)
	return c
}

// Registry returns the registry the metrics live on.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveRequest records one remote API call. A zero status means the
// request never got a response.
func (c *Collector) ObserveRequest(route string, status int, duration time.Duration) {
	label := "error"
	if status != 0 {
		label = strconv.Itoa(status)
	}
	c.apiRequestsTotal.WithLabelValues(route, label).Inc()
	c.apiRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// ObserveDealLookup records the outcome of one deal lookup.
func (c *Collector) ObserveDealLookup(outcome string) {
	c.dealLookupsTotal.WithLabelValues(outcome).Inc()
}

// Push sends the registry to a Prometheus Pushgateway under job.
func (c *Collector) Push(ctx context.Context, gatewayURL, job string) error {
	err := push.New(gatewayURL, job).Gatherer(c.registry).PushContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to push metrics: %w", err)
	}
	return nil
}
