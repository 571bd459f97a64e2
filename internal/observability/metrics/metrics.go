// Package metrics records HTTP and upstream-provider metrics in Prometheus and
// mirrors them to an optional StatsD sink.
package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	obserrors "github.com/target/placesmap/internal/observability/errors"
	"github.com/target/placesmap/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// UpstreamCall captures a single call to an external provider.
type UpstreamCall struct {
	Provider string // "ors", "supabase"
	Op       string // "geocode", "directions", "otp", ...
	Duration time.Duration
	Err      error
}

// Collector bundles the application's Prometheus metrics. A nil *Collector is
// valid and records nothing.
type Collector struct {
	gatherer prometheus.Gatherer
	sink     statsd.Sink

	HTTPRequests      *prometheus.CounterVec
	HTTPDurations     *prometheus.HistogramVec
	UpstreamCalls     *prometheus.CounterVec
	UpstreamDurations *prometheus.HistogramVec
	PlacesCreated     prometheus.Counter
}

// Options configures NewCollector.
type Options struct {
	Namespace string
	// Registerer defaults to the global Prometheus registry when nil.
	Registerer prometheus.Registerer
	// Sink optionally mirrors counters to StatsD.
	Sink statsd.Sink
}

// NewCollector registers the application metrics.
func NewCollector(opts Options) (*Collector, error) {
	reg := opts.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}
	ns := opts.Namespace

	httpRequests, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns,
		Name:      "http_requests_total",
		Help:      "Handled HTTP requests by method, route pattern and status code.",
	}, []string{"method", "route", "code"}))
	if err != nil {
		return nil, err
	}
	httpDurations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: ns,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"}))
	if err != nil {
		return nil, err
	}
	upstreamCalls, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns,
		Name:      "upstream_calls_total",
		Help:      "Calls to external providers by provider, operation and result class.",
	}, []string{"provider", "op", "result"}))
	if err != nil {
		return nil, err
	}
	upstreamDurations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: ns,
		Name:      "upstream_call_duration_seconds",
		Help:      "External provider latency in seconds.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 20},
	}, []string{"provider", "op"}))
	if err != nil {
		return nil, err
	}
	placesCreated, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: ns,
		Name:      "places_created_total",
		Help:      "Places saved by users.",
	}))
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:          gatherer,
		sink:              opts.Sink,
		HTTPRequests:      httpRequests,
		HTTPDurations:     httpDurations,
		UpstreamCalls:     upstreamCalls,
		UpstreamDurations: upstreamDurations,
		PlacesCreated:     placesCreated,
	}, nil
}

// ObserveHTTP records one handled request.
func (c *Collector) ObserveHTTP(method, route string, status int, d time.Duration) {
	if c == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	code := strconv.Itoa(status)
	c.HTTPRequests.WithLabelValues(method, route, code).Inc()
	c.HTTPDurations.WithLabelValues(method, route).Observe(d.Seconds())

	if c.sink != nil {
		tags := map[string]string{"method": method, "route": route, "code": code}
		c.sink.Count("http.request", 1, tags)
		c.sink.Timing("http.duration", d, tags)
	}
}

// ObserveUpstream records one provider call. Failed calls are labelled with
// their error class (upstream, timeout, ...).
func (c *Collector) ObserveUpstream(in UpstreamCall) {
	if c == nil {
		return
	}
	result := ResultSuccess
	if in.Err != nil {
		result = obserrors.Classify(in.Err)
		if result == "" {
			result = ResultError
		}
	}
	c.UpstreamCalls.WithLabelValues(in.Provider, in.Op, result).Inc()
	c.UpstreamDurations.WithLabelValues(in.Provider, in.Op).Observe(in.Duration.Seconds())

	if c.sink != nil {
		tags := map[string]string{"provider": in.Provider, "op": in.Op, "result": result}
		c.sink.Count("upstream.call", 1, tags)
		c.sink.Timing("upstream.duration", in.Duration, tags)
	}
}

// PlaceCreated increments the saved-places counter.
func (c *Collector) PlaceCreated() {
	if c == nil {
		return
	}
	c.PlacesCreated.Inc()
	if c.sink != nil {
		c.sink.Count("places.created", 1, nil)
	}
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := prometheus.DefaultGatherer
	if c != nil && c.gatherer != nil {
		gatherer = c.gatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("register counter vec: %w", err)
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("register histogram vec: %w", err)
	}
	return vec, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("register counter: %w", err)
	}
	return counter, nil
}
