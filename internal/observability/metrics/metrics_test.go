package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/target/placesmap/internal/errors"
)

type recordingSink struct {
	mu     sync.Mutex
	counts []string
}

func (s *recordingSink) Count(name string, _ int64, tags map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts = append(s.counts, name+":"+tags["result"])
}

func (s *recordingSink) Timing(string, time.Duration, map[string]string) {}

func newTestCollector(t *testing.T, sink *recordingSink) (*Collector, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	opts := Options{Namespace: "test", Registerer: reg}
	if sink != nil {
		opts.Sink = sink
	}
	c, err := NewCollector(opts)
	require.NoError(t, err)
	return c, reg
}

func TestCollector_ObserveUpstream(t *testing.T) {
	sink := &recordingSink{}
	c, _ := newTestCollector(t, sink)

	c.ObserveUpstream(UpstreamCall{Provider: "ors", Op: "geocode", Duration: 20 * time.Millisecond})
	c.ObserveUpstream(UpstreamCall{
		Provider: "ors", Op: "directions", Duration: time.Second,
		Err: apperrors.Upstream("No se encontró ninguna ruta entre los puntos."),
	})

	assert.InDelta(t, 1, testutil.ToFloat64(c.UpstreamCalls.WithLabelValues("ors", "geocode", "success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.UpstreamCalls.WithLabelValues("ors", "directions", "upstream")), 0)
	assert.Equal(t, []string{"upstream.call:success", "upstream.call:upstream"}, sink.counts)
}

func TestCollector_ObserveHTTP(t *testing.T) {
	c, reg := newTestCollector(t, nil)

	c.ObserveHTTP(http.MethodPost, "POST /api/geocode", http.StatusBadRequest, 5*time.Millisecond)
	c.ObserveHTTP(http.MethodGet, "", http.StatusNotFound, time.Millisecond)

	assert.InDelta(t, 1, testutil.ToFloat64(c.HTTPRequests.WithLabelValues("POST", "POST /api/geocode", "400")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.HTTPRequests.WithLabelValues("GET", "unmatched", "404")), 0)

	families, err := reg.Gather()
	require.NoError(t, err)
	var hist *dto.MetricFamily
	for _, f := range families {
		if f.GetName() == "test_http_request_duration_seconds" {
			hist = f
		}
	}
	require.NotNil(t, hist)
	assert.Equal(t, dto.MetricType_HISTOGRAM, hist.GetType())
}

func TestCollector_NilIsNoop(t *testing.T) {
	var c *Collector
	c.ObserveHTTP("GET", "/", 200, time.Millisecond)
	c.ObserveUpstream(UpstreamCall{Provider: "ors", Op: "geocode"})
	c.PlaceCreated()
	assert.NotNil(t, c.Handler())
}

func TestCollector_ReRegisterReturnsExisting(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewCollector(Options{Namespace: "dup", Registerer: reg})
	require.NoError(t, err)
	second, err := NewCollector(Options{Namespace: "dup", Registerer: reg})
	require.NoError(t, err)

	first.PlaceCreated()
	second.PlaceCreated()
	assert.InDelta(t, 2, testutil.ToFloat64(first.PlacesCreated), 0)
}

func TestCollector_Handler(t *testing.T) {
	c, _ := newTestCollector(t, nil)
	c.PlaceCreated()

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "test_places_created_total 1"))
}
