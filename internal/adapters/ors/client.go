// Package ors is an OpenRouteService client implementing the Geocoder and
// Router ports. It re-projects the provider's (lng, lat) coordinates into map
// (lat, lng) order and maps provider failures onto upstream errors.
package ors

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/target/placesmap/internal/errors"
	"github.com/target/placesmap/internal/observability/metrics"
	"github.com/target/placesmap/internal/ports"
)

const (
	defaultBaseURL = "https://api.openrouteservice.org"
	defaultProfile = "driving-car"

	providerName = "ors"

	// maxBodyBytes bounds how much of a provider response is read.
	maxBodyBytes = 8 << 20
)

var (
	_ ports.Geocoder = (*Client)(nil)
	_ ports.Router   = (*Client)(nil)
)

// Config configures the OpenRouteService client.
type Config struct {
	APIKey  string
	BaseURL string
	Profile string
	Timeout time.Duration

	// HTTPClient overrides the default client (tests). Timeout is ignored when set.
	HTTPClient *http.Client
	Logger     *slog.Logger
	Metrics    *metrics.Collector
}

// Client talks to the OpenRouteService REST API. It is safe for concurrent use.
type Client struct {
	apiKey  string
	baseURL string
	profile string
	http    *http.Client
	logger  *slog.Logger
	metrics *metrics.Collector
}

// NewClient builds a Client from cfg, filling defaults for blank fields.
// A missing API key is not rejected here; the provider will refuse the call.
func NewClient(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	profile := strings.TrimSpace(cfg.Profile)
	if profile == "" {
		profile = defaultProfile
	}
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: base,
		profile: profile,
		http:    hc,
		logger:  logger.With("component", "ors_client"),
		metrics: cfg.Metrics,
	}
}

// callResult is the raw outcome of a provider round trip.
type callResult struct {
	status int
	body   []byte
}

func (r callResult) ok() bool { return r.status >= 200 && r.status < 300 }

// do executes req and reads the (bounded) body. Transport failures are returned
// as plain errors; status handling is left to the caller.
func (c *Client) do(req *http.Request) (callResult, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return callResult{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return callResult{}, fmt.Errorf("read response: %w", err)
	}
	return callResult{status: resp.StatusCode, body: body}, nil
}

// observe records metrics and logs upstream failures.
func (c *Client) observe(ctx context.Context, op string, started time.Time, err error) {
	c.metrics.ObserveUpstream(metrics.UpstreamCall{
		Provider: providerName,
		Op:       op,
		Duration: time.Since(started),
		Err:      err,
	})
	if err != nil {
		c.logger.ErrorContext(ctx, "openrouteservice call failed", "op", op, "error", err)
	}
}

func decodeJSON(body []byte, dst any) error {
	if err := json.Unmarshal(body, dst); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeUpstream, "Respuesta inválida de OpenRouteService.")
	}
	return nil
}
