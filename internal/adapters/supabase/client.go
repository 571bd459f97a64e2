// Package supabase adapts a hosted Supabase project: passwordless email
// sign-in through GoTrue (/auth/v1) and the places table through PostgREST
// (/rest/v1). All calls carry the project's anon key; row-level-secured calls
// additionally carry the signed-in user's access token.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/target/placesmap/internal/observability/metrics"
)

const (
	providerName = "supabase"
	maxBodyBytes = 4 << 20

	// apiErrorExpr covers GoTrue ({"msg"}, {"error_description"}) and
	// PostgREST ({"message"}) error payloads.
	apiErrorExpr = "msg || error_description || message || error"
)

// Config configures the Supabase client.
type Config struct {
	URL     string
	AnonKey string
	Timeout time.Duration

	// HTTPClient overrides the default client (tests). Timeout is ignored when set.
	HTTPClient *http.Client
	Logger     *slog.Logger
	Metrics    *metrics.Collector
}

// Client is the shared HTTP plumbing for the auth provider and place store.
type Client struct {
	baseURL string
	anonKey string
	http    *http.Client
	logger  *slog.Logger
	metrics *metrics.Collector
}

// NewClient validates cfg and builds a Client.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if base == "" {
		return nil, errors.New("supabase: URL is required")
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("supabase: invalid URL: %w", err)
	}
	if strings.TrimSpace(cfg.AnonKey) == "" {
		return nil, errors.New("supabase: anon key is required")
	}

	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: base,
		anonKey: strings.TrimSpace(cfg.AnonKey),
		http:    hc,
		logger:  logger.With("component", "supabase_client"),
		metrics: cfg.Metrics,
	}, nil
}

// Issuer returns the GoTrue issuer claim expected in access tokens.
func (c *Client) Issuer() string { return c.baseURL + "/auth/v1" }

// JWKSURL returns the project's JSON Web Key Set endpoint.
func (c *Client) JWKSURL() string { return c.baseURL + "/auth/v1/.well-known/jwks.json" }

// HTTPClient exposes the underlying client for collaborators (JWKS fetches).
func (c *Client) HTTPClient() *http.Client { return c.http }

// request describes one API call.
type request struct {
	op      string
	method  string
	path    string
	query   url.Values
	body    any
	bearer  string // falls back to the anon key
	headers map[string]string
}

// response is a completed API call.
type response struct {
	status int
	body   []byte
}

func (r response) ok() bool { return r.status >= 200 && r.status < 300 }

// errorMessage extracts the API's error message, or "" when absent.
func (r response) errorMessage() string {
	var data any
	if err := json.Unmarshal(r.body, &data); err != nil {
		return ""
	}
	v, err := jmespath.Search(apiErrorExpr, data)
	if err != nil {
		return ""
	}
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func (r response) decode(dst any) error {
	if err := json.Unmarshal(r.body, dst); err != nil {
		return fmt.Errorf("decode supabase response: %w", err)
	}
	return nil
}

// call executes req, records metrics, and returns the raw response. Only
// transport failures are errors; status handling belongs to the caller.
func (c *Client) call(ctx context.Context, req request) (res response, err error) {
	started := time.Now()
	defer func() {
		var obsErr error
		if err != nil {
			obsErr = err
		} else if !res.ok() {
			obsErr = fmt.Errorf("status %d", res.status)
		}
		c.metrics.ObserveUpstream(metrics.UpstreamCall{
			Provider: providerName,
			Op:       req.op,
			Duration: time.Since(started),
			Err:      obsErr,
		})
		if obsErr != nil {
			c.logger.WarnContext(ctx, "supabase call failed", "op", req.op, "error", obsErr)
		}
	}()

	httpReq, err := c.newHTTPRequest(ctx, req)
	if err != nil {
		return response{}, err
	}
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return response{}, fmt.Errorf("supabase %s: %w", req.op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return response{}, fmt.Errorf("supabase %s: read body: %w", req.op, err)
	}
	return response{status: resp.StatusCode, body: body}, nil
}

func (c *Client) newHTTPRequest(ctx context.Context, req request) (*http.Request, error) {
	endpoint := c.baseURL + req.path
	if len(req.query) > 0 {
		endpoint += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		b, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", req.op, err)
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", req.op, err)
	}

	bearer := req.bearer
	if bearer == "" {
		bearer = c.anonKey
	}
	httpReq.Header.Set("apikey", c.anonKey)
	httpReq.Header.Set("Authorization", "Bearer "+bearer)
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for k, v := range req.headers {
		httpReq.Header.Set(k, v)
	}
	return httpReq, nil
}
