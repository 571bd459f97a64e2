package httpx

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecover(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	h := Recover(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, logs.String(), "kaboom")
	assert.Contains(t, logs.String(), `"path":"/dashboard"`)
}

func TestLogging_RecordsStatus(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/geocode", nil))

	require.Equal(t, http.StatusTeapot, rec.Code)
	assert.Contains(t, logs.String(), `"status":418`)
	assert.Contains(t, logs.String(), `"path":"/api/geocode"`)
}

func TestIsBrowserRequest(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		accept string
		htmx   bool
		want   bool
	}{
		{name: "html accept", path: "/dashboard", accept: "text/html,application/xhtml+xml", want: true},
		{name: "empty accept", path: "/dashboard", want: true},
		{name: "json accept", path: "/dashboard", accept: "application/json", want: false},
		{name: "htmx", path: "/dashboard", accept: "*/*", htmx: true, want: true},
		{name: "api prefix", path: "/api/places", accept: "text/html", want: false},
		{name: "static prefix", path: "/static/js/map.js", accept: "text/html", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			if tt.htmx {
				req.Header.Set("HX-Request", "true")
			}
			assert.Equal(t, tt.want, isBrowserRequest(req))
		})
	}
}

func TestRequireAuthBrowser_JSONClientGets401(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	app.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"No autenticado","code":"authentication_required"}`, rec.Body.String())
}
