package bootstrap

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/placesmap/config"
	httpx "github.com/target/placesmap/internal/http"
)

func TestBuildHTTPHandler_CompressesAndRecovers(t *testing.T) {
	h := buildHTTPHandler(httpHandlerConfig{
		Logger:   discardLogger(),
		Services: httpx.RouterServices{Logger: discardLogger()},
		HTTP:     config.HTTPConfig{CompressionEnabled: true, CompressionLevel: 5},
	})

	req := httptest.NewRequest(http.MethodGet, "/static/css/app.css", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
}

func TestNewHTTPServer_Defaults(t *testing.T) {
	srv := NewHTTPServer(&HTTPServerConfig{Logger: discardLogger()})
	require.NotNil(t, srv)
	assert.Equal(t, ":8080", srv.Addr)
	assert.NotZero(t, srv.ReadHeaderTimeout)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Nil(t, NewHTTPServer(nil))
}

func TestReadinessChecks(t *testing.T) {
	assert.Empty(t, readinessChecks(nil, nil))

	db, err := sql.Open("pgx", "postgres://u:p@127.0.0.1:1/none?sslmode=disable&connect_timeout=1")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	checks := readinessChecks(db, nil)
	require.Contains(t, checks, "database")
	assert.Error(t, checks["database"](context.Background()))
}

func TestShutdownHTTPServer_NilServer(t *testing.T) {
	assert.NoError(t, ShutdownHTTPServer(ShutdownConfig{}))
}
