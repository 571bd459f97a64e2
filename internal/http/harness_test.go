package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/target/placesmap/internal/domain/auth"
	"github.com/target/placesmap/internal/mocks"
	mockauth "github.com/target/placesmap/internal/mocks/auth"
	"github.com/target/placesmap/internal/service"
)

const (
	testCSRFToken = "tok"
	testSessionID = "sess-1"
	testBaseURL   = "http://app.test"
)

var testSession = domainauth.Session{
	ID:          testSessionID,
	UserID:      "user-1",
	Email:       "ana@example.com",
	AccessToken: "access-1",
}

// testApp wires the real services to mocked providers behind NewRouter.
type testApp struct {
	handler  http.Handler
	provider *mockauth.MockAuthProvider
	sessions *mockauth.MemorySessionStore
	places   *mocks.MockPlaceRepository
	geocoder *mocks.MockGeocoder
	router   *mocks.MockRouter
}

func newTestApp(t *testing.T, configure ...func(*RouterServices)) *testApp {
	t.Helper()
	SkipIfNoTemplates(t)

	ctrl := gomock.NewController(t)
	app := &testApp{
		provider: mockauth.NewMockAuthProvider(),
		sessions: mockauth.NewMemorySessionStore(),
		places:   mocks.NewMockPlaceRepository(ctrl),
		geocoder: mocks.NewMockGeocoder(ctrl),
		router:   mocks.NewMockRouter(ctrl),
	}

	authSvc := service.NewAuthService(service.AuthServiceOptions{Provider: app.provider, Sessions: app.sessions})
	placeSvc := service.NewPlaceService(service.PlaceServiceOptions{Repo: app.places})
	routingSvc := service.NewRoutingService(service.RoutingServiceOptions{
		Providers: service.RoutingProviders{Geocoder: app.geocoder, Router: app.router},
	})
	dashboardSvc := service.NewDashboardService(service.DashboardServiceOptions{Places: placeSvc, Routing: routingSvc})

	services := RouterServices{
		Auth:       authSvc,
		Dashboard:  dashboardSvc,
		Routing:    routingSvc,
		Places:     placeSvc,
		TemplateFS: os.DirFS(TemplatePathFromTest),
		BaseURL:    testBaseURL,
	}
	for _, fn := range configure {
		fn(&services)
	}
	app.handler = NewRouter(services)
	return app
}

// signIn stores a live session and returns its ID.
func (a *testApp) signIn(t *testing.T) string {
	t.Helper()
	sess := testSession
	sess.ExpiresAt = time.Now().Add(time.Hour)
	require.NoError(t, a.sessions.Save(context.Background(), sess))
	return sess.ID
}

type reqOption func(*http.Request)

func withSession(id string) reqOption {
	return func(r *http.Request) { r.AddCookie(&http.Cookie{Name: sessionCookieName, Value: id}) }
}

func withHTMX() reqOption {
	return func(r *http.Request) { r.Header.Set("HX-Request", "true") }
}

func withoutCSRF() reqOption {
	return func(r *http.Request) {
		r.Header.Del(DefaultCSRFHeaderName)
		cookies := r.Cookies()
		r.Header.Del("Cookie")
		for _, c := range cookies {
			if c.Name != DefaultCSRFCookieName {
				r.AddCookie(c)
			}
		}
	}
}

func withHeader(k, v string) reqOption {
	return func(r *http.Request) { r.Header.Set(k, v) }
}

// form posts url-encoded values with a matching CSRF cookie and header.
func (a *testApp) form(method, path string, values url.Values, opts ...reqOption) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html")
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: testCSRFToken})
	req.Header.Set(DefaultCSRFHeaderName, testCSRFToken)
	for _, opt := range opts {
		opt(req)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) get(path string, opts ...reqOption) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Accept", "text/html")
	for _, opt := range opts {
		opt(req)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) postJSON(path, body string, opts ...reqOption) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for _, opt := range opts {
		opt(req)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func cookieByName(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
