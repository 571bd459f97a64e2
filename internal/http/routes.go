package httpx

import (
	"bytes"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strings"

	placesmap "github.com/target/placesmap"
	"github.com/target/placesmap/internal/observability/metrics"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth      AuthServiceInterface
	Dashboard DashboardServiceInterface
	Routing   RoutingServiceInterface
	Places    PlacesServiceInterface
	// Optional: Prometheus collector; enables /metrics and per-route metrics.
	Metrics *metrics.Collector
	// Optional: dependency checks reported by /readyz.
	ReadinessChecks map[string]HealthCheck
	// Optional: template filesystem override (tests). Defaults to the embedded templates.
	TemplateFS fs.FS

	BaseURL      string
	CookieDomain string
	IsDev        bool         // Development mode flag for hot reloading, etc.
	Logger       *slog.Logger // Logger for template and HTTP errors (optional)
}

func (s RouterServices) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// routeTable registers handlers on a ServeMux, instrumenting each one with its pattern.
type routeTable struct {
	mux     *http.ServeMux
	metrics *metrics.Collector
}

func (rt routeTable) handle(pattern string, h http.Handler) {
	rt.mux.Handle(pattern, instrument(rt.metrics, pattern, h))
}

func (rt routeTable) handleFunc(pattern string, h http.HandlerFunc) {
	rt.handle(pattern, h)
}

// NewRouter creates and configures a new HTTP router with browser middleware.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()
	rt := routeTable{mux: mux, metrics: services.Metrics}

	rt.handleFunc("GET /healthz", healthHandler)
	rt.handleFunc("HEAD /healthz", healthHandler)
	rt.handleFunc("GET /readyz", readinessHandler(services.ReadinessChecks))
	if services.Metrics != nil {
		mux.Handle("GET /metrics", services.Metrics.Handler())
	}
	mux.Handle("GET /static/", staticHandler(services.IsDev))

	if services.Routing != nil {
		registerProxyRoutes(rt, &ProxyHandlers{Svc: services.Routing, Logger: services.Logger})
	}
	if services.Places != nil && services.Auth != nil {
		rt.handle("GET /api/places", RequireAuth(services.Auth)(http.HandlerFunc((&PlaceHandlers{Svc: services.Places}).List)))
	}

	uiHandlers := setupUIHandlers(services)
	if services.Auth != nil {
		authHandlers := &AuthHandlers{Svc: services.Auth, CookieDomain: services.CookieDomain, Logger: services.Logger}
		if uiHandlers != nil {
			authHandlers.Login = uiHandlers.LoginWithMessage
		}
		registerAuthRoutes(rt, authHandlers, services.CookieDomain)
	}
	if uiHandlers != nil && services.Auth != nil && services.Dashboard != nil {
		registerUIRoutes(rt, uiHandlers, services)
	}

	handler := &notFoundHandler{mux: mux, uiHandlers: uiHandlers}
	return BrowserDetection()(handler)
}

func registerProxyRoutes(rt routeTable, h *ProxyHandlers) {
	rt.handleFunc("POST /api/geocode", h.Geocode)
	rt.handleFunc("POST /api/directions", h.Directions)
}

func registerAuthRoutes(rt routeTable, h *AuthHandlers, cookieDomain string) {
	csrf := CSRFProtection(CSRFConfig{CookieDomain: cookieDomain})
	rt.handleFunc("GET /auth/callback", h.Callback)
	rt.handleFunc("GET /auth/status", h.Status)
	rt.handle("POST /auth/logout", csrf(http.HandlerFunc(h.Logout)))
}

func registerUIRoutes(rt routeTable, h *UIHandlers, services RouterServices) {
	csrf := CSRFProtection(CSRFConfig{CookieDomain: services.CookieDomain})
	optional := OptionalAuth(services.Auth)
	required := RequireAuthBrowser(services.Auth)

	page := func(pattern string, mw func(http.Handler) http.Handler, fn http.HandlerFunc) {
		rt.handle(pattern, csrf(mw(fn)))
	}
	page("GET /{$}", optional, h.Home)
	page("GET /login", optional, h.LoginPage)
	page("POST /login", optional, h.LoginSubmit)
	page("GET /dashboard", required, h.DashboardPage)
	page("POST /dashboard/places", required, h.DashboardAddPlace)
	page("POST /dashboard/route", required, h.DashboardRoute)
}

// setupUIHandlers parses templates and returns nil when they cannot be loaded,
// in which case only the JSON endpoints are served.
func setupUIHandlers(services RouterServices) *UIHandlers {
	templateFS := services.TemplateFS
	if templateFS == nil {
		templateFS = defaultTemplateFS(services.IsDev, services.logger())
	}

	renderer, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: templateFS,
		DevMode:    services.IsDev,
		Logger:     services.Logger,
	})
	if err != nil {
		services.logger().Error("failed to load templates; UI routes disabled", "error", err)
		return nil
	}

	return &UIHandlers{
		T:            renderer,
		Auth:         services.Auth,
		Dashboard:    services.Dashboard,
		BaseURL:      services.BaseURL,
		CookieDomain: services.CookieDomain,
		IsDev:        services.IsDev,
		Logger:       services.Logger,
	}
}

// defaultTemplateFS reads templates from disk in dev mode and from the embedded FS otherwise.
func defaultTemplateFS(isDev bool, logger *slog.Logger) fs.FS {
	if isDev {
		return os.DirFS(TemplatePathFromRoot)
	}
	sub, err := fs.Sub(placesmap.TemplateFS, TemplatePathFromRoot)
	if err != nil {
		logger.Error("failed to open embedded templates; falling back to disk", "error", err)
		return os.DirFS(TemplatePathFromRoot)
	}
	return sub
}

// staticHandler serves /static/ from disk in dev mode and from the embedded FS otherwise.
func staticHandler(isDev bool) http.Handler {
	var root fs.FS
	if isDev {
		root = os.DirFS("frontend/static")
	} else if sub, err := fs.Sub(placesmap.StaticFS, "frontend/static"); err == nil {
		root = sub
	} else {
		root = os.DirFS("frontend/static")
	}

	files := http.StripPrefix("/static/", http.FileServerFS(root))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isDev {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		} else {
			w.Header().Set("Cache-Control", "public, max-age=3600")
		}
		files.ServeHTTP(w, r)
	})
}

// notFoundHandler wraps a ServeMux and provides custom 404 handling.
type notFoundHandler struct {
	mux        *http.ServeMux
	uiHandlers *UIHandlers
}

// ServeHTTP serves through the mux and replaces its plain-text 404 with ours.
func (h *notFoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if _, pattern := h.mux.Handler(r); pattern != "" {
		h.mux.ServeHTTP(w, r)
		return
	}

	// Unknown path. Let the mux answer 405s and redirects; only 404s are rewritten.
	cw := newCaptureWriter()
	h.mux.ServeHTTP(cw, r)
	if cw.status != http.StatusNotFound || strings.HasPrefix(r.URL.Path, "/static/") {
		cw.flushTo(w)
		return
	}
	if h.uiHandlers != nil {
		h.uiHandlers.NotFound(w, r)
		return
	}
	(&UIHandlers{}).NotFound(w, r)
}

// captureWriter buffers headers, status and body so we can decide post-dispatch.
type captureWriter struct {
	header http.Header
	status int
	buf    bytes.Buffer
}

func newCaptureWriter() *captureWriter {
	return &captureWriter{header: make(http.Header), status: http.StatusOK}
}

func (c *captureWriter) Header() http.Header         { return c.header }
func (c *captureWriter) WriteHeader(code int)        { c.status = code }
func (c *captureWriter) Write(b []byte) (int, error) { return c.buf.Write(b) }

func (c *captureWriter) flushTo(w http.ResponseWriter) {
	for k, vs := range c.header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(c.status)
	if _, err := w.Write(c.buf.Bytes()); err != nil {
		return
	}
}
