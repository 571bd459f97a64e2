package httpx

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/gzip"

	domainauth "github.com/target/placesmap/internal/domain/auth"
	apperrors "github.com/target/placesmap/internal/errors"
	"github.com/target/placesmap/internal/observability/metrics"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &respWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Flush passes through to the wrapped writer so streaming handlers keep working.
func (w *respWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// instrument records request count and latency for a single registered route.
// The route label is the mux pattern, never the raw path.
func instrument(c *metrics.Collector, pattern string, next http.Handler) http.Handler {
	if c == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &respWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)
		c.ObserveHTTP(r.Method, pattern, ww.status, time.Since(start))
	})
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

var errAuthRequired = apperrors.Unauthorized("No autenticado")

// RequireAuth returns a middleware that answers 401 JSON when no live session is present.
func RequireAuth(authSvc AuthServiceInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := getSessionFromRequest(r, authSvc)
			if session == nil {
				WriteError(w, ErrorParams{
					Code:    http.StatusUnauthorized,
					ErrCode: "authentication_required",
					Err:     errAuthRequired,
				})
				return
			}
			next.ServeHTTP(w, r.WithContext(SetSessionInContext(r.Context(), session)))
		})
	}
}

// OptionalAuth adds the session to the request context when one exists.
func OptionalAuth(authSvc AuthServiceInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if session := getSessionFromRequest(r, authSvc); session != nil {
				r = r.WithContext(SetSessionInContext(r.Context(), session))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// getSessionFromRequest retrieves and validates a session from the session cookie.
func getSessionFromRequest(r *http.Request, authSvc AuthServiceInterface) *domainauth.Session {
	sessionCookie, err := r.Cookie(sessionCookieName)
	if err != nil || sessionCookie.Value == "" {
		return nil
	}

	session, err := authSvc.GetSession(r.Context(), sessionCookie.Value)
	if err != nil {
		return nil
	}
	return session
}

// browserRequestKey is an unexported context key type for browser request detection.
type browserRequestKey struct{}

// BrowserDetection returns a middleware that detects browser requests vs API requests.
// Downstream handlers use it to choose between HTML and JSON responses.
func BrowserDetection() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), browserRequestKey{}, isBrowserRequest(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IsBrowserRequest returns true if the current request is from a browser.
func IsBrowserRequest(r *http.Request) bool {
	if isBrowser, ok := r.Context().Value(browserRequestKey{}).(bool); ok {
		return isBrowser
	}
	return isBrowserRequest(r)
}

// isBrowserRequest treats /api/ and /static/ as non-browser, HTMX as browser,
// and otherwise looks for text/html in Accept (an empty Accept counts as browser).
func isBrowserRequest(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") || strings.HasPrefix(r.URL.Path, "/static/") {
		return false
	}
	if IsHTMX(r) {
		return true
	}
	accept := r.Header.Get("Accept")
	if accept == "" {
		return true
	}
	return strings.Contains(accept, "text/html")
}

// RequireAuthBrowser requires a live session. Browser requests without one
// are sent to the login page; API requests get 401 JSON.
func RequireAuthBrowser(authSvc AuthServiceInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := getSessionFromRequest(r, authSvc)
			if session == nil {
				if IsBrowserRequest(r) {
					redirectToLogin(w, r)
					return
				}
				WriteError(w, ErrorParams{
					Code:    http.StatusUnauthorized,
					ErrCode: "authentication_required",
					Err:     errAuthRequired,
				})
				return
			}
			next.ServeHTTP(w, r.WithContext(SetSessionInContext(r.Context(), session)))
		})
	}
}

// redirectToLogin sends the browser to the login page. HTMX requests get an
// HX-Redirect so the whole page navigates instead of swapping a fragment.
func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	if IsHTMX(r) {
		SetHXRedirect(w, loginPath)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, loginPath, http.StatusSeeOther)
}

// CompressionConfig holds configuration for the compression middleware.
type CompressionConfig struct {
	Level   int // gzip level (1-9)
	MinSize int // Minimum response size to compress in bytes; 0 compresses everything
	Logger  *slog.Logger
}

//nolint:gochecknoglobals // static read-only lookup
var compressibleTypes = map[string]bool{
	"text/html":              true,
	"text/css":               true,
	"text/plain":             true,
	"text/javascript":        true,
	"application/javascript": true,
	"application/json":       true,
	"image/svg+xml":          true,
}

// gzipPool keeps one sync.Pool per compression level.
type gzipPool struct {
	mu    sync.Mutex
	pools map[int]*sync.Pool
}

func (p *gzipPool) get(level int) *gzip.Writer {
	p.mu.Lock()
	pool, ok := p.pools[level]
	if !ok {
		pool = &sync.Pool{New: func() any {
			w, err := gzip.NewWriterLevel(io.Discard, level)
			if err != nil {
				return gzip.NewWriter(io.Discard)
			}
			return w
		}}
		p.pools[level] = pool
	}
	p.mu.Unlock()
	//nolint:forcetypeassert // pool only ever holds *gzip.Writer
	return pool.Get().(*gzip.Writer)
}

func (p *gzipPool) put(level int, w *gzip.Writer) {
	p.mu.Lock()
	pool := p.pools[level]
	p.mu.Unlock()
	if pool != nil {
		w.Reset(io.Discard)
		pool.Put(w)
	}
}

// Compression returns a middleware that gzips compressible responses for
// clients that accept gzip. HEAD requests, 1xx/204/304 responses and bodies
// that already carry a Content-Encoding are passed through untouched.
func Compression(cfg CompressionConfig) func(http.Handler) http.Handler {
	if cfg.Level < gzip.BestSpeed || cfg.Level > gzip.BestCompression {
		cfg.Level = gzip.DefaultCompression
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	pool := &gzipPool{pools: make(map[int]*sync.Pool)}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodHead || !acceptsGzip(r.Header.Get("Accept-Encoding")) {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Add("Vary", "Accept-Encoding")
			gzw := &gzipResponseWriter{
				ResponseWriter: w,
				minSize:        cfg.MinSize,
				getWriter:      func() *gzip.Writer { return pool.get(cfg.Level) },
			}
			next.ServeHTTP(gzw, r)

			if err := gzw.finish(); err != nil {
				cfg.Logger.ErrorContext(r.Context(), "closing gzip writer failed", "error", err)
			}
			if gzw.gz != nil {
				pool.put(cfg.Level, gzw.gz)
			}
		})
	}
}

// acceptsGzip reports whether gzip is listed in Accept-Encoding without q=0.
func acceptsGzip(acceptEncoding string) bool {
	for _, part := range strings.Split(acceptEncoding, ",") {
		name, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		if !strings.EqualFold(strings.TrimSpace(name), "gzip") {
			continue
		}
		q := strings.ReplaceAll(strings.TrimSpace(params), " ", "")
		return q != "q=0" && q != "q=0.0" && q != "q=0.00" && q != "q=0.000"
	}
	return false
}

func isCompressibleContentType(contentType string) bool {
	mediaType, _, _ := strings.Cut(contentType, ";")
	return compressibleTypes[strings.ToLower(strings.TrimSpace(mediaType))]
}

// gzipResponseWriter buffers the body until MinSize is reached, then decides
// whether to compress. The decision is made at most once.
type gzipResponseWriter struct {
	http.ResponseWriter
	minSize int

	status      int
	decided     bool
	compressing bool
	buf         []byte
	gz          *gzip.Writer
	getWriter   func() *gzip.Writer
}

func (w *gzipResponseWriter) WriteHeader(statusCode int) {
	if w.status == 0 {
		w.status = statusCode
	}
}

func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", http.DetectContentType(b))
	}
	if w.decided {
		return w.writeBody(b)
	}
	if !w.eligible() {
		w.decide(false)
		return w.writeBody(b)
	}
	w.buf = append(w.buf, b...)
	if len(w.buf) >= w.minSize {
		w.decide(true)
		if err := w.flushBuffer(); err != nil {
			return 0, err
		}
	}
	return len(b), nil
}

func (w *gzipResponseWriter) eligible() bool {
	if w.status < http.StatusOK || w.status == http.StatusNoContent || w.status == http.StatusNotModified {
		return false
	}
	if w.Header().Get("Content-Encoding") != "" {
		return false
	}
	return isCompressibleContentType(w.Header().Get("Content-Type"))
}

func (w *gzipResponseWriter) decide(compress bool) {
	w.decided = true
	w.compressing = compress
	if compress {
		w.gz = w.getWriter()
		w.gz.Reset(w.ResponseWriter)
		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Del("Content-Length")
	}
	status := w.status
	if status == 0 {
		status = http.StatusOK
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *gzipResponseWriter) writeBody(b []byte) (int, error) {
	if w.compressing {
		return w.gz.Write(b)
	}
	return w.ResponseWriter.Write(b)
}

func (w *gzipResponseWriter) flushBuffer() error {
	if len(w.buf) == 0 {
		return nil
	}
	_, err := w.writeBody(w.buf)
	w.buf = nil
	return err
}

// finish writes whatever is still buffered. Bodies below MinSize go out uncompressed.
func (w *gzipResponseWriter) finish() error {
	if !w.decided {
		if w.status == 0 && len(w.buf) == 0 {
			return nil
		}
		w.decide(false)
	}
	if err := w.flushBuffer(); err != nil {
		return err
	}
	if w.gz != nil {
		return w.gz.Close()
	}
	return nil
}

// Flush implements http.Flusher. It forces the compression decision.
func (w *gzipResponseWriter) Flush() {
	if !w.decided {
		w.decide(w.eligible())
	}
	if err := w.flushBuffer(); err != nil {
		return
	}
	if w.gz != nil {
		if err := w.gz.Flush(); err != nil {
			return
		}
	}
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// Hijack implements http.Hijacker.
func (w *gzipResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := w.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, errors.New("http.Hijacker not supported")
}
