package httpx

import (
	"context"
	"log/slog"
	"net/http"

	domainauth "github.com/target/placesmap/internal/domain/auth"
	"github.com/target/placesmap/internal/service"
)

// DashboardServiceInterface is the dashboard controller as the UI sees it.
type DashboardServiceInterface interface {
	Load(ctx context.Context, sess *domainauth.Session) *service.DashboardState
	AddPlace(ctx context.Context, sess *domainauth.Session, st *service.DashboardState, name string)
	CalculateRoute(ctx context.Context, st *service.DashboardState, startID, endID string)
}

var _ DashboardServiceInterface = (*service.DashboardService)(nil)

// UIHandlers serves browser-facing routes.
type UIHandlers struct {
	T            *TemplateRenderer
	Auth         AuthServiceInterface
	Dashboard    DashboardServiceInterface
	BaseURL      string // Public origin magic links return to
	CookieDomain string
	IsDev        bool // Development mode flag for enhanced error reporting
	Logger       *slog.Logger
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// renderPage renders data as a full page, or only the content area for htmx.
// htmx only swaps 2xx responses, so partials are always sent with 200.
func (h *UIHandlers) renderPage(w http.ResponseWriter, r *http.Request, status int, data map[string]any) {
	p := RenderParams{Template: "layout", Status: status, Data: data}
	if WantsPartial(r) {
		p.Template = "content"
		p.Status = http.StatusOK
	}
	if err := h.T.Render(w, p); err != nil {
		h.logAndRenderTemplateError(w, r, err)
	}
}

// logAndRenderTemplateError logs a template failure and answers 500. In dev
// mode the template error is shown to help debugging.
func (h *UIHandlers) logAndRenderTemplateError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger().ErrorContext(r.Context(), "template render failed",
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	)
	msg := "Internal Server Error"
	if h.IsDev {
		msg = "template error: " + err.Error()
	}
	http.Error(w, msg, http.StatusInternalServerError)
}
