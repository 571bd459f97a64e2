package httpx

import (
	"bytes"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"

	corefuncs "github.com/target/placesmap/internal/http/templates/core"
)

// TemplateRenderer renders HTML templates for UI responses.
type TemplateRenderer struct {
	mu      sync.RWMutex
	t       *template.Template
	fsys    fs.FS
	devMode bool         // Re-parse templates on every render
	logger  *slog.Logger // For logging template errors
}

// TemplateRendererConfig holds configuration for creating a TemplateRenderer.
type TemplateRendererConfig struct {
	TemplateFS fs.FS        // Filesystem containing templates (required)
	DevMode    bool         // Enable hot reloading of templates
	Logger     *slog.Logger // Logger for template errors (optional)
}

// RenderParams selects a template, status and data for one response.
type RenderParams struct {
	Template string
	Status   int
	Data     any
}

// NewTemplateRenderer constructs a renderer by parsing templates from the provided config.
// In dev mode TemplateFS should point at the on-disk templates so edits show up without a restart.
func NewTemplateRenderer(cfg TemplateRendererConfig) (*TemplateRenderer, error) {
	if cfg.TemplateFS == nil {
		return nil, errors.New("TemplateFS is required")
	}

	renderer := &TemplateRenderer{
		fsys:    cfg.TemplateFS,
		devMode: cfg.DevMode,
		logger:  cfg.Logger,
	}
	t, err := renderer.parse()
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Error("template parsing failed",
				slog.Any("error", err),
				slog.String("phase", "initialization"),
			)
		}
		return nil, err
	}
	renderer.t = t
	return renderer, nil
}

func (r *TemplateRenderer) parse() (*template.Template, error) {
	var t *template.Template
	funcs := corefuncs.Funcs(corefuncs.Deps{
		Template:           &t,
		ContentTemplateFor: ContentTemplateFor,
	})
	parsed, err := template.New("root").Funcs(funcs).ParseFS(r.fsys,
		"*.tmpl",
		"pages/*.tmpl",
		"partials/*.tmpl",
	)
	if err != nil {
		return nil, err
	}
	t = parsed
	return t, nil
}

func (r *TemplateRenderer) templates() *template.Template {
	if r.devMode {
		if t, err := r.parse(); err == nil {
			r.mu.Lock()
			r.t = t
			r.mu.Unlock()
		} else {
			r.logTemplateError("reload", err)
		}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.t
}

// RenderFull renders the full page (layout + page content).
func (r *TemplateRenderer) RenderFull(w http.ResponseWriter, _ *http.Request, data any) error {
	return r.Render(w, RenderParams{Template: "layout", Data: data})
}

// RenderPartial renders only the main content area.
func (r *TemplateRenderer) RenderPartial(w http.ResponseWriter, _ *http.Request, data any) error {
	return r.Render(w, RenderParams{Template: "content", Data: data})
}

// RenderError renders the standalone error page.
func (r *TemplateRenderer) RenderError(w http.ResponseWriter, status int, data any) error {
	return r.Render(w, RenderParams{Template: "error-layout", Status: status, Data: data})
}

// Render executes p.Template into a buffer and writes it with p.Status (200 when zero).
// Nothing is written when execution fails.
func (r *TemplateRenderer) Render(w http.ResponseWriter, p RenderParams) error {
	var buf bytes.Buffer
	if err := r.templates().ExecuteTemplate(&buf, p.Template, p.Data); err != nil {
		r.logTemplateError(p.Template, err)
		return err
	}

	status := p.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		if r.logger != nil {
			r.logger.Error("failed to write rendered template",
				slog.String("template", p.Template),
				slog.Any("error", err),
			)
		}
		return err
	}
	return nil
}

// logTemplateError logs a template execution error with context.
func (r *TemplateRenderer) logTemplateError(templateName string, err error) {
	if r.logger == nil || err == nil {
		return
	}
	r.logger.Error("template execution failed",
		slog.String("template", templateName),
		slog.Any("error", err),
	)
}
