package httpx

import (
	"net/http"
)

const appTitle = "Mis Lugares"

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title       string
	CurrentPage string
}

// basePageData constructs the common page data map with user context.
func basePageData(r *http.Request, meta PageMeta) map[string]any {
	title := appTitle
	if meta.Title != "" {
		title = meta.Title + " - " + appTitle
	}
	data := map[string]any{
		"Title":           title,
		"CurrentPage":     meta.CurrentPage,
		"IsAuthenticated": false,
		"CSRFToken":       GetCSRFToken(r),
	}
	if session := GetSessionFromContext(r.Context()); session != nil {
		data["IsAuthenticated"] = true
		data["UserEmail"] = session.Email
	}
	return data
}

// TemplateDataBuilder provides a fluent API for building template data maps.
type TemplateDataBuilder struct {
	data map[string]any
}

// NewTemplateData creates a new TemplateDataBuilder initialized with basePageData.
func NewTemplateData(r *http.Request, meta PageMeta) *TemplateDataBuilder {
	return &TemplateDataBuilder{data: basePageData(r, meta)}
}

// WithMessage sets the inline flash message and its kind (success, error, info).
func (b *TemplateDataBuilder) WithMessage(kind, msg string) *TemplateDataBuilder {
	if msg == "" {
		return b
	}
	b.data["Message"] = msg
	b.data["MessageKind"] = kind
	return b
}

// With adds a custom field to the template data.
func (b *TemplateDataBuilder) With(key string, value any) *TemplateDataBuilder {
	b.data[key] = value
	return b
}

// Build returns the final template data map.
func (b *TemplateDataBuilder) Build() map[string]any {
	return b.data
}
