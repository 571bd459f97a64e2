package httpx

import (
	"net/http"

	apperrors "github.com/target/placesmap/internal/errors"
)

// NotFound renders an HTML 404 for browsers and a JSON 404 for API clients.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if !IsBrowserRequest(r) {
		WriteAppError(w, apperrors.NotFound("Recurso no encontrado"))
		return
	}

	data := NewTemplateData(r, PageMeta{Title: "Página no encontrada"}).
		With("Code", "404").
		With("Message", "La página que buscas no existe.").
		Build()
	if h.T == nil {
		http.Error(w, "Page not found", http.StatusNotFound)
		return
	}
	if err := h.T.RenderError(w, http.StatusNotFound, data); err != nil {
		http.Error(w, "Page not found", http.StatusNotFound)
	}
}
