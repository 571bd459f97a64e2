package httpx

import (
	"net/http"

	"github.com/target/placesmap/internal/service"
)

// DashboardPage renders the user's places, the add-place form, the route form and the map.
// GET /dashboard.
func (h *UIHandlers) DashboardPage(w http.ResponseWriter, r *http.Request) {
	st := h.Dashboard.Load(r.Context(), GetSessionFromContext(r.Context()))
	h.renderDashboard(w, r, st)
}

// DashboardAddPlace geocodes the submitted name and saves it as a new place.
// The route selection posted alongside is kept.
// POST /dashboard/places.
func (h *UIHandlers) DashboardAddPlace(w http.ResponseWriter, r *http.Request) {
	sess := GetSessionFromContext(r.Context())
	st := h.Dashboard.Load(r.Context(), sess)
	if st.Loaded() {
		if err := r.ParseForm(); err == nil && r.PostForm.Has("start_id") {
			st.KeepSelection(r.PostForm.Get("start_id"), r.PostForm.Get("end_id"))
		}
		h.Dashboard.AddPlace(r.Context(), sess, st, r.PostFormValue("name"))
	}
	h.renderDashboard(w, r, st)
}

// DashboardRoute computes a route between the two selected places.
// POST /dashboard/route.
func (h *UIHandlers) DashboardRoute(w http.ResponseWriter, r *http.Request) {
	st := h.Dashboard.Load(r.Context(), GetSessionFromContext(r.Context()))
	if st.Loaded() {
		h.Dashboard.CalculateRoute(r.Context(), st, r.PostFormValue("start_id"), r.PostFormValue("end_id"))
	}
	h.renderDashboard(w, r, st)
}

func (h *UIHandlers) renderDashboard(w http.ResponseWriter, r *http.Request, st *service.DashboardState) {
	if IsHTMX(r) && r.Method == http.MethodPost {
		HTMX(w).PushURL(dashboardPath)
	}
	data := NewTemplateData(r, PageMeta{Title: "Panel", CurrentPage: PageDashboard}).
		With("State", st).
		With("Map", service.DashboardMap(st)).
		Build()
	h.renderPage(w, r, http.StatusOK, data)
}
