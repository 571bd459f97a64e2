package httpx

import (
	"context"
	"log/slog"
	"net/http"

	domainauth "github.com/target/placesmap/internal/domain/auth"
	"github.com/target/placesmap/internal/domain/model"
	"github.com/target/placesmap/internal/service"
)

// RoutingServiceInterface is what the proxy endpoints need from the routing service.
type RoutingServiceInterface interface {
	Geocode(ctx context.Context, placeName string) (model.LatLng, error)
	Directions(ctx context.Context, req model.RouteRequest) (model.RouteResult, error)
}

// PlacesServiceInterface lists the current user's places.
type PlacesServiceInterface interface {
	List(ctx context.Context, sess *domainauth.Session) ([]*model.Place, error)
}

var (
	_ RoutingServiceInterface = (*service.RoutingService)(nil)
	_ PlacesServiceInterface  = (*service.PlaceService)(nil)
)

// ProxyHandlers exposes the geocoding and directions proxies as JSON endpoints.
type ProxyHandlers struct {
	Svc    RoutingServiceInterface
	Logger *slog.Logger
}

func (h *ProxyHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

type geocodeRequest struct {
	PlaceName string `json:"placeName"`
}

// Geocode resolves a place name to coordinates.
// POST /api/geocode {"placeName": "..."} -> {"lat": .., "lng": ..}.
func (h *ProxyHandlers) Geocode(w http.ResponseWriter, r *http.Request) {
	var req geocodeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	coord, err := h.Svc.Geocode(r.Context(), req.PlaceName)
	if err != nil {
		h.logger().DebugContext(r.Context(), "geocode request failed", "error", err)
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, coord)
}

// Directions computes a driving route between two [lng, lat] points.
// POST /api/directions {"start": [lng, lat], "end": [lng, lat]}.
func (h *ProxyHandlers) Directions(w http.ResponseWriter, r *http.Request) {
	var req model.RouteRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	route, err := h.Svc.Directions(r.Context(), req)
	if err != nil {
		h.logger().DebugContext(r.Context(), "directions request failed", "error", err)
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, route)
}

// PlaceHandlers serves the JSON view of the user's places.
type PlaceHandlers struct {
	Svc PlacesServiceInterface
}

type placeListResponse struct {
	Places []*model.Place `json:"places"`
}

// List returns the session user's places, newest first.
// GET /api/places.
func (h *PlaceHandlers) List(w http.ResponseWriter, r *http.Request) {
	places, err := h.Svc.List(r.Context(), GetSessionFromContext(r.Context()))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	if places == nil {
		places = []*model.Place{}
	}
	WriteJSON(w, http.StatusOK, placeListResponse{Places: places})
}
