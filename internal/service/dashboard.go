package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	domainauth "github.com/target/placesmap/internal/domain/auth"
	"github.com/target/placesmap/internal/domain/model"
	apperrors "github.com/target/placesmap/internal/errors"
)

// Dashboard messages shown to the user.
const (
	MsgSelectEndpoints  = "Por favor, selecciona un origen y un destino."
	MsgPlacesNotFound   = "No se pudieron encontrar los lugares seleccionados."
	MsgRouteNoSummary   = "Ruta calculada (distancia/duración no disponibles)."
	msgPlaceAddedFormat = "¡Lugar \"%s\" añadido con éxito!"
	msgRouteFormat      = "Ruta calculada: %.2f km en %d min."
)

// MessageKind classifies a dashboard message for display.
type MessageKind string

const (
	MessageSuccess MessageKind = "success"
	MessageError   MessageKind = "error"
	MessageInfo    MessageKind = "info"
)

// Notice is a message shown next to one dashboard form.
type Notice struct {
	Text string
	Kind MessageKind
}

func noticeFor(err error) Notice {
	return Notice{Text: "Error: " + apperrors.UserMessage(err), Kind: MessageError}
}

// DashboardState is everything the dashboard renders for one request.
// FormNotice belongs to the add-place form (and place loading), RouteNotice
// to the route form.
type DashboardState struct {
	Email        string
	Places       []*model.Place
	StartID      string
	EndID        string
	NewPlaceName string
	Route        *model.RouteResult
	FormNotice   Notice
	RouteNotice  Notice

	loadFailed bool
}

// Loaded reports whether the user's places were fetched.
func (s *DashboardState) Loaded() bool { return !s.loadFailed }

// CanRoute reports whether a route can be requested (at least two places).
func (s *DashboardState) CanRoute() bool { return len(s.Places) >= 2 }

// Find returns the place with id, or nil.
func (s *DashboardState) Find(id string) *model.Place {
	for _, p := range s.Places {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// KeepSelection restores origin and destination chosen on a previous render.
// An empty id clears the selection; an id that is no longer listed keeps the
// default.
func (s *DashboardState) KeepSelection(startID, endID string) {
	if startID == "" || s.Find(startID) != nil {
		s.StartID = startID
	}
	if endID == "" || s.Find(endID) != nil {
		s.EndID = endID
	}
}

// DashboardServiceOptions groups dependencies for DashboardService.
type DashboardServiceOptions struct {
	Places  *PlaceService
	Routing *RoutingService
	Logger  *slog.Logger // Optional
}

// DashboardService drives the dashboard: loading places, adding a place by
// name and computing a route between two saved places.
type DashboardService struct {
	places  *PlaceService
	routing *RoutingService
	logger  *slog.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(opts DashboardServiceOptions) *DashboardService {
	if opts.Places == nil || opts.Routing == nil {
		panic("dashboard service: places and routing services are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		places:  opts.Places,
		routing: opts.Routing,
		logger:  logger.With("component", "dashboard_service"),
	}
}

// Load fetches the session user's places and pre-selects the first two as
// origin and destination when at least two exist. Storage failures are
// reported in the state's message.
func (d *DashboardService) Load(ctx context.Context, sess *domainauth.Session) *DashboardState {
	st := &DashboardState{}
	if sess != nil {
		st.Email = sess.Email
	}

	places, err := d.places.List(ctx, sess)
	if err != nil {
		d.logger.ErrorContext(ctx, "load places failed", "error", err)
		st.FormNotice = noticeFor(err)
		st.loadFailed = true
		return st
	}
	st.Places = places
	if len(places) >= 2 {
		st.StartID = places[0].ID
		st.EndID = places[1].ID
	}
	return st
}

// AddPlace geocodes name, stores the place and prepends it to st.Places.
// On failure st keeps its places and input; only the message changes.
func (d *DashboardService) AddPlace(ctx context.Context, sess *domainauth.Session, st *DashboardState, name string) {
	st.NewPlaceName = name

	coord, err := d.routing.Geocode(ctx, name)
	if err != nil {
		st.FormNotice = noticeFor(err)
		return
	}
	place, err := d.places.Create(ctx, sess, name, coord)
	if err != nil {
		d.logger.ErrorContext(ctx, "create place failed", "error", err)
		st.FormNotice = noticeFor(err)
		return
	}

	st.Places = append([]*model.Place{place}, st.Places...)
	st.NewPlaceName = ""
	st.FormNotice = Notice{Text: fmt.Sprintf(msgPlaceAddedFormat, place.Name), Kind: MessageSuccess}
}

// CalculateRoute requests a route between the places startID and endID.
// Missing or unknown selections are reported without any network call.
func (d *DashboardService) CalculateRoute(ctx context.Context, st *DashboardState, startID, endID string) {
	st.StartID, st.EndID = startID, endID
	st.Route = nil

	if startID == "" || endID == "" {
		st.RouteNotice = Notice{Text: MsgSelectEndpoints, Kind: MessageError}
		return
	}
	from, to := st.Find(startID), st.Find(endID)
	if from == nil || to == nil {
		st.RouteNotice = Notice{Text: MsgPlacesNotFound, Kind: MessageError}
		return
	}

	start, end := from.LngLat(), to.LngLat()
	route, err := d.routing.Directions(ctx, model.RouteRequest{Start: &start, End: &end})
	if err != nil {
		st.RouteNotice = noticeFor(err)
		return
	}

	st.Route = &route
	st.RouteNotice = Notice{Text: RouteSummary(route), Kind: MessageSuccess}
}

// RouteSummary formats the route's distance in kilometers (two decimals) and
// duration in whole minutes, or a degraded message when either is unknown.
func RouteSummary(route model.RouteResult) string {
	if !route.HasSummary() {
		return MsgRouteNoSummary
	}
	km := *route.Distance / 1000
	minutes := int(math.Round(*route.Duration / 60))
	return fmt.Sprintf(msgRouteFormat, km, minutes)
}
