package httpx

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/target/placesmap/internal/domain/model"
	apperrors "github.com/target/placesmap/internal/errors"
	"github.com/target/placesmap/internal/service"
)

func samplePlaces() []*model.Place {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return []*model.Place{
		{ID: "p1", Name: "Madrid", Lat: 40.4168, Lng: -3.7038, UserID: "user-1", CreatedAt: now},
		{ID: "p2", Name: "Toledo", Lat: 39.8628, Lng: -4.0273, UserID: "user-1", CreatedAt: now.Add(-time.Hour)},
	}
}

func TestDashboardPage_PreselectsFirstTwoPlaces(t *testing.T) {
	app := newTestApp(t)
	id := app.signIn(t)
	app.places.EXPECT().ListByOwner(gomock.Any(), testSession.Principal()).Return(samplePlaces(), nil)

	rec := app.get("/dashboard", withSession(id))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, ContainsAll(body, []string{
		"Bienvenido, ana@example.com",
		"Madrid",
		"(40.4168, -3.7038)",
		`<option value="p1" selected>Madrid</option>`,
		`<option value="p2" selected>Toledo</option>`,
		`id="map"`,
	}), body)
	assert.NotContains(t, body, "disabled>Calcular ruta")
}

func TestDashboardPage_EmptyList(t *testing.T) {
	app := newTestApp(t)
	id := app.signIn(t)
	app.places.EXPECT().ListByOwner(gomock.Any(), gomock.Any()).Return(nil, nil)

	rec := app.get("/dashboard", withSession(id))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Aún no has guardado ningún lugar.")
	assert.Contains(t, rec.Body.String(), "disabled>Calcular ruta")
}

func TestDashboardPage_StorageFailure(t *testing.T) {
	app := newTestApp(t)
	id := app.signIn(t)
	app.places.EXPECT().ListByOwner(gomock.Any(), gomock.Any()).
		Return(nil, apperrors.Wrap(errors.New("boom"), apperrors.ErrCodeStorage, "No se pudieron cargar los lugares."))

	rec := app.get("/dashboard", withSession(id))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Error: No se pudieron cargar los lugares.")
}

func TestDashboardAddPlace_PrependsNewPlace(t *testing.T) {
	app := newTestApp(t)
	id := app.signIn(t)
	existing := samplePlaces()[1:]
	app.places.EXPECT().ListByOwner(gomock.Any(), gomock.Any()).Return(existing, nil)
	app.geocoder.EXPECT().Geocode(gomock.Any(), "Madrid").Return(model.LatLng{Lat: 40.4168, Lng: -3.7038}, nil)
	app.places.EXPECT().Create(gomock.Any(), testSession.Principal(), model.CreatePlaceRequest{
		Name: "Madrid", Lat: 40.4168, Lng: -3.7038, UserID: testSession.UserID,
	}).Return(samplePlaces()[0], nil)

	rec := app.form(http.MethodPost, "/dashboard/places", url.Values{"name": {"Madrid"}}, withSession(id))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `¡Lugar &#34;Madrid&#34; añadido con éxito!`)
	assert.Contains(t, body, `class="flash flash-success"`)
	madrid := strings.Index(body, `data-place-id="p1"`)
	toledo := strings.Index(body, `data-place-id="p2"`)
	require.NotEqual(t, -1, madrid)
	require.NotEqual(t, -1, toledo)
	assert.Less(t, madrid, toledo, "new place is listed first")
	assert.Contains(t, body, `placeholder="Ej: Madrid" value=""`, "input is cleared")
}

// selectSection returns the markup of the <select> with the given id.
func selectSection(t *testing.T, body, id string) string {
	t.Helper()
	start := strings.Index(body, `<select id="`+id+`"`)
	require.NotEqual(t, -1, start, "select %s not rendered", id)
	end := strings.Index(body[start:], "</select>")
	require.NotEqual(t, -1, end)
	return body[start : start+end]
}

func TestDashboardAddPlace_KeepsRouteSelection(t *testing.T) {
	app := newTestApp(t)
	id := app.signIn(t)
	sevilla := &model.Place{ID: "p3", Name: "Sevilla", Lat: 37.3891, Lng: -5.9845, UserID: "user-1"}
	app.places.EXPECT().ListByOwner(gomock.Any(), gomock.Any()).Return(samplePlaces(), nil)
	app.geocoder.EXPECT().Geocode(gomock.Any(), "Sevilla").Return(model.LatLng{Lat: sevilla.Lat, Lng: sevilla.Lng}, nil)
	app.places.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(sevilla, nil)

	rec := app.form(http.MethodPost, "/dashboard/places", url.Values{
		"name":     {"Sevilla"},
		"start_id": {"p2"},
		"end_id":   {"p1"},
	}, withSession(id))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, selectSection(t, body, "start-id"), `<option value="p2" selected>Toledo</option>`)
	assert.Contains(t, selectSection(t, body, "end-id"), `<option value="p1" selected>Madrid</option>`)
	assert.Contains(t, body, `<input type="hidden" name="start_id" value="p2">`)
	assert.Contains(t, body, `<input type="hidden" name="end_id" value="p1">`)
}

func TestDashboard_FormAndRouteNoticesAreSeparate(t *testing.T) {
	app := newTestApp(t)
	id := app.signIn(t)
	app.places.EXPECT().ListByOwner(gomock.Any(), gomock.Any()).Return(samplePlaces(), nil)

	rec := app.form(http.MethodPost, "/dashboard/route", url.Values{"start_id": {""}, "end_id": {"p1"}}, withSession(id))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	routeForm := strings.Index(body, `class="route-form"`)
	notice := strings.Index(body, service.MsgSelectEndpoints)
	require.NotEqual(t, -1, routeForm)
	require.NotEqual(t, -1, notice)
	assert.Greater(t, notice, routeForm, "route notice is rendered inside the route form")
	assert.Equal(t, 1, strings.Count(body, `class="flash `))
}

func TestDashboardAddPlace_GeocodeFailureKeepsInput(t *testing.T) {
	app := newTestApp(t)
	id := app.signIn(t)
	app.places.EXPECT().ListByOwner(gomock.Any(), gomock.Any()).Return(samplePlaces(), nil)
	app.geocoder.EXPECT().Geocode(gomock.Any(), "Atlantis").
		Return(model.LatLng{}, apperrors.Upstream("Lugar no encontrado"))

	rec := app.form(http.MethodPost, "/dashboard/places", url.Values{"name": {"Atlantis"}}, withSession(id))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Error: Lugar no encontrado")
	assert.Contains(t, body, `value="Atlantis"`)
	assert.Contains(t, body, `data-place-id="p1"`, "existing places still shown")
}

func TestDashboardAddPlace_BlankName(t *testing.T) {
	app := newTestApp(t)
	id := app.signIn(t)
	app.places.EXPECT().ListByOwner(gomock.Any(), gomock.Any()).Return(nil, nil)

	rec := app.form(http.MethodPost, "/dashboard/places", url.Values{"name": {"  "}}, withSession(id))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Error: placeName es requerido")
}

func TestDashboardRoute_Summary(t *testing.T) {
	app := newTestApp(t)
	id := app.signIn(t)
	dist, dur := 15500.0, 1800.0
	app.places.EXPECT().ListByOwner(gomock.Any(), gomock.Any()).Return(samplePlaces(), nil)
	app.router.EXPECT().
		Directions(gomock.Any(), model.LngLat{-4.0273, 39.8628}, model.LngLat{-3.7038, 40.4168}).
		Return(model.RouteResult{
			Geometry: [][2]float64{{39.8628, -4.0273}, {40.4168, -3.7038}},
			Distance: &dist,
			Duration: &dur,
		}, nil)

	rec := app.form(http.MethodPost, "/dashboard/route", url.Values{"start_id": {"p2"}, "end_id": {"p1"}}, withSession(id))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Ruta calculada: 15.50 km en 30 min.")
	assert.Contains(t, body, `<option value="p2" selected>Toledo</option>`)
}

func TestDashboardRoute_DegradedSummary(t *testing.T) {
	app := newTestApp(t)
	id := app.signIn(t)
	app.places.EXPECT().ListByOwner(gomock.Any(), gomock.Any()).Return(samplePlaces(), nil)
	app.router.EXPECT().Directions(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(model.RouteResult{Geometry: [][2]float64{{1, 2}}}, nil)

	rec := app.form(http.MethodPost, "/dashboard/route", url.Values{"start_id": {"p1"}, "end_id": {"p2"}}, withSession(id))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), service.MsgRouteNoSummary)
}

func TestDashboardRoute_InvalidSelectionMakesNoCall(t *testing.T) {
	tests := []struct {
		name    string
		form    url.Values
		wantMsg string
	}{
		{name: "missing end", form: url.Values{"start_id": {"p1"}}, wantMsg: service.MsgSelectEndpoints},
		{name: "missing both", form: url.Values{}, wantMsg: service.MsgSelectEndpoints},
		{name: "unknown place", form: url.Values{"start_id": {"p1"}, "end_id": {"nope"}}, wantMsg: service.MsgPlacesNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t)
			id := app.signIn(t)
			app.places.EXPECT().ListByOwner(gomock.Any(), gomock.Any()).Return(samplePlaces(), nil)

			rec := app.form(http.MethodPost, "/dashboard/route", tt.form, withSession(id))

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantMsg)
		})
	}
}

func TestDashboardRoute_HTMXPartial(t *testing.T) {
	app := newTestApp(t)
	id := app.signIn(t)
	app.places.EXPECT().ListByOwner(gomock.Any(), gomock.Any()).Return(samplePlaces(), nil)
	app.router.EXPECT().Directions(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(model.RouteResult{}, apperrors.Upstream("No se encontró una ruta válida."))

	rec := app.form(http.MethodPost, "/dashboard/route",
		url.Values{"start_id": {"p1"}, "end_id": {"p2"}}, withSession(id), withHTMX())

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, dashboardPath, rec.Header().Get("HX-Push-Url"))
	body := rec.Body.String()
	assert.NotContains(t, body, "<html")
	assert.Contains(t, body, "Error: No se encontró una ruta válida.")
}
