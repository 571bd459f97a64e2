package ors

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/target/placesmap/internal/domain/model"
	apperrors "github.com/target/placesmap/internal/errors"
)

const (
	msgGeocodeConnect = "Error al conectar con OpenRouteService (Geocoding)"
	msgNoCoordinates  = "La respuesta de ORS no tiene coordenadas."
)

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// Geocode resolves placeName with the provider's search endpoint and returns
// the first hit in (lat, lng) order.
func (c *Client) Geocode(ctx context.Context, placeName string) (coord model.LatLng, err error) {
	started := time.Now()
	defer func() { c.observe(ctx, "geocode", started, err) }()

	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("text", placeName)
	endpoint := c.baseURL + "/geocode/search?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.LatLng{}, fmt.Errorf("build geocode request: %w", err)
	}
	req.Header.Set("Accept", "application/json, application/geo+json")

	res, err := c.do(req)
	if err != nil {
		return model.LatLng{}, apperrors.Wrap(err, apperrors.ErrCodeUpstream, msgGeocodeConnect)
	}
	if !res.ok() {
		return model.LatLng{}, apperrors.UpstreamStatus(res.status, msgGeocodeConnect)
	}

	var payload geocodeResponse
	if err := decodeJSON(res.body, &payload); err != nil {
		return model.LatLng{}, err
	}
	if len(payload.Features) == 0 {
		return model.LatLng{}, apperrors.Upstream(fmt.Sprintf("No se encontraron coordenadas para \"%s\"", placeName))
	}

	coords := payload.Features[0].Geometry.Coordinates
	if len(coords) < 2 {
		return model.LatLng{}, apperrors.Upstream(msgNoCoordinates)
	}
	coord = model.LngLat{coords[0], coords[1]}.LatLng()
	if err := coord.Validate(); err != nil {
		return model.LatLng{}, apperrors.Wrap(err, apperrors.ErrCodeUpstream, msgNoCoordinates)
	}
	return coord, nil
}
