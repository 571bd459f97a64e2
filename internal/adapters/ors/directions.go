package ors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/target/placesmap/internal/domain/model"
	apperrors "github.com/target/placesmap/internal/errors"
)

const (
	msgDirectionsConnect = "Error al conectar con OpenRouteService (rutas)"
	msgNoRoute           = "No se encontró ninguna ruta entre los puntos."
	msgNoGeometry        = "La respuesta de ORS no tiene geometría."
)

type directionsRequest struct {
	Coordinates []model.LngLat `json:"coordinates"`
}

type directionsResponse struct {
	Features []directionsFeature `json:"features"`
}

type directionsFeature struct {
	Geometry *struct {
		Coordinates []model.LngLat `json:"coordinates"`
	} `json:"geometry"`
	Properties struct {
		Summary *struct {
			Distance *float64 `json:"distance"`
			Duration *float64 `json:"duration"`
		} `json:"summary"`
	} `json:"properties"`
}

// Directions requests a route between start and end (both (lng, lat)) and
// returns its geometry in (lat, lng) order. A feature without summary yields
// nil distance and duration; a feature without geometry is an error.
func (c *Client) Directions(ctx context.Context, start, end model.LngLat) (route model.RouteResult, err error) {
	started := time.Now()
	defer func() { c.observe(ctx, "directions", started, err) }()

	body, err := json.Marshal(directionsRequest{Coordinates: []model.LngLat{start, end}})
	if err != nil {
		return model.RouteResult{}, fmt.Errorf("encode directions request: %w", err)
	}
	endpoint := fmt.Sprintf("%s/v2/directions/%s/geojson", c.baseURL, c.profile)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return model.RouteResult{}, fmt.Errorf("build directions request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, application/geo+json")

	res, err := c.do(req)
	if err != nil {
		return model.RouteResult{}, apperrors.Wrap(err, apperrors.ErrCodeUpstream, msgDirectionsConnect)
	}
	if !res.ok() {
		msg := providerErrorMessage(res.body)
		if msg == "" {
			msg = msgDirectionsConnect
		}
		return model.RouteResult{}, apperrors.UpstreamStatus(res.status, msg)
	}

	var payload directionsResponse
	if err := decodeJSON(res.body, &payload); err != nil {
		return model.RouteResult{}, err
	}
	if len(payload.Features) == 0 {
		return model.RouteResult{}, apperrors.Upstream(msgNoRoute)
	}

	feature := payload.Features[0]
	if feature.Geometry == nil || feature.Geometry.Coordinates == nil {
		return model.RouteResult{}, apperrors.Upstream(msgNoGeometry)
	}

	route = model.RouteResult{Geometry: model.ReprojectLine(feature.Geometry.Coordinates)}
	if s := feature.Properties.Summary; s != nil {
		route.Distance = s.Distance
		route.Duration = s.Duration
	}
	return route, nil
}
