package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/target/placesmap/internal/domain/model"
	apperrors "github.com/target/placesmap/internal/errors"
	"github.com/target/placesmap/internal/ports"
)

const (
	msgPlaceNameRequired   = "placeName es requerido"
	msgRouteCoordsRequired = "Coordenadas de inicio y fin son requeridas"
)

// RoutingProviders are the geocoding and routing collaborators.
type RoutingProviders struct {
	Geocoder ports.Geocoder
	Router   ports.Router
}

// GeocodeCacheOptions enables memoization of geocode lookups. A nil Store or
// a non-positive TTL disables caching.
type GeocodeCacheOptions struct {
	Store ports.GeocodeCache
	TTL   time.Duration
}

// RoutingServiceOptions groups dependencies for RoutingService.
type RoutingServiceOptions struct {
	Providers RoutingProviders
	Cache     GeocodeCacheOptions
	Logger    *slog.Logger // Optional
}

// RoutingService validates geocode and directions requests before they reach
// the provider. Validation failures never cause a network call.
type RoutingService struct {
	geocoder ports.Geocoder
	router   ports.Router
	cache    ports.GeocodeCache
	cacheTTL time.Duration
	logger   *slog.Logger
}

// NewRoutingService constructs a RoutingService. Geocoder and Router are required.
func NewRoutingService(opts RoutingServiceOptions) *RoutingService {
	if opts.Providers.Geocoder == nil || opts.Providers.Router == nil {
		panic("routing service: geocoder and router are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	svc := &RoutingService{
		geocoder: opts.Providers.Geocoder,
		router:   opts.Providers.Router,
		logger:   logger.With("component", "routing_service"),
	}
	if opts.Cache.Store != nil && opts.Cache.TTL > 0 {
		svc.cache = opts.Cache.Store
		svc.cacheTTL = opts.Cache.TTL
	}
	return svc
}

// Geocode resolves placeName to a coordinate.
func (s *RoutingService) Geocode(ctx context.Context, placeName string) (model.LatLng, error) {
	name := strings.TrimSpace(placeName)
	if name == "" {
		return model.LatLng{}, apperrors.ValidationField("placeName", msgPlaceNameRequired)
	}
	if err := model.ValidatePlaceName(name); err != nil {
		return model.LatLng{}, apperrors.Wrap(err, apperrors.ErrCodeValidation, err.Error())
	}

	if s.cache != nil {
		coord, found, err := s.cache.Get(ctx, name)
		switch {
		case err != nil:
			s.logger.WarnContext(ctx, "geocode cache read failed", "error", err)
		case found:
			return coord, nil
		}
	}

	coord, err := s.geocoder.Geocode(ctx, name)
	if err != nil {
		return model.LatLng{}, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, name, coord, s.cacheTTL); err != nil {
			s.logger.WarnContext(ctx, "geocode cache write failed", "error", err)
		}
	}
	return coord, nil
}

// Directions computes a route for req. Both endpoints are required.
func (s *RoutingService) Directions(ctx context.Context, req model.RouteRequest) (model.RouteResult, error) {
	if req.Start == nil || req.End == nil {
		return model.RouteResult{}, apperrors.Validation(msgRouteCoordsRequired)
	}
	return s.router.Directions(ctx, *req.Start, *req.End)
}
