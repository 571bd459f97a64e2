package ports

import (
	"context"
	"time"

	"github.com/target/placesmap/internal/domain/model"
)

// Geocoder resolves a free-text place name to a coordinate.
type Geocoder interface {
	Geocode(ctx context.Context, placeName string) (model.LatLng, error)
}

// Router computes a driving route between two provider-ordered coordinates.
type Router interface {
	Directions(ctx context.Context, start, end model.LngLat) (model.RouteResult, error)
}

// GeocodeCache memoizes successful geocode lookups. Misses return found=false
// with a nil error.
type GeocodeCache interface {
	Get(ctx context.Context, placeName string) (coord model.LatLng, found bool, err error)
	Set(ctx context.Context, placeName string, coord model.LatLng, ttl time.Duration) error
}
