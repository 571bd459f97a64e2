package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/target/placesmap/internal/domain/model"
	"github.com/target/placesmap/internal/ports"
)

var _ ports.GeocodeCache = (*GeocodeCache)(nil)

// GeocodeCache memoizes geocoding results keyed by the normalized place name.
type GeocodeCache struct {
	client redis.UniversalClient
	prefix string
}

// NewGeocodeCache creates a geocode cache using the "placesmap:geocode:" prefix.
func NewGeocodeCache(client redis.UniversalClient) *GeocodeCache {
	return &GeocodeCache{client: client, prefix: "placesmap:geocode:"}
}

// Key returns the Redis key for placeName. Lookups are case- and
// whitespace-insensitive.
func (c *GeocodeCache) Key(placeName string) string {
	return c.prefix + strings.Join(strings.Fields(strings.ToLower(placeName)), " ")
}

func (c *GeocodeCache) Get(ctx context.Context, placeName string) (model.LatLng, bool, error) {
	data, err := c.client.Get(ctx, c.Key(placeName)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.LatLng{}, false, nil
		}
		return model.LatLng{}, false, fmt.Errorf("redis get geocode: %w", err)
	}

	var coord model.LatLng
	if err := json.Unmarshal(data, &coord); err != nil {
		return model.LatLng{}, false, fmt.Errorf("unmarshal geocode: %w", err)
	}
	return coord, true, nil
}

// Set stores coord for placeName. A non-positive ttl disables caching.
func (c *GeocodeCache) Set(ctx context.Context, placeName string, coord model.LatLng, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(coord)
	if err != nil {
		return fmt.Errorf("marshal geocode: %w", err)
	}
	if err := c.client.Set(ctx, c.Key(placeName), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set geocode: %w", err)
	}
	return nil
}
