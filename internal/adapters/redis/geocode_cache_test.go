package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/placesmap/internal/domain/model"
)

func TestGeocodeCache_Key(t *testing.T) {
	c := NewGeocodeCache(nil)
	assert.Equal(t, "placesmap:geocode:puerta del sol", c.Key("  Puerta   del SOL "))
	assert.Equal(t, c.Key("madrid"), c.Key("Madrid"))
}

func TestGeocodeCache_SetGet(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	cache := NewGeocodeCache(client)
	ctx := context.Background()

	_, found, err := cache.Get(ctx, "Madrid")
	require.NoError(t, err)
	assert.False(t, found)

	want := model.LatLng{Lat: 40.416775, Lng: -3.70379}
	require.NoError(t, cache.Set(ctx, "Madrid", want, time.Minute))

	got, found, err := cache.Get(ctx, " madrid ")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, got)
}

func TestGeocodeCache_ZeroTTLDisables(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	cache := NewGeocodeCache(client)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "Sevilla", model.LatLng{Lat: 37.38, Lng: -5.98}, 0))
	_, found, err := cache.Get(ctx, "Sevilla")
	require.NoError(t, err)
	assert.False(t, found)
}
