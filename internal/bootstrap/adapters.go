package bootstrap

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/target/placesmap/config"
	"github.com/target/placesmap/internal/adapters/ors"
	redisadapter "github.com/target/placesmap/internal/adapters/redis"
	"github.com/target/placesmap/internal/adapters/supabase"
	"github.com/target/placesmap/internal/data"
	domainauth "github.com/target/placesmap/internal/domain/auth"
	"github.com/target/placesmap/internal/domain/model"
	apperrors "github.com/target/placesmap/internal/errors"
	"github.com/target/placesmap/internal/observability/metrics"
	"github.com/target/placesmap/internal/ports"
)

const msgSupabaseMissing = "El servicio de autenticación no está configurado."

// errSupabaseNotConfigured is returned by the placeholder adapters used when
// the Supabase project is not configured.
var errSupabaseNotConfigured = apperrors.Internal(msgSupabaseMissing)

// AdapterDeps groups what the provider adapters are built from.
type AdapterDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Metrics     *metrics.Collector
	Logger      *slog.Logger
}

// BuildSupabaseClient returns the shared Supabase client, or nil when the
// project URL or anon key is missing.
func BuildSupabaseClient(deps AdapterDeps) *supabase.Client {
	sb := deps.Config.Supabase
	if !sb.IsConfigured() {
		return nil
	}
	client, err := supabase.NewClient(supabase.Config{
		URL:     sb.URL,
		AnonKey: sb.AnonKey,
		Timeout: sb.Timeout,
		Logger:  deps.Logger,
		Metrics: deps.Metrics,
	})
	if err != nil {
		deps.Logger.Warn("invalid supabase configuration", "error", err)
		return nil
	}
	return client
}

// BuildRoutingProviders builds the OpenRouteService client used for both
// geocoding and directions.
func BuildRoutingProviders(deps AdapterDeps) (ports.Geocoder, ports.Router) {
	rc := deps.Config.Routing
	client := ors.NewClient(ors.Config{
		APIKey:  rc.APIKey,
		BaseURL: rc.BaseURL,
		Profile: rc.Profile,
		Timeout: rc.Timeout,
		Logger:  deps.Logger,
		Metrics: deps.Metrics,
	})
	return client, client
}

// BuildGeocodeCache returns the Redis geocode cache, or nil when caching is
// disabled or Redis is unavailable.
//
//nolint:ireturn // callers only need the port.
func BuildGeocodeCache(deps AdapterDeps) ports.GeocodeCache {
	if deps.RedisClient == nil || deps.Config.Cache.GeocodeTTL <= 0 {
		return nil
	}
	return redisadapter.NewGeocodeCache(deps.RedisClient)
}

// BuildPlaceRepository selects the places store for the configured backend.
//
//nolint:ireturn // the backend is chosen at runtime.
func BuildPlaceRepository(deps AdapterDeps, sb *supabase.Client) ports.PlaceRepository {
	switch deps.Config.Places.Backend {
	case config.PlacesBackendPostgres:
		return data.NewPlaceRepo(deps.DB)
	default:
		if sb == nil {
			deps.Logger.Warn("places storage unavailable: supabase is not configured")
			return unconfiguredPlaces{}
		}
		return supabase.NewPlaceStore(sb, deps.Config.Places.Table)
	}
}

// unconfiguredPlaces answers every call with errSupabaseNotConfigured.
type unconfiguredPlaces struct{}

func (unconfiguredPlaces) ListByOwner(context.Context, domainauth.Principal) ([]*model.Place, error) {
	return nil, errSupabaseNotConfigured
}

func (unconfiguredPlaces) Create(context.Context, domainauth.Principal, model.CreatePlaceRequest) (*model.Place, error) {
	return nil, errSupabaseNotConfigured
}

// unconfiguredAuth rejects sign-in attempts when Supabase is not configured.
type unconfiguredAuth struct{}

func (unconfiguredAuth) SendMagicLink(context.Context, ports.MagicLinkInput) (ports.MagicLinkDispatch, error) {
	return ports.MagicLinkDispatch{}, errSupabaseNotConfigured
}

func (unconfiguredAuth) Exchange(context.Context, ports.ExchangeInput) (domainauth.Identity, error) {
	return domainauth.Identity{}, errSupabaseNotConfigured
}

func (unconfiguredAuth) SignOut(context.Context, string) error { return nil }

var (
	_ ports.PlaceRepository = unconfiguredPlaces{}
	_ ports.AuthProvider    = unconfiguredAuth{}
)
