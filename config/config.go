package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: Authentication and Supabase configuration
//   - database.go: Database, Redis and cache configuration
//   - http.go: HTTP server configuration
//   - places.go: Places storage backend selection
//   - routing.go: OpenRouteService configuration
//   - observability.go: Logging and metrics configuration
type AppConfig struct {
	// IsDev controls development mode behavior (template reloading, verbose logs).
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Authentication configuration
	Auth AuthConfig

	// Supabase project (auth + hosted places table)
	Supabase SupabaseConfig `envPrefix:"SUPABASE_"`

	// Places storage backend
	Places PlacesConfig

	// Geocoding/routing provider
	Routing RoutingConfig `envPrefix:"ORS_"`

	// Database configuration
	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`
	Cache    CacheConfig

	// HTTP server configuration
	HTTP HTTPConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.HTTP.Sanitize()
	c.Supabase.Sanitize()
	c.Routing.Sanitize()
	c.Places.Sanitize()
	c.Cache.Sanitize()
	c.Observability.Sanitize()

	// Check NODE_ENV for dev mode
	c.detectDevMode()
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}

// UsesPostgres reports whether a PostgreSQL connection is required at startup.
func (c *AppConfig) UsesPostgres() bool {
	return c.Places.Backend == PlacesBackendPostgres
}
