package config

import "time"

// DBConfig contains PostgreSQL database configuration.
// Only used when PLACES_BACKEND=postgres.
type DBConfig struct {
	Host     string `env:"HOST"                    envDefault:"localhost"`
	Port     int    `env:"PORT"                    envDefault:"5432"`
	User     string `env:"USER"                    envDefault:"placesmap"`
	Password string `env:"PASSWORD"                envDefault:"placesmap"`
	Name     string `env:"NAME"                    envDefault:"placesmap"`
	SSLMode  string `env:"SSL_MODE"                envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
	// RunMigrationsOnStart controls whether the application automatically applies migrations during startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	SentinelPort       string   `env:"SENTINEL_PORT"        envDefault:"26379"`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
}

// CacheConfig contains Redis-backed cache configuration.
type CacheConfig struct {
	// GeocodeTTL is how long geocode lookups are cached. Zero disables the cache.
	GeocodeTTL time.Duration `env:"GEOCODE_CACHE_TTL" envDefault:"24h"`
}

// Sanitize clamps negative TTLs to zero (disabled).
func (c *CacheConfig) Sanitize() {
	if c.GeocodeTTL < 0 {
		c.GeocodeTTL = 0
	}
}
