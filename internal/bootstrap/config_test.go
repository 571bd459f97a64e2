package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/placesmap/config"
)

func validConfig() config.AppConfig {
	return config.AppConfig{
		HTTP:     config.HTTPConfig{BaseURL: "http://localhost:8080"},
		Auth:     config.AuthConfig{Mode: config.AuthModeSupabase},
		Places:   config.PlacesConfig{Backend: config.PlacesBackendSupabase},
		Postgres: config.DBConfig{Host: "localhost", Name: "placesmap"},
	}
}

func TestValidateServiceConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.AppConfig)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*config.AppConfig) {}},
		{
			name:    "relative base url",
			mutate:  func(c *config.AppConfig) { c.HTTP.BaseURL = "/app" },
			wantErr: "APP_BASE_URL",
		},
		{
			name: "postgres without host",
			mutate: func(c *config.AppConfig) {
				c.Places.Backend = config.PlacesBackendPostgres
				c.Postgres.Host = ""
			},
			wantErr: "DB_HOST",
		},
		{
			name: "mock auth with hosted places",
			mutate: func(c *config.AppConfig) {
				c.Auth.Mode = config.AuthModeMock
			},
			wantErr: "AUTH_MODE=mock",
		},
		{
			name: "mock auth with postgres",
			mutate: func(c *config.AppConfig) {
				c.Auth.Mode = config.AuthModeMock
				c.Places.Backend = config.PlacesBackendPostgres
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := ValidateServiceConfig(&cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}

	assert.Error(t, ValidateServiceConfig(nil))
}

func TestConfigWarnings(t *testing.T) {
	cfg := validConfig()
	warnings := ConfigWarnings(&cfg)
	assert.Len(t, warnings, 2, "missing ORS key and supabase credentials")

	cfg.Routing.APIKey = "key"
	cfg.Supabase = config.SupabaseConfig{URL: "https://x.supabase.co", AnonKey: "anon"}
	warnings = ConfigWarnings(&cfg)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "SUPABASE_JWT_SECRET")

	cfg.Supabase.JWTSecret = "s3cret"
	assert.Empty(t, ConfigWarnings(&cfg))

	cfg.Auth.Mode = config.AuthModeMock
	cfg.Places.Backend = config.PlacesBackendPostgres
	assert.Len(t, ConfigWarnings(&cfg), 1)

	cfg.IsDev = true
	assert.Empty(t, ConfigWarnings(&cfg))
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("APP_BASE_URL", "https://places.example.com/")
	t.Setenv("PLACES_BACKEND", "postgres")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := LoadConfig()

	assert.NoError(t, err)
	assert.Equal(t, "https://places.example.com", cfg.HTTP.BaseURL)
	assert.True(t, cfg.UsesPostgres())
	assert.Equal(t, "debug", cfg.Observability.LogLevel)
}
