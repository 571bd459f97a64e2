package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/target/placesmap/config"
)

// InitLogger initializes the structured logger.
func InitLogger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)
	return logger
}

// ConfigureLogger rebuilds the default logger once configuration is known:
// level from LOG_LEVEL, source locations in development.
func ConfigureLogger(cfg *config.AppConfig) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     cfg.Observability.SlogLevel(),
		AddSource: cfg.IsDev,
	}))
	slog.SetDefault(logger)
	return logger
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (config.AppConfig, error) {
	// Load .env file if it exists (development)
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return config.AppConfig{}, fmt.Errorf("load .env file: %w", err)
		}
	}

	var cfg config.AppConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.Sanitize()
	return cfg, nil
}

// ValidateServiceConfig rejects configurations the server cannot start with.
// Missing provider credentials are not fatal; the affected features report
// the problem per request.
func ValidateServiceConfig(cfg *config.AppConfig) error {
	if cfg == nil {
		return errors.New("service config is required")
	}

	u, err := url.Parse(cfg.HTTP.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid APP_BASE_URL %q: must be an absolute URL", cfg.HTTP.BaseURL)
	}

	if cfg.UsesPostgres() {
		if strings.TrimSpace(cfg.Postgres.Host) == "" || strings.TrimSpace(cfg.Postgres.Name) == "" {
			return errors.New("PLACES_BACKEND=postgres requires DB_HOST and DB_NAME")
		}
	}

	if cfg.Auth.Mode == config.AuthModeMock && cfg.Places.Backend == config.PlacesBackendSupabase {
		return errors.New("AUTH_MODE=mock cannot be combined with PLACES_BACKEND=supabase: mock sessions carry no Supabase access token")
	}

	return nil
}

// ConfigWarnings lists non-fatal configuration gaps worth logging at startup.
func ConfigWarnings(cfg *config.AppConfig) []string {
	if cfg == nil {
		return nil
	}
	var warnings []string
	if cfg.Routing.APIKey == "" {
		warnings = append(warnings, "ORS_API_KEY is not set; geocoding and directions will fail")
	}
	needsSupabase := cfg.Auth.Mode == config.AuthModeSupabase || cfg.Places.Backend == config.PlacesBackendSupabase
	if needsSupabase && !cfg.Supabase.IsConfigured() {
		warnings = append(warnings, "SUPABASE_URL or SUPABASE_ANON_KEY is not set; sign-in and hosted places are unavailable")
	}
	if cfg.Auth.Mode == config.AuthModeSupabase && cfg.Supabase.IsConfigured() && cfg.Supabase.JWTSecret == "" {
		warnings = append(warnings, "SUPABASE_JWT_SECRET is not set; HS256 access tokens are confirmed with GoTrue on every sign-in")
	}
	if cfg.Auth.Mode == config.AuthModeMock && !cfg.IsDev {
		warnings = append(warnings, "AUTH_MODE=mock outside development: any email can sign in")
	}
	return warnings
}
