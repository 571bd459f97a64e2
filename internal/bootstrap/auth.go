package bootstrap

import (
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/target/placesmap/config"
	"github.com/target/placesmap/internal/adapters/devauth"
	redisadapter "github.com/target/placesmap/internal/adapters/redis"
	"github.com/target/placesmap/internal/adapters/supabase"
	"github.com/target/placesmap/internal/ports"
	"github.com/target/placesmap/internal/service"
)

// AuthConfig contains configuration for auth service.
type AuthConfig struct {
	Auth        config.AuthConfig
	Supabase    config.SupabaseConfig
	Client      *supabase.Client // nil when Supabase is not configured
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildAuthService creates an auth service based on the configured auth mode.
// Returns nil without Redis, since sessions cannot be stored.
func BuildAuthService(cfg AuthConfig) *service.AuthService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.RedisClient == nil {
		logger.Warn("auth service disabled: redis client not configured", "mode", cfg.Auth.Mode)
		return nil
	}

	sessionStore := redisadapter.NewSessionStore(cfg.RedisClient)

	var provider ports.AuthProvider
	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		prov, err := devauth.NewProvider(devauth.Config{
			UserID: cfg.Auth.DevAuth.UserID,
			Email:  cfg.Auth.DevAuth.Email,
			Logger: logger,
		})
		if err != nil {
			logger.Warn("failed to create dev auth provider, auth disabled", "error", err)
			return nil
		}
		provider = prov
	default:
		provider = buildSupabaseProvider(cfg, logger)
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Provider:   provider,
		Sessions:   sessionStore,
		SessionTTL: cfg.Auth.SessionTTL,
	})
}

//nolint:ireturn // falls back to a placeholder provider.
func buildSupabaseProvider(cfg AuthConfig, logger *slog.Logger) ports.AuthProvider {
	if cfg.Client == nil {
		logger.Warn("supabase auth selected but SUPABASE_URL/SUPABASE_ANON_KEY missing; sign-in disabled")
		return unconfiguredAuth{}
	}

	verifier, err := supabase.NewTokenVerifier(supabase.VerifierConfig{
		Issuer:     cfg.Client.Issuer(),
		JWTSecret:  cfg.Supabase.JWTSecret,
		JWKSURL:    cfg.Client.JWKSURL(),
		HTTPClient: cfg.Client.HTTPClient(),
		UserLookup: cfg.Client,
	})
	if err != nil {
		logger.Warn("token verifier unavailable; trusting provider user lookups", "error", err)
		verifier = nil
	}
	return supabase.NewAuthProvider(cfg.Client, verifier)
}
