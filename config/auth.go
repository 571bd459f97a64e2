package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeSupabase uses Supabase passwordless email (magic link) sign-in.
	AuthModeSupabase AuthMode = "supabase"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "supabase", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: supabase, mock)", v)
	}
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	// UserID pins every mock sign-in to one user id. When empty, ids are
	// derived from the email address.
	UserID string `env:"USER_ID" envDefault:""`
	// Email, when set, is the only address mock sign-in accepts.
	Email string `env:"EMAIL" envDefault:""`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"supabase"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// SessionTTL caps how long a server-side session lives when the provider
	// does not report an expiry.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"1h"`
}

// SupabaseConfig identifies the hosted Supabase project used for sign-in and,
// optionally, for storing places.
type SupabaseConfig struct {
	URL     string `env:"URL"`
	AnonKey string `env:"ANON_KEY"`

	// JWTSecret enables local HS256 verification of access tokens. When empty,
	// asymmetric tokens are verified against the project's JWKS endpoint and
	// HS256 tokens are confirmed with GoTrue's /auth/v1/user.
	JWTSecret string `env:"JWT_SECRET"`

	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// Sanitize normalizes the project URL and falls back to the NEXT_PUBLIC_*
// names browser clients are usually configured with.
func (s *SupabaseConfig) Sanitize() {
	if strings.TrimSpace(s.URL) == "" {
		s.URL = os.Getenv("NEXT_PUBLIC_SUPABASE_URL")
	}
	if strings.TrimSpace(s.AnonKey) == "" {
		s.AnonKey = os.Getenv("NEXT_PUBLIC_SUPABASE_ANON_KEY")
	}
	s.URL = strings.TrimRight(strings.TrimSpace(s.URL), "/")
	s.AnonKey = strings.TrimSpace(s.AnonKey)
	s.JWTSecret = strings.TrimSpace(s.JWTSecret)
	if s.Timeout <= 0 {
		s.Timeout = 10 * time.Second
	}
}

// IsConfigured reports whether both the project URL and anon key are set.
func (s *SupabaseConfig) IsConfigured() bool {
	return s.URL != "" && s.AnonKey != ""
}
