package config

import (
	"strings"
	"time"
)

const defaultORSBaseURL = "https://api.openrouteservice.org"

// RoutingConfig configures the OpenRouteService client backing the geocode
// and directions proxies.
type RoutingConfig struct {
	// APIKey is the server-held OpenRouteService key (ORS_API_KEY).
	APIKey string `env:"API_KEY"`

	BaseURL string        `env:"BASE_URL" envDefault:"https://api.openrouteservice.org"`
	Profile string        `env:"PROFILE"  envDefault:"driving-car"`
	Timeout time.Duration `env:"TIMEOUT"  envDefault:"15s"`
}

// Sanitize trims values and restores defaults for blank fields.
func (r *RoutingConfig) Sanitize() {
	r.APIKey = strings.TrimSpace(r.APIKey)
	r.BaseURL = strings.TrimRight(strings.TrimSpace(r.BaseURL), "/")
	if r.BaseURL == "" {
		r.BaseURL = defaultORSBaseURL
	}
	r.Profile = strings.TrimSpace(r.Profile)
	if r.Profile == "" {
		r.Profile = "driving-car"
	}
	if r.Timeout <= 0 {
		r.Timeout = 15 * time.Second
	}
}
