package config

import (
	"fmt"
	"strings"
)

// PlacesBackend selects where saved places are persisted.
type PlacesBackend string

const (
	// PlacesBackendSupabase stores places in the Supabase "places" table through PostgREST.
	PlacesBackendSupabase PlacesBackend = "supabase"
	// PlacesBackendPostgres stores places in a directly connected PostgreSQL database.
	PlacesBackendPostgres PlacesBackend = "postgres"
)

// UnmarshalText implements encoding.TextUnmarshaler for PlacesBackend.
func (p *PlacesBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "supabase", "postgres":
		*p = PlacesBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid PlacesBackend: %q (valid options: supabase, postgres)", v)
	}
}

// PlacesConfig controls the places storage backend.
type PlacesConfig struct {
	Backend PlacesBackend `env:"PLACES_BACKEND" envDefault:"supabase"`

	// Table is the PostgREST resource name used by the supabase backend.
	Table string `env:"PLACES_TABLE" envDefault:"places"`
}

// Sanitize restores the default table name when blank.
func (p *PlacesConfig) Sanitize() {
	p.Table = strings.TrimSpace(p.Table)
	if p.Table == "" {
		p.Table = "places"
	}
	if p.Backend == "" {
		p.Backend = PlacesBackendSupabase
	}
}
