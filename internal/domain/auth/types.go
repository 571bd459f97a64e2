package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import "time"

// Identity represents the authenticated principal returned by the auth provider
// once a magic link has been confirmed.
type Identity struct {
	UserID       string // provider user id (Supabase auth.users.id)
	Email        string
	AccessToken  string // bearer token used for row-level-secured storage calls
	RefreshToken string
	ExpiresAt    time.Time // absolute expiry of AccessToken
}

// Session is the server-side record we persist for an authenticated user.
// ID is an opaque session identifier stored in the session cookie.
type Session struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	AccessToken string    `json:"access_token,omitempty"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at now.
// A zero ExpiresAt never expires.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// Principal is the storage-facing view of a session: who owns the rows and
// the credential to present to row-level-secured stores.
type Principal struct {
	UserID      string
	AccessToken string
}

// Principal returns the storage principal for this session.
func (s Session) Principal() Principal {
	return Principal{UserID: s.UserID, AccessToken: s.AccessToken}
}
