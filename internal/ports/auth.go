package ports

// Package ports defines interfaces (hexagonal ports) between the services and
// their collaborators. Implementations live in internal/adapters and
// internal/data; orchestration in internal/service.

import (
	"context"

	domainauth "github.com/target/placesmap/internal/domain/auth"
)

// MagicLinkInput carries inputs for dispatching a passwordless sign-in link.
type MagicLinkInput struct {
	Email string
	// RedirectURL is where the emailed link sends the browser after confirmation.
	RedirectURL string
}

// MagicLinkDispatch is returned once the provider accepted the request.
type MagicLinkDispatch struct {
	// CodeVerifier is the PKCE verifier that must be presented when the link is
	// exchanged. Empty when the provider does not use PKCE.
	CodeVerifier string
}

// ExchangeInput groups parameters for completing a magic-link sign-in. Exactly
// one of Code (PKCE) or TokenHash (verify) is expected.
type ExchangeInput struct {
	Code         string
	CodeVerifier string
	TokenHash    string
	Type         string
}

// AuthProvider dispatches passwordless sign-in links and completes them.
type AuthProvider interface {
	// SendMagicLink asks the provider to email a one-time sign-in link.
	SendMagicLink(ctx context.Context, in MagicLinkInput) (MagicLinkDispatch, error)

	// Exchange completes the sign-in from the link's parameters and returns the authenticated identity.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)

	// SignOut revokes the provider session tied to accessToken.
	SignOut(ctx context.Context, accessToken string) error
}

// TokenVerifier validates provider access tokens and returns the subject.
type TokenVerifier interface {
	Verify(ctx context.Context, accessToken string) (userID string, err error)
}

// SessionStore persists and retrieves user sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}
