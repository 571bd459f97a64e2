package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/target/placesmap/internal/domain/auth"
	apperrors "github.com/target/placesmap/internal/errors"
	"github.com/target/placesmap/internal/ports"
)

const defaultSessionTTL = time.Hour

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider ports.AuthProvider
	Sessions ports.SessionStore
	// SessionTTL applies when the provider reports no token expiry.
	SessionTTL time.Duration
}

// AuthService orchestrates passwordless sign-in by coordinating the auth
// provider and session persistence.
type AuthService struct {
	provider   ports.AuthProvider
	sessions   ports.SessionStore
	sessionTTL time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

var errSessionExpired = errors.New("session expired")

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &AuthService{
		provider:   opts.Provider,
		sessions:   opts.Sessions,
		sessionTTL: ttl,
		logger:     slog.Default().With("component", "auth_service"),
		now:        time.Now,
	}
}

// RequestMagicLink validates email and asks the provider to send a sign-in
// link returning to redirectURL. The returned verifier must be presented on
// completion.
func (s *AuthService) RequestMagicLink(ctx context.Context, email, redirectURL string) (ports.MagicLinkDispatch, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil || addr.Name != "" {
		return ports.MagicLinkDispatch{}, apperrors.ValidationField("email", "Introduce un email válido.")
	}
	if redirectURL == "" {
		return ports.MagicLinkDispatch{}, errors.New("redirect URL is required")
	}

	out, err := s.provider.SendMagicLink(ctx, ports.MagicLinkInput{
		Email:       strings.ToLower(addr.Address),
		RedirectURL: redirectURL,
	})
	if err != nil {
		return ports.MagicLinkDispatch{}, fmt.Errorf("send magic link: %w", err)
	}
	return out, nil
}

// CompleteLoginInput groups the parameters the emailed link returns with.
type CompleteLoginInput struct {
	Code         string
	CodeVerifier string
	TokenHash    string
	Type         string
}

// CompleteLogin exchanges the link parameters for an identity and persists a session.
func (s *AuthService) CompleteLogin(ctx context.Context, in CompleteLoginInput) (*domainauth.Session, error) {
	if in.Code == "" && in.TokenHash == "" {
		return nil, apperrors.Validation("El enlace de inicio de sesión no es válido.")
	}

	identity, err := s.provider.Exchange(ctx, ports.ExchangeInput{
		Code:         in.Code,
		CodeVerifier: in.CodeVerifier,
		TokenHash:    in.TokenHash,
		Type:         in.Type,
	})
	if err != nil {
		return nil, fmt.Errorf("exchange magic link: %w", err)
	}

	expires := identity.ExpiresAt
	if expires.IsZero() {
		expires = s.now().Add(s.sessionTTL)
	}
	sess := domainauth.Session{
		ID:          uuid.NewString(),
		UserID:      identity.UserID,
		Email:       identity.Email,
		AccessToken: identity.AccessToken,
		ExpiresAt:   expires,
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return &sess, nil
}

// GetSession retrieves a live session by ID. Expired sessions are deleted.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if sess.Expired(s.now()) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(errSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, errSessionExpired
	}
	return &sess, nil
}

// Logout revokes the provider session and removes ours. Provider failures are
// logged; the local session is removed regardless.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	if sess, err := s.sessions.Get(ctx, sessionID); err == nil && sess.AccessToken != "" {
		if signOutErr := s.provider.SignOut(ctx, sess.AccessToken); signOutErr != nil {
			s.logger.WarnContext(ctx, "provider sign-out failed", "error", signOutErr)
		}
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
