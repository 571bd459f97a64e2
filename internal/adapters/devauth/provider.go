package devauth

// Package devauth provides a config-driven AuthProvider for local development.
// No email is sent: the sign-in link is logged and returned to the caller.

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/target/placesmap/internal/domain/auth"
	apperrors "github.com/target/placesmap/internal/errors"
	"github.com/target/placesmap/internal/ports"
)

var _ ports.AuthProvider = (*Provider)(nil)

const (
	defaultSessionDuration = 8 * time.Hour
	linkTTL                = 15 * time.Minute
)

// Config controls the dev auth provider behavior. All fields are optional.
type Config struct {
	// UserID pins every sign-in to one user id; otherwise ids are derived
	// from the email so the same address always maps to the same user.
	UserID string
	// Email, when set, is the only address accepted.
	Email           string
	SessionDuration time.Duration // default 8h when zero
	Logger          *slog.Logger
}

type pendingLink struct {
	email    string
	verifier string
	expires  time.Time
}

// Provider implements ports.AuthProvider for local development.
// SendMagicLink logs a link back to our own callback; Exchange accepts each
// issued code once.
type Provider struct {
	cfg    Config
	logger *slog.Logger
	now    func() time.Time

	mu      sync.Mutex
	pending map[string]pendingLink
	// lastLink is the most recently issued sign-in URL.
	lastLink string
}

// NewProvider constructs a dev auth provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.UserID != "" {
		if _, err := uuid.Parse(cfg.UserID); err != nil {
			return nil, fmt.Errorf("dev auth: UserID must be a UUID: %w", err)
		}
	}
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = defaultSessionDuration
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		cfg:     cfg,
		logger:  logger.With("component", "devauth"),
		now:     time.Now,
		pending: make(map[string]pendingLink),
	}, nil
}

// SendMagicLink issues a one-time code and logs the sign-in URL.
func (p *Provider) SendMagicLink(ctx context.Context, in ports.MagicLinkInput) (ports.MagicLinkDispatch, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if p.cfg.Email != "" && !strings.EqualFold(email, p.cfg.Email) {
		return ports.MagicLinkDispatch{}, apperrors.Validation("Signups not allowed for this instance")
	}

	code, err := randomString(32)
	if err != nil {
		return ports.MagicLinkDispatch{}, fmt.Errorf("generate code: %w", err)
	}
	verifier, err := randomString(43)
	if err != nil {
		return ports.MagicLinkDispatch{}, fmt.Errorf("generate verifier: %w", err)
	}

	link := callbackURL(in.RedirectURL, code)

	p.mu.Lock()
	p.prune()
	p.pending[code] = pendingLink{email: email, verifier: verifier, expires: p.now().Add(linkTTL)}
	p.lastLink = link
	p.mu.Unlock()

	p.logger.InfoContext(ctx, "dev magic link issued", "email", email, "link", link)
	return ports.MagicLinkDispatch{CodeVerifier: verifier}, nil
}

// Exchange redeems a code issued by SendMagicLink.
func (p *Provider) Exchange(_ context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if in.Code == "" {
		return domainauth.Identity{}, apperrors.Validation("missing code")
	}

	p.mu.Lock()
	link, ok := p.pending[in.Code]
	delete(p.pending, in.Code)
	p.mu.Unlock()

	if !ok || p.now().After(link.expires) {
		return domainauth.Identity{}, apperrors.Unauthorized("El enlace de inicio de sesión ha caducado o ya se usó.")
	}
	if subtle.ConstantTimeCompare([]byte(link.verifier), []byte(in.CodeVerifier)) != 1 {
		return domainauth.Identity{}, apperrors.Unauthorized("El enlace de inicio de sesión ha caducado o ya se usó.")
	}

	token, err := randomString(32)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("generate token: %w", err)
	}
	return domainauth.Identity{
		UserID:      p.userID(link.email),
		Email:       link.email,
		AccessToken: "dev-" + token,
		ExpiresAt:   p.now().Add(p.cfg.SessionDuration),
	}, nil
}

// SignOut is a no-op; dev tokens are not tracked.
func (p *Provider) SignOut(context.Context, string) error { return nil }

// LastLink returns the most recently issued sign-in URL.
func (p *Provider) LastLink() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastLink
}

func (p *Provider) userID(email string) string {
	if p.cfg.UserID != "" {
		return p.cfg.UserID
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+email)).String()
}

// prune drops expired links. Callers hold mu.
func (p *Provider) prune() {
	now := p.now()
	for code, l := range p.pending {
		if now.After(l.expires) {
			delete(p.pending, code)
		}
	}
}

func callbackURL(redirect, code string) string {
	if redirect == "" {
		redirect = "/auth/callback"
	}
	u, err := url.Parse(redirect)
	if err != nil {
		return "/auth/callback?code=" + url.QueryEscape(code)
	}
	q := u.Query()
	q.Set("code", code)
	u.RawQuery = q.Encode()
	return u.String()
}

func randomString(n int) (string, error) {
	if n <= 0 {
		return "", errors.New("length must be positive")
	}
	b := make([]byte, (n*3+3)/4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	s := base64.RawURLEncoding.EncodeToString(b)
	return s[:n], nil
}
