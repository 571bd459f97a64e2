package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	domainauth "github.com/target/placesmap/internal/domain/auth"
	apperrors "github.com/target/placesmap/internal/errors"
	"github.com/target/placesmap/internal/ports"
	"github.com/target/placesmap/internal/service"
)

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	RequestMagicLink(ctx context.Context, email, redirectURL string) (ports.MagicLinkDispatch, error)
	CompleteLogin(ctx context.Context, in service.CompleteLoginInput) (*domainauth.Session, error)
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

var _ AuthServiceInterface = (*service.AuthService)(nil)

// verifierCookieTTL bounds how long an emailed link can be completed in this browser.
const verifierCookieTTL = 15 * time.Minute

// AuthHandlers serves the magic-link callback, logout and status endpoints.
type AuthHandlers struct {
	Svc          AuthServiceInterface
	CookieDomain string
	// Login renders the login page with an inline message. When nil, callback
	// failures are answered with JSON.
	Login  func(w http.ResponseWriter, r *http.Request, status int, msg string)
	Logger *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Callback completes sign-in from the emailed link.
// GET /auth/callback?code=<code> or ?token_hash=<hash>&type=<type>.
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	// The provider reports failures (expired or reused links) in the query string.
	if desc := q.Get("error_description"); desc != "" || q.Get("error") != "" {
		if desc == "" {
			desc = q.Get("error")
		}
		h.fail(w, r, apperrors.Validation(desc))
		return
	}

	in := service.CompleteLoginInput{
		Code:      q.Get("code"),
		TokenHash: q.Get("token_hash"),
		Type:      q.Get("type"),
	}
	if c, err := r.Cookie(verifierCookieName); err == nil {
		in.CodeVerifier = c.Value
	}

	sess, err := h.Svc.CompleteLogin(r.Context(), in)
	if err != nil {
		h.logger().WarnContext(r.Context(), "login completion failed", "error", err)
		h.fail(w, r, err)
		return
	}

	setSessionCookie(w, r, h.CookieDomain, sess)
	clearCookie(w, r, h.CookieDomain, verifierCookieName)
	http.Redirect(w, r, dashboardPath, http.StatusFound)
}

func (h *AuthHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.StatusCode(err)
	if h.Login != nil {
		h.Login(w, r, status, "Error: "+apperrors.UserMessage(err))
		return
	}
	WriteAppError(w, err)
}

// Logout revokes the session and sends the user back to the login page.
// POST /auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if sessionCookie, err := r.Cookie(sessionCookieName); err == nil {
		if logoutErr := h.Svc.Logout(r.Context(), sessionCookie.Value); logoutErr != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", logoutErr)
		}
	}
	clearCookie(w, r, h.CookieDomain, sessionCookieName)

	target := loginPath + "?signed_out=1"
	if IsHTMX(r) {
		HTMX(w).Redirect(target)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

type authStatusUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type authStatus struct {
	Authenticated bool            `json:"authenticated"`
	User          *authStatusUser `json:"user,omitempty"`
	ExpiresAt     *time.Time      `json:"expires_at,omitempty"`
}

// Status returns the current authentication status.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	sessionCookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		WriteJSON(w, http.StatusOK, authStatus{})
		return
	}

	session, err := h.Svc.GetSession(r.Context(), sessionCookie.Value)
	if err != nil {
		clearCookie(w, r, h.CookieDomain, sessionCookieName)
		WriteJSON(w, http.StatusOK, authStatus{})
		return
	}

	out := authStatus{
		Authenticated: true,
		User:          &authStatusUser{ID: session.UserID, Email: session.Email},
	}
	if !session.ExpiresAt.IsZero() {
		out.ExpiresAt = &session.ExpiresAt
	}
	WriteJSON(w, http.StatusOK, out)
}

// setSessionCookie stores the session ID; the cookie expires with the session.
func setSessionCookie(w http.ResponseWriter, r *http.Request, domain string, sess *domainauth.Session) {
	c := &http.Cookie{
		Name:     sessionCookieName,
		Value:    sess.ID,
		Path:     "/",
		Domain:   domain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	}
	if !sess.ExpiresAt.IsZero() {
		c.Expires = sess.ExpiresAt.UTC()
	}
	http.SetCookie(w, c)
}

// setVerifierCookie keeps the PKCE verifier until the emailed link comes back
// to this browser. Lax so the top-level navigation from the mail client carries it.
func setVerifierCookie(w http.ResponseWriter, r *http.Request, domain, verifier string) {
	http.SetCookie(w, &http.Cookie{
		Name:     verifierCookieName,
		Value:    verifier,
		Path:     "/auth",
		Domain:   domain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(verifierCookieTTL / time.Second),
	})
}

// clearCookie expires a cookie, mirroring the attributes it was set with.
func clearCookie(w http.ResponseWriter, r *http.Request, domain, name string) {
	path := "/"
	if name == verifierCookieName {
		path = "/auth"
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		Domain:   domain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}
