package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	domainauth "github.com/target/placesmap/internal/domain/auth"
	apperrors "github.com/target/placesmap/internal/errors"
	"github.com/target/placesmap/internal/ports"
)

var _ ports.AuthProvider = (*AuthProvider)(nil)

// AuthProvider implements ports.AuthProvider with GoTrue's one-time-link (OTP)
// flow using PKCE: the code verifier is kept by our server (in a cookie) and
// the emailed link returns to our callback with ?code=.
type AuthProvider struct {
	client   *Client
	verifier ports.TokenVerifier
	now      func() time.Time
}

// NewAuthProvider builds an AuthProvider. verifier may be nil, in which case
// access tokens returned by GoTrue are trusted as-is.
func NewAuthProvider(client *Client, verifier ports.TokenVerifier) *AuthProvider {
	return &AuthProvider{client: client, verifier: verifier, now: time.Now}
}

type otpRequest struct {
	Email               string `json:"email"`
	CreateUser          bool   `json:"create_user"`
	CodeChallenge       string `json:"code_challenge,omitempty"`
	CodeChallengeMethod string `json:"code_challenge_method,omitempty"`
}

// SendMagicLink asks GoTrue to email a sign-in link that redirects to in.RedirectURL.
func (p *AuthProvider) SendMagicLink(ctx context.Context, in ports.MagicLinkInput) (ports.MagicLinkDispatch, error) {
	verifier := oauth2.GenerateVerifier()

	q := url.Values{}
	if in.RedirectURL != "" {
		q.Set("redirect_to", in.RedirectURL)
	}
	res, err := p.client.call(ctx, request{
		op:     "otp",
		method: http.MethodPost,
		path:   "/auth/v1/otp",
		query:  q,
		body: otpRequest{
			Email:               in.Email,
			CreateUser:          true,
			CodeChallenge:       oauth2.S256ChallengeFromVerifier(verifier),
			CodeChallengeMethod: "s256",
		},
	})
	if err != nil {
		return ports.MagicLinkDispatch{}, apperrors.Wrap(err, apperrors.ErrCodeUpstream, "No se pudo contactar con el servicio de autenticación.")
	}
	if !res.ok() {
		return ports.MagicLinkDispatch{}, authError(res)
	}
	return ports.MagicLinkDispatch{CodeVerifier: verifier}, nil
}

type sessionResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// Exchange completes the sign-in either from a PKCE code (with its verifier)
// or from a token_hash link.
func (p *AuthProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	var req request
	switch {
	case in.Code != "":
		if in.CodeVerifier == "" {
			return domainauth.Identity{}, apperrors.Unauthorized("El enlace de inicio de sesión ha caducado o ya se usó.")
		}
		req = request{
			op:     "token",
			method: http.MethodPost,
			path:   "/auth/v1/token",
			query:  url.Values{"grant_type": {"pkce"}},
			body:   map[string]string{"auth_code": in.Code, "code_verifier": in.CodeVerifier},
		}
	case in.TokenHash != "":
		typ := in.Type
		if typ == "" {
			typ = "email"
		}
		req = request{
			op:     "verify",
			method: http.MethodPost,
			path:   "/auth/v1/verify",
			body:   map[string]string{"type": typ, "token_hash": in.TokenHash},
		}
	default:
		return domainauth.Identity{}, apperrors.Validation("missing code or token_hash")
	}

	res, err := p.client.call(ctx, req)
	if err != nil {
		return domainauth.Identity{}, apperrors.Wrap(err, apperrors.ErrCodeUpstream, "No se pudo contactar con el servicio de autenticación.")
	}
	if !res.ok() {
		return domainauth.Identity{}, authError(res)
	}

	var sess sessionResponse
	if err := res.decode(&sess); err != nil {
		return domainauth.Identity{}, apperrors.Wrap(err, apperrors.ErrCodeUpstream, "Respuesta inválida del servicio de autenticación.")
	}
	return p.identityFrom(ctx, sess)
}

func (p *AuthProvider) identityFrom(ctx context.Context, sess sessionResponse) (domainauth.Identity, error) {
	if sess.AccessToken == "" || sess.User.ID == "" {
		return domainauth.Identity{}, apperrors.Upstream("Respuesta inválida del servicio de autenticación.")
	}
	if p.verifier != nil {
		sub, err := p.verifier.Verify(ctx, sess.AccessToken)
		if err != nil {
			return domainauth.Identity{}, apperrors.Wrap(err, apperrors.ErrCodeUnauthorized, "Token de acceso no válido.")
		}
		if sub != sess.User.ID {
			return domainauth.Identity{}, apperrors.Unauthorized("Token de acceso no válido.")
		}
	}

	var expires time.Time
	switch {
	case sess.ExpiresAt > 0:
		expires = time.Unix(sess.ExpiresAt, 0)
	case sess.ExpiresIn > 0:
		expires = p.now().Add(time.Duration(sess.ExpiresIn) * time.Second)
	}

	return domainauth.Identity{
		UserID:       sess.User.ID,
		Email:        sess.User.Email,
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		ExpiresAt:    expires,
	}, nil
}

// SignOut revokes the GoTrue session behind accessToken. Tokens GoTrue no
// longer recognizes are treated as already signed out.
func (p *AuthProvider) SignOut(ctx context.Context, accessToken string) error {
	if strings.TrimSpace(accessToken) == "" {
		return nil
	}
	res, err := p.client.call(ctx, request{
		op:     "logout",
		method: http.MethodPost,
		path:   "/auth/v1/logout",
		bearer: accessToken,
	})
	if err != nil {
		return fmt.Errorf("supabase logout: %w", err)
	}
	switch {
	case res.ok(), res.status == http.StatusUnauthorized, res.status == http.StatusNotFound, res.status == http.StatusForbidden:
		return nil
	default:
		return authError(res)
	}
}

// authError converts a failed GoTrue response into an AppError carrying the
// provider's message.
func authError(res response) error {
	msg := res.errorMessage()
	if msg == "" {
		msg = http.StatusText(res.status)
	}
	code := apperrors.ErrCodeUpstream
	switch res.status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		code = apperrors.ErrCodeValidation
	case http.StatusUnauthorized, http.StatusForbidden:
		code = apperrors.ErrCodeUnauthorized
	}
	return &apperrors.AppError{Code: code, Message: msg, Status: res.status, Cause: fmt.Errorf("gotrue status %d", res.status)}
}
