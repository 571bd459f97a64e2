package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"

	"github.com/target/placesmap/internal/ports"
)

// defaultAudience is the aud claim GoTrue puts in signed-in users' tokens.
const defaultAudience = "authenticated"

// VerifierConfig selects how access tokens are checked.
type VerifierConfig struct {
	Issuer string
	// JWTSecret selects HS256 verification with the project's shared secret.
	JWTSecret string
	// JWKSURL is used when JWTSecret is empty (asymmetric signing keys).
	JWKSURL    string
	Audience   string
	HTTPClient *http.Client
	// UserLookup confirms tokens signed with a shared secret by asking GoTrue
	// for the token's user, for projects whose JWT secret is not configured here.
	UserLookup *Client
}

// NewTokenVerifier returns an HS256 verifier when a JWT secret is configured,
// otherwise a JWKS-backed verifier. With a UserLookup client, tokens the JWKS
// cannot check (HS256) are confirmed against GoTrue instead.
func NewTokenVerifier(cfg VerifierConfig) (ports.TokenVerifier, error) {
	if strings.TrimSpace(cfg.Issuer) == "" {
		return nil, errors.New("token verifier: issuer is required")
	}
	aud := cfg.Audience
	if aud == "" {
		aud = defaultAudience
	}
	if cfg.JWTSecret != "" {
		return &hmacVerifier{secret: []byte(cfg.JWTSecret), issuer: cfg.Issuer, audience: aud}, nil
	}
	if strings.TrimSpace(cfg.JWKSURL) == "" {
		return nil, errors.New("token verifier: JWKS URL or JWT secret is required")
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	keySet := gooidc.NewRemoteKeySet(gooidc.ClientContext(context.Background(), hc), cfg.JWKSURL)
	jwks := &jwksVerifier{
		verifier: gooidc.NewVerifier(cfg.Issuer, keySet, &gooidc.Config{
			ClientID:             aud,
			SupportedSigningAlgs: asymmetricAlgs,
		}),
	}
	if cfg.UserLookup == nil {
		return jwks, nil
	}
	return &algVerifier{jwks: jwks, shared: &userVerifier{client: cfg.UserLookup}}, nil
}

var asymmetricAlgs = []string{gooidc.RS256, gooidc.ES256}

// hmacVerifier validates HS256 tokens signed with the project JWT secret.
type hmacVerifier struct {
	secret   []byte
	issuer   string
	audience string
}

func (v *hmacVerifier) Verify(_ context.Context, accessToken string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(accessToken, claims,
		func(*jwt.Token) (any, error) { return v.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("verify access token: %w", err)
	}
	if claims.Subject == "" {
		return "", errors.New("verify access token: missing subject")
	}
	return claims.Subject, nil
}

// jwksVerifier validates asymmetrically signed tokens against the project's JWKS.
type jwksVerifier struct {
	verifier *gooidc.IDTokenVerifier
}

func (v *jwksVerifier) Verify(ctx context.Context, accessToken string) (string, error) {
	tok, err := v.verifier.Verify(ctx, accessToken)
	if err != nil {
		return "", fmt.Errorf("verify access token: %w", err)
	}
	if tok.Subject == "" {
		return "", errors.New("verify access token: missing subject")
	}
	return tok.Subject, nil
}

// algVerifier routes a token by its header alg: asymmetric tokens go to the
// JWKS, everything else to the shared-secret fallback.
type algVerifier struct {
	jwks   ports.TokenVerifier
	shared ports.TokenVerifier
}

func (v *algVerifier) Verify(ctx context.Context, accessToken string) (string, error) {
	alg, err := tokenAlg(accessToken)
	if err != nil {
		return "", err
	}
	if slices.Contains(asymmetricAlgs, alg) {
		return v.jwks.Verify(ctx, accessToken)
	}
	return v.shared.Verify(ctx, accessToken)
}

// tokenAlg reads the alg header without checking the signature.
func tokenAlg(accessToken string) (string, error) {
	tok, _, err := jwt.NewParser().ParseUnverified(accessToken, jwt.MapClaims{})
	if err != nil && !errors.Is(err, jwt.ErrTokenUnverifiable) {
		return "", fmt.Errorf("verify access token: %w", err)
	}
	alg, _ := tok.Header["alg"].(string)
	if alg == "" {
		return "", errors.New("verify access token: missing alg header")
	}
	return alg, nil
}

// userVerifier asks GoTrue who the token belongs to; GoTrue checks the
// signature with the project secret.
type userVerifier struct {
	client *Client
}

func (v *userVerifier) Verify(ctx context.Context, accessToken string) (string, error) {
	res, err := v.client.call(ctx, request{
		op:     "user",
		method: http.MethodGet,
		path:   "/auth/v1/user",
		bearer: accessToken,
	})
	if err != nil {
		return "", fmt.Errorf("verify access token: %w", err)
	}
	if !res.ok() {
		return "", fmt.Errorf("verify access token: %w", authError(res))
	}
	var user struct {
		ID string `json:"id"`
	}
	if err := res.decode(&user); err != nil {
		return "", fmt.Errorf("verify access token: %w", err)
	}
	if user.ID == "" {
		return "", errors.New("verify access token: missing subject")
	}
	return user.ID, nil
}
