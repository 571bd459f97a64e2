package devauth

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/target/placesmap/internal/errors"
	"github.com/target/placesmap/internal/ports"
)

func issue(t *testing.T, prov *Provider, email string) (code, verifier string) {
	t.Helper()
	out, err := prov.SendMagicLink(context.Background(), ports.MagicLinkInput{
		Email:       email,
		RedirectURL: "http://localhost:8080/auth/callback",
	})
	if err != nil {
		t.Fatalf("SendMagicLink error: %v", err)
	}
	link := prov.LastLink()
	if !strings.HasPrefix(link, "http://localhost:8080/auth/callback?") {
		t.Fatalf("unexpected link: %s", link)
	}
	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parse link: %v", err)
	}
	return u.Query().Get("code"), out.CodeVerifier
}

func TestProvider_SendAndExchange(t *testing.T) {
	prov, err := NewProvider(Config{})
	if err != nil {
		t.Fatalf("NewProvider error: %v", err)
	}
	code, verifier := issue(t, prov, " Ana@Example.com ")
	if code == "" || verifier == "" {
		t.Fatal("code and verifier should be generated")
	}

	id, err := prov.Exchange(context.Background(), ports.ExchangeInput{Code: code, CodeVerifier: verifier})
	if err != nil {
		t.Fatalf("Exchange error: %v", err)
	}
	if id.Email != "ana@example.com" {
		t.Fatalf("unexpected email: %q", id.Email)
	}
	if _, err := uuid.Parse(id.UserID); err != nil {
		t.Fatalf("user id should be a uuid: %v", err)
	}
	if id.AccessToken == "" || id.ExpiresAt.IsZero() {
		t.Fatalf("unexpected identity: %+v", id)
	}

	// Same address maps to the same user.
	code2, verifier2 := issue(t, prov, "ana@example.com")
	id2, err := prov.Exchange(context.Background(), ports.ExchangeInput{Code: code2, CodeVerifier: verifier2})
	if err != nil {
		t.Fatalf("Exchange error: %v", err)
	}
	if id2.UserID != id.UserID {
		t.Fatalf("expected stable user id, got %q and %q", id.UserID, id2.UserID)
	}
}

func TestProvider_CodeIsSingleUse(t *testing.T) {
	prov, _ := NewProvider(Config{})
	code, verifier := issue(t, prov, "ana@example.com")

	if _, err := prov.Exchange(context.Background(), ports.ExchangeInput{Code: code, CodeVerifier: verifier}); err != nil {
		t.Fatalf("first exchange: %v", err)
	}
	_, err := prov.Exchange(context.Background(), ports.ExchangeInput{Code: code, CodeVerifier: verifier})
	if !apperrors.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized on reuse, got %v", err)
	}
}

func TestProvider_RejectsWrongVerifierAndExpiredLinks(t *testing.T) {
	prov, _ := NewProvider(Config{})
	code, _ := issue(t, prov, "ana@example.com")
	if _, err := prov.Exchange(context.Background(), ports.ExchangeInput{Code: code, CodeVerifier: "wrong"}); !apperrors.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized for wrong verifier, got %v", err)
	}

	code, verifier := issue(t, prov, "ana@example.com")
	prov.now = func() time.Time { return time.Now().Add(time.Hour) }
	if _, err := prov.Exchange(context.Background(), ports.ExchangeInput{Code: code, CodeVerifier: verifier}); !apperrors.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized for expired link, got %v", err)
	}
}

func TestProvider_ConfiguredIdentity(t *testing.T) {
	const fixed = "0b8f2c1e-1111-4c3a-9d5e-2f3a4b5c6d7e"
	prov, err := NewProvider(Config{UserID: fixed, Email: "dev@example.com"})
	if err != nil {
		t.Fatalf("NewProvider error: %v", err)
	}

	_, err = prov.SendMagicLink(context.Background(), ports.MagicLinkInput{Email: "other@example.com"})
	if !apperrors.IsValidation(err) {
		t.Fatalf("expected validation error for other address, got %v", err)
	}

	code, verifier := issue(t, prov, "DEV@example.com")
	id, err := prov.Exchange(context.Background(), ports.ExchangeInput{Code: code, CodeVerifier: verifier})
	if err != nil {
		t.Fatalf("Exchange error: %v", err)
	}
	if id.UserID != fixed {
		t.Fatalf("expected pinned user id, got %q", id.UserID)
	}
}

func TestNewProvider_InvalidUserID(t *testing.T) {
	if _, err := NewProvider(Config{UserID: "dev-user"}); err == nil {
		t.Fatal("expected error for non-uuid user id")
	}
}
