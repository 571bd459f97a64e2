package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/target/placesmap/internal/domain/auth"
	apperrors "github.com/target/placesmap/internal/errors"
	mocks "github.com/target/placesmap/internal/mocks/auth"
	"github.com/target/placesmap/internal/ports"
)

// mockSessionStore is a test helper for testing session store errors.
type mockSessionStore struct {
	saveFunc   func(context.Context, domainauth.Session) error
	getFunc    func(context.Context, string) (domainauth.Session, error)
	deleteFunc func(context.Context, string) error
}

func (m *mockSessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, sess)
	}
	return nil
}

func (m *mockSessionStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return domainauth.Session{}, nil
}

func (m *mockSessionStore) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func newAuthService(provider ports.AuthProvider, sessions ports.SessionStore) *AuthService {
	return NewAuthService(AuthServiceOptions{Provider: provider, Sessions: sessions, SessionTTL: 2 * time.Hour})
}

func TestAuthService_RequestMagicLink(t *testing.T) {
	provider := mocks.NewMockAuthProvider()
	svc := newAuthService(provider, mocks.NewMemorySessionStore())

	out, err := svc.RequestMagicLink(context.Background(), "  Ana@Example.com ", "http://localhost:8080/auth/callback")
	require.NoError(t, err)
	assert.Equal(t, "verifier-1", out.CodeVerifier)
	require.Len(t, provider.Sent, 1)
	assert.Equal(t, "ana@example.com", provider.Sent[0].Email)
	assert.Equal(t, "http://localhost:8080/auth/callback", provider.Sent[0].RedirectURL)
}

func TestAuthService_RequestMagicLink_InvalidEmail(t *testing.T) {
	provider := mocks.NewMockAuthProvider()
	svc := newAuthService(provider, mocks.NewMemorySessionStore())

	for _, email := range []string{"", "not-an-email", "Ana <ana@example.com>"} {
		_, err := svc.RequestMagicLink(context.Background(), email, "http://x/auth/callback")
		require.Error(t, err, email)
		assert.True(t, apperrors.IsValidation(err), email)
	}
	assert.Empty(t, provider.Sent)
}

func TestAuthService_RequestMagicLink_ProviderError(t *testing.T) {
	provider := &mocks.MockAuthProvider{
		SendFunc: func(context.Context, ports.MagicLinkInput) (ports.MagicLinkDispatch, error) {
			return ports.MagicLinkDispatch{}, apperrors.Upstream("Email rate limit exceeded")
		},
	}
	svc := newAuthService(provider, mocks.NewMemorySessionStore())

	_, err := svc.RequestMagicLink(context.Background(), "ana@example.com", "http://x/auth/callback")
	require.Error(t, err)
	assert.Equal(t, "Email rate limit exceeded", apperrors.UserMessage(err))
}

func TestAuthService_CompleteLogin_PersistsSession(t *testing.T) {
	provider := mocks.NewMockAuthProvider()
	sessions := mocks.NewMemorySessionStore()
	svc := newAuthService(provider, sessions)

	sess, err := svc.CompleteLogin(context.Background(), CompleteLoginInput{Code: "abc", CodeVerifier: "verifier-1"})
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, "mock-user-1", sess.UserID)
	assert.Equal(t, "mock-access-token", sess.AccessToken)
	assert.Equal(t, 1, sessions.Len())

	stored, err := svc.GetSession(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.UserID, stored.UserID)
}

func TestAuthService_CompleteLogin_DefaultsExpiry(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	provider := &mocks.MockAuthProvider{
		ExchangeFunc: func(context.Context, ports.ExchangeInput) (domainauth.Identity, error) {
			return domainauth.Identity{UserID: "u", Email: "u@example.com"}, nil
		},
	}
	svc := newAuthService(provider, mocks.NewMemorySessionStore())
	svc.now = func() time.Time { return now }

	sess, err := svc.CompleteLogin(context.Background(), CompleteLoginInput{TokenHash: "h"})
	require.NoError(t, err)
	assert.Equal(t, now.Add(2*time.Hour), sess.ExpiresAt)
}

func TestAuthService_CompleteLogin_Errors(t *testing.T) {
	svc := newAuthService(mocks.NewMockAuthProvider(), mocks.NewMemorySessionStore())
	_, err := svc.CompleteLogin(context.Background(), CompleteLoginInput{})
	assert.True(t, apperrors.IsValidation(err))

	exchangeErr := apperrors.Unauthorized("El enlace de inicio de sesión ha caducado o ya se usó.")
	provider := &mocks.MockAuthProvider{
		ExchangeFunc: func(context.Context, ports.ExchangeInput) (domainauth.Identity, error) {
			return domainauth.Identity{}, exchangeErr
		},
	}
	svc = newAuthService(provider, mocks.NewMemorySessionStore())
	_, err = svc.CompleteLogin(context.Background(), CompleteLoginInput{Code: "abc"})
	require.ErrorIs(t, err, exchangeErr)

	saveErr := errors.New("redis down")
	svc = newAuthService(mocks.NewMockAuthProvider(), &mockSessionStore{
		saveFunc: func(context.Context, domainauth.Session) error { return saveErr },
	})
	_, err = svc.CompleteLogin(context.Background(), CompleteLoginInput{Code: "abc", CodeVerifier: "v"})
	require.ErrorIs(t, err, saveErr)
}

func TestAuthService_GetSession_ExpiredIsDeleted(t *testing.T) {
	var deleted string
	store := &mockSessionStore{
		getFunc: func(context.Context, string) (domainauth.Session, error) {
			return domainauth.Session{ID: "s1", ExpiresAt: time.Now().Add(-time.Minute)}, nil
		},
		deleteFunc: func(_ context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	svc := newAuthService(mocks.NewMockAuthProvider(), store)

	_, err := svc.GetSession(context.Background(), "s1")
	require.ErrorIs(t, err, errSessionExpired)
	assert.Equal(t, "s1", deleted)

	_, err = svc.GetSession(context.Background(), "")
	require.Error(t, err)
}

func TestAuthService_Logout_RevokesAndDeletes(t *testing.T) {
	provider := mocks.NewMockAuthProvider()
	sessions := mocks.NewMemorySessionStore()
	svc := newAuthService(provider, sessions)
	ctx := context.Background()

	sess, err := svc.CompleteLogin(ctx, CompleteLoginInput{Code: "abc", CodeVerifier: "v"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, sess.ID))
	assert.Equal(t, []string{"mock-access-token"}, provider.SignedOut)
	assert.Equal(t, 0, sessions.Len())

	require.NoError(t, svc.Logout(ctx, ""))
}

func TestAuthService_Logout_ProviderFailureStillDeletes(t *testing.T) {
	provider := mocks.NewMockAuthProvider()
	provider.SignOutFunc = func(context.Context, string) error { return errors.New("gotrue down") }
	sessions := mocks.NewMemorySessionStore()
	svc := newAuthService(provider, sessions)
	ctx := context.Background()

	sess, err := svc.CompleteLogin(ctx, CompleteLoginInput{Code: "abc", CodeVerifier: "v"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, sess.ID))
	assert.Equal(t, 0, sessions.Len())
}
