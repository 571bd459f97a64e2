package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"sync"
	"time"

	domainauth "github.com/target/placesmap/internal/domain/auth"
	"github.com/target/placesmap/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.AuthProvider  = (*MockAuthProvider)(nil)
	_ ports.SessionStore  = (*MemorySessionStore)(nil)
	_ ports.TokenVerifier = (*StaticTokenVerifier)(nil)
)

// MockAuthProvider simulates a magic-link provider. It records the emails it
// was asked to send links to.
type MockAuthProvider struct {
	SendFunc     func(ctx context.Context, in ports.MagicLinkInput) (ports.MagicLinkDispatch, error)
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error)
	SignOutFunc  func(ctx context.Context, accessToken string) error

	DefaultUser domainauth.Identity
	Verifier    string

	mu        sync.Mutex
	Sent      []ports.MagicLinkInput
	SignedOut []string
}

// NewMockAuthProvider creates a MockAuthProvider with sensible defaults.
func NewMockAuthProvider() *MockAuthProvider {
	return &MockAuthProvider{
		Verifier: "verifier-1",
		DefaultUser: domainauth.Identity{
			UserID:      "mock-user-1",
			Email:       "mock.user@example.com",
			AccessToken: "mock-access-token",
		},
	}
}

func (m *MockAuthProvider) SendMagicLink(ctx context.Context, in ports.MagicLinkInput) (ports.MagicLinkDispatch, error) {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, in)
	}
	m.mu.Lock()
	m.Sent = append(m.Sent, in)
	m.mu.Unlock()
	return ports.MagicLinkDispatch{CodeVerifier: m.Verifier}, nil
}

func (m *MockAuthProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}
	if in.Code == "" && in.TokenHash == "" {
		return domainauth.Identity{}, errors.New("missing code")
	}

	// Return a copy of the default user with a fresh expiration time
	user := m.DefaultUser
	if user.UserID == "" {
		user = domainauth.Identity{UserID: "mock-user-1", Email: "mock.user@example.com"}
	}
	user.ExpiresAt = time.Now().Add(time.Hour)
	return user, nil
}

func (m *MockAuthProvider) SignOut(ctx context.Context, accessToken string) error {
	if m.SignOutFunc != nil {
		return m.SignOutFunc(ctx, accessToken)
	}
	m.mu.Lock()
	m.SignedOut = append(m.SignedOut, accessToken)
	m.mu.Unlock()
	return nil
}

// MemorySessionStore is an in-memory session store for unit tests.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domainauth.Session
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]domainauth.Session),
	}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if id == "" || !ok {
		return domainauth.Session{}, ErrNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len returns the number of stored sessions.
func (m *MemorySessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// ErrNotFound is returned by mocks when an entity is not present.
var ErrNotFound = errors.New("not found")

// StaticTokenVerifier accepts a fixed set of tokens.
type StaticTokenVerifier struct {
	Tokens map[string]string // token -> user id
}

func (v StaticTokenVerifier) Verify(_ context.Context, accessToken string) (string, error) {
	if uid, ok := v.Tokens[accessToken]; ok {
		return uid, nil
	}
	return "", errors.New("invalid token")
}
