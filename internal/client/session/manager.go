// Package session owns the authentication token and its lifecycle: login,
// signup, restore from persisted storage, logout, and the forced logout
// driven by authorization failures reported by the transport.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dbelyaev/askpdf/internal/client/api"
	"github.com/dbelyaev/askpdf/internal/client/models"
	"github.com/dbelyaev/askpdf/internal/logging"
)

// Manager holds the current session: the bearer token, the identity decoded
// from its claims, and the expiry instant. The invariant is that the
// identity is present exactly when a non-expired token is present; a token
// found to be expired collapses to the logged-out state at the moment it is
// checked, never to an intermediate "expired" state.
//
// Manager implements api.TokenSource, so the transport always attaches the
// current token without reaching into this package's state directly.
type Manager struct {
	mu     sync.Mutex
	client api.Client
	store  TokenStore
	log    logging.Logger

	token    string
	identity models.Identity
	expiry   time.Time

	// test seam
	now func() time.Time
}

func NewManager(client api.Client, store TokenStore, log logging.Logger) *Manager {
	return &Manager{
		client: client,
		store:  store,
		log:    log.With("component", "session"),
		now:    time.Now,
	}
}

// Restore loads a persisted token and re-establishes the session when the
// token decodes cleanly and has not expired. Every failure path degrades
// silently to the logged-out state and clears the persisted slot; a missing
// or stale token on startup is expected, not an error.
func (m *Manager) Restore(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	token, err := m.store.Load()
	if err != nil {
		m.log.Warn(ctx, "cannot read persisted token", "error", err)
		return
	}
	if token == "" {
		return
	}

	identity, expiry, err := DecodeIdentity(token)
	if err != nil {
		m.log.Warn(ctx, "persisted token is malformed, clearing", "error", err)
		m.clearLocked(ctx)
		return
	}
	if !expiry.After(m.now()) {
		m.log.Info(ctx, "persisted token expired, clearing", "user", identity.Username)
		m.clearLocked(ctx)
		return
	}

	m.token = token
	m.identity = identity
	m.expiry = expiry
	m.log.Info(ctx, "session restored", "user", identity.Username)
}

// Login exchanges credentials for a token, persists it and establishes the
// session. A token that cannot be decoded into an identity is a fatal
// inconsistency: the session stays absent and common.ErrClaimDecode is
// returned.
func (m *Manager) Login(ctx context.Context, username, password string) (models.Identity, error) {
	token, err := m.client.Login(ctx, username, password)
	if err != nil {
		return models.Identity{}, fmt.Errorf("login: %w", err)
	}
	return m.establish(ctx, token)
}

// Signup creates an account and establishes the session, with the same
// contract as Login.
func (m *Manager) Signup(ctx context.Context, username, password string) (models.Identity, error) {
	token, err := m.client.Signup(ctx, username, password)
	if err != nil {
		return models.Identity{}, fmt.Errorf("signup: %w", err)
	}
	return m.establish(ctx, token)
}

func (m *Manager) establish(ctx context.Context, token string) (models.Identity, error) {
	identity, expiry, err := DecodeIdentity(token)
	if err != nil {
		return models.Identity{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.token = token
	m.identity = identity
	m.expiry = expiry

	if err := m.store.Save(token); err != nil {
		// The session is live either way; only restore-after-restart suffers.
		m.log.Warn(ctx, "cannot persist token", "error", err)
	}

	m.log.Info(ctx, "session established", "user", identity.Username)
	return identity, nil
}

// Logout unconditionally drops the in-memory session and the persisted
// token. Safe to call at any time, in any state.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearLocked(ctx)
}

// ForceLogout is the transport's 401 hook: the server no longer accepts the
// token, so the session is gone no matter which request noticed first.
func (m *Manager) ForceLogout() {
	ctx := context.Background()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token != "" {
		m.log.Warn(ctx, "session invalidated by server", "user", m.identity.Username)
	}
	m.clearLocked(ctx)
}

func (m *Manager) clearLocked(ctx context.Context) {
	m.token = ""
	m.identity = models.Identity{}
	m.expiry = time.Time{}
	if err := m.store.Clear(); err != nil {
		m.log.Warn(ctx, "cannot clear persisted token", "error", err)
	}
}

// IsAuthenticated reports whether a non-expired session is established.
// Detecting expiry here drops the session immediately.
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.validLocked()
}

// Token implements api.TokenSource. It returns "" once the session has
// expired, so the transport never sends a token known to be dead.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.validLocked() {
		return ""
	}
	return m.token
}

// Identity returns the decoded claim set of the current session.
func (m *Manager) Identity() (models.Identity, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.validLocked() {
		return models.Identity{}, false
	}
	return m.identity, true
}

func (m *Manager) validLocked() bool {
	if m.token == "" {
		return false
	}
	if !m.expiry.After(m.now()) {
		m.clearLocked(context.Background())
		return false
	}
	return true
}
