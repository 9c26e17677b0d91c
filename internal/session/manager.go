// Package session owns the authenticated-session state and fans out
// change notifications. It is the only place that talks to the auth
// endpoints or the credential store; consumers read the current session
// and subscribe for changes.
package session

import (
	"context"
	"log"
	"sync"

	"github.com/temperhq/taskcal/internal/credential"
	"github.com/temperhq/taskcal/internal/model"
)

// refreshTokenKey is the keyring entry holding the persisted refresh
// token. Only the refresh token survives a restart; access and provider
// tokens are short-lived and re-minted by the backend.
const refreshTokenKey = "session-refresh-token"

// Authenticator is the slice of the backend client the manager needs.
type Authenticator interface {
	SignInWithPassword(ctx context.Context, email, password string) (*model.Session, error)
	SignUp(ctx context.Context, email, password string) (*model.Session, error)
	RefreshSession(ctx context.Context, refreshToken string) (*model.Session, error)
	SignOut(ctx context.Context, accessToken string) error
}

// CredentialStore persists the refresh token across restarts.
type CredentialStore interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// KeyringStore is the CredentialStore backed by the system keyring.
type KeyringStore struct{}

func (KeyringStore) Get(key string) (string, error)  { return credential.Get(key) }
func (KeyringStore) Set(key, value string) error     { return credential.Set(key, value) }
func (KeyringStore) Delete(key string) error         { return credential.Delete(key) }

// Manager holds the current session and notifies subscribers on every
// transition: sign-in, sign-out, and token refresh.
type Manager struct {
	auth  Authenticator
	creds CredentialStore

	mu      sync.Mutex
	current *model.Session
	nextID  int
	subs    map[int]func(*model.Session)
}

// NewManager creates a signed-out manager. Call Resolve once at startup
// to resume a persisted session.
func NewManager(auth Authenticator, creds CredentialStore) *Manager {
	return &Manager{
		auth:  auth,
		creds: creds,
		subs:  make(map[int]func(*model.Session)),
	}
}

// Resolve tries to resume the session persisted in the credential store.
// Any failure (no stored token, revoked token, backend unreachable)
// leaves the manager signed out; it is never fatal.
func (m *Manager) Resolve(ctx context.Context) {
	token, err := m.creds.Get(refreshTokenKey)
	if err != nil || token == "" {
		return
	}

	sess, err := m.auth.RefreshSession(ctx, token)
	if err != nil {
		log.Printf("session: stored refresh token rejected: %v", err)
		_ = m.creds.Delete(refreshTokenKey)
		return
	}
	m.Set(sess)
}

// Current returns the active session, or nil when signed out.
func (m *Manager) Current() *model.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// User returns the signed-in user, or nil.
func (m *Manager) User() *model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil
	}
	u := m.current.User
	return &u
}

// AccessToken returns the backend access token, empty when signed out.
func (m *Manager) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return ""
	}
	return m.current.AccessToken
}

// ProviderToken returns the calendar provider's OAuth token. Empty is a
// normal state: password sessions never carry one.
func (m *Manager) ProviderToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return ""
	}
	return m.current.ProviderToken
}

// Subscribe registers fn to run on every session change. The returned
// function cancels the registration; it is safe to call more than once
// and must be called before the subscriber is torn down.
func (m *Manager) Subscribe(fn func(*model.Session)) (unsubscribe func()) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// Set installs sess as the current session (nil signs out), persists or
// clears the refresh token, and notifies subscribers.
func (m *Manager) Set(sess *model.Session) {
	m.mu.Lock()
	m.current = sess
	subs := make([]func(*model.Session), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	if sess == nil {
		_ = m.creds.Delete(refreshTokenKey)
	} else if sess.RefreshToken != "" {
		if err := m.creds.Set(refreshTokenKey, sess.RefreshToken); err != nil {
			log.Printf("session: persisting refresh token: %v", err)
		}
	}

	// Notify outside the lock so subscribers may call back in.
	for _, fn := range subs {
		fn(sess)
	}
}

// SignIn authenticates with email/password and installs the session.
func (m *Manager) SignIn(ctx context.Context, email, password string) error {
	sess, err := m.auth.SignInWithPassword(ctx, email, password)
	if err != nil {
		return err
	}
	m.Set(sess)
	return nil
}

// SignUp registers a new account. When the backend requires email
// confirmation the returned session carries no tokens; pending is true
// and the manager stays signed out.
func (m *Manager) SignUp(ctx context.Context, email, password string) (pending bool, err error) {
	sess, err := m.auth.SignUp(ctx, email, password)
	if err != nil {
		return false, err
	}
	if sess.AccessToken == "" {
		return true, nil
	}
	m.Set(sess)
	return false, nil
}

// SignOut revokes the session remotely and clears local state. A remote
// revocation failure is logged; the local sign-out happens regardless.
func (m *Manager) SignOut(ctx context.Context) {
	token := m.AccessToken()
	if token != "" {
		if err := m.auth.SignOut(ctx, token); err != nil {
			log.Printf("session: remote sign-out failed: %v", err)
		}
	}
	m.Set(nil)
}
