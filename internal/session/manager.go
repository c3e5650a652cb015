// ABOUTME: Auth session manager owning login, logout, and session restore
// ABOUTME: Fails closed: any doubt about the token tears the whole session down

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lostfound/lostfound/internal/client"
	"golang.org/x/sync/singleflight"
)

// Status is the three-valued session state the route guard switches on
type Status int

const (
	// StatusUnknown means the persisted token has not been checked yet
	StatusUnknown Status = iota
	StatusAnonymous
	StatusActive
)

// String returns the string representation of a Status
func (s Status) String() string {
	switch s {
	case StatusUnknown:
		return "unknown"
	case StatusAnonymous:
		return "anonymous"
	case StatusActive:
		return "active"
	default:
		return "invalid"
	}
}

var (
	// ErrNoSession is returned when an operation needs a token and none is held
	ErrNoSession = errors.New("not logged in")
	// ErrSessionExpired is returned when the persisted token is a JWT past its exp claim
	ErrSessionExpired = errors.New("session expired")
)

// Authenticator is the part of the backend the manager talks to
type Authenticator interface {
	Signin(ctx context.Context, creds client.Credentials) (string, error)
	CurrentUser(ctx context.Context, token string) (*client.User, error)
}

// Snapshot is a consistent view of the session at one instant
type Snapshot struct {
	Status  Status
	Token   string
	User    *client.User
	Loading bool
}

// Manager owns the session lifecycle. Safe for concurrent use.
type Manager struct {
	store Store
	auth  Authenticator
	now   func() time.Time

	// Concurrent refreshes for one token share a single profile fetch
	refreshes singleflight.Group

	mu      sync.RWMutex
	status  Status
	token   string
	user    *client.User
	loading bool
}

// NewManager creates a manager in StatusUnknown. Call Restore to resolve it.
func NewManager(store Store, auth Authenticator) *Manager {
	return &Manager{
		store:  store,
		auth:   auth,
		now:    time.Now,
		status: StatusUnknown,
	}
}

// Restore validates the persisted token against the backend. It returns nil
// when the session ends ACTIVE, ErrNoSession when no token was persisted, and
// the validation failure otherwise (the session is ANONYMOUS in both cases).
func (m *Manager) Restore(ctx context.Context) error {
	m.mu.Lock()
	m.loading = true
	m.mu.Unlock()
	defer m.setLoading(false)

	token, err := m.store.Token()
	if err != nil {
		slog.Warn("Failed to read persisted session", "error", err)
		m.teardown("")
		return fmt.Errorf("read session: %w", err)
	}
	if token == "" {
		m.mu.Lock()
		m.token = ""
		m.user = nil
		m.status = StatusAnonymous
		m.mu.Unlock()
		return ErrNoSession
	}

	m.mu.Lock()
	m.token = token
	m.mu.Unlock()

	if Expired(token, m.now()) {
		slog.Info("Persisted token expired, discarding session")
		m.teardown(token)
		return ErrSessionExpired
	}

	_, err = m.fetchProfile(ctx, token)
	return err
}

// Login signs in and then fetches the identity for the issued token. It
// returns nil only when the session ends ACTIVE. A rejected signin leaves the
// session exactly as it was.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	token, err := m.auth.Signin(ctx, client.Credentials{Username: username, Password: password})
	if err != nil {
		slog.Info("Signin rejected", "username", username, "error", err)
		return err
	}

	if err := m.store.SetToken(token); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	m.mu.Lock()
	m.token = token
	m.user = nil
	m.loading = true
	m.mu.Unlock()
	defer m.setLoading(false)

	user, err := m.fetchProfile(ctx, token)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// An abandoned login leaves no session behind
			m.teardown(token)
		}
		return fmt.Errorf("fetch profile: %w", err)
	}

	if err := m.store.SetRole(string(user.Role)); err != nil {
		slog.Warn("Failed to cache role", "error", err)
	}
	slog.Info("Logged in", "username", user.Username, "role", user.Role)
	return nil
}

// Refresh re-fetches the authoritative profile for the current token.
// Failure tears the session down like Restore.
func (m *Manager) Refresh(ctx context.Context) (*client.User, error) {
	token := m.Token()
	if token == "" {
		return nil, ErrNoSession
	}
	v, err, _ := m.refreshes.Do(token, func() (interface{}, error) {
		return m.fetchProfile(ctx, token)
	})
	if err != nil {
		return nil, err
	}
	return copyUser(v.(*client.User)), nil
}

// Logout clears token, cached role, and user. No network call; idempotent.
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Clear(); err != nil {
		slog.Warn("Failed to clear persisted session", "error", err)
	}
	m.token = ""
	m.user = nil
	m.status = StatusAnonymous
}

// Status returns the current session status
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Token returns the current bearer token, or ""
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// User returns a copy of the confirmed user, or nil
func (m *Manager) User() *client.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyUser(m.user)
}

// Loading reports whether a restore or login profile check is in flight
func (m *Manager) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

// Snapshot returns status, token, user, and loading read under one lock
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{
		Status:  m.status,
		Token:   m.token,
		User:    copyUser(m.user),
		Loading: m.loading,
	}
}

// fetchProfile calls the backend and applies the result, unless the session
// moved to another token while the call was in flight.
func (m *Manager) fetchProfile(ctx context.Context, token string) (*client.User, error) {
	user, err := m.auth.CurrentUser(ctx, token)
	if errors.Is(err, context.Canceled) {
		// An abandoned check says nothing about the token
		slog.Info("Profile fetch canceled, keeping session", "error", err)
		return nil, err
	}
	if err != nil {
		slog.Warn("Profile fetch failed, discarding session", "error", err)
		m.teardown(token)
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token != token {
		return nil, ErrNoSession
	}
	m.user = user
	m.status = StatusActive
	return copyUser(user), nil
}

// teardown clears the whole session atomically. With a non-empty token it is
// a no-op if the session already holds a different token.
func (m *Manager) teardown(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if token != "" && m.token != token {
		return
	}
	if err := m.store.Clear(); err != nil {
		slog.Warn("Failed to clear persisted session", "error", err)
	}
	m.token = ""
	m.user = nil
	m.status = StatusAnonymous
}

func (m *Manager) setLoading(v bool) {
	m.mu.Lock()
	m.loading = v
	m.mu.Unlock()
}

func copyUser(u *client.User) *client.User {
	if u == nil {
		return nil
	}
	cp := *u
	return &cp
}

// Expiry decodes the exp claim of a JWT without verifying its signature.
// ok is false when the token is not a JWT or carries no exp claim.
func Expiry(token string) (exp time.Time, ok bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	date, err := claims.GetExpirationTime()
	if err != nil || date == nil {
		return time.Time{}, false
	}
	return date.Time, true
}

// Expired reports whether token is a JWT whose exp claim is before now.
// Opaque tokens are never considered expired locally.
func Expired(token string, now time.Time) bool {
	exp, ok := Expiry(token)
	return ok && exp.Before(now)
}
