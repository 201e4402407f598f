package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/VladimirStojanovski/MealStack/internal/models"
	"github.com/VladimirStojanovski/MealStack/internal/shared"
	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
)

// State enumerates the session lifecycle states.
type State int

const (
	// StateInitializing means the persisted session has not been read yet.
	// Consumers must not treat this as "logged out".
	StateInitializing State = iota

	// StateUnauthenticated means no session exists.
	StateUnauthenticated

	// StateAuthenticated means a full session (token + user) is present.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	default:
		return ""
	}
}

// Snapshot is a read-only view of the current session state. Session is
// non-nil iff State is [StateAuthenticated].
type Snapshot struct {
	State   State
	Session *models.Session
	Busy    bool
}

// TokenStore is the durable slot holding the current session. Load returns
// (nil, nil) when no session is stored.
type TokenStore interface {
	Load() (*models.Session, error)
	Save(session *models.Session) error
	Clear() error
}

// AuthAPI is the backend surface the manager needs. Implemented by
// services.AuthService.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (*models.Session, error)
	Register(ctx context.Context, username, email, password, repeatedPassword string) error
}

// Manager is the session state machine.
type Manager struct {
	store  TokenStore
	auth   AuthAPI
	logger *log.Logger

	mu          sync.Mutex
	state       State
	session     *models.Session
	initialized bool
	inflight    int
	epoch       uint64
}

// NewManager creates a Manager in [StateInitializing].
func NewManager(store TokenStore, auth AuthAPI, logger *log.Logger) *Manager {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Manager{
		store:  store,
		auth:   auth,
		logger: logger,
		state:  StateInitializing,
	}
}

// Initialize restores the persisted session from the TokenStore. It runs at
// most once per Manager; repeat calls are no-ops. A store read failure is
// treated as "no session" so startup never wedges in StateInitializing.
func (m *Manager) Initialize() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return
	}
	m.initialized = true

	sess, err := m.store.Load()
	if err != nil {
		m.logger.Warn("failed to restore session", "error", err)
		m.state = StateUnauthenticated
		return
	}

	if sess.Valid() {
		m.session = sess
		m.state = StateAuthenticated
		m.logger.Debug("session restored", "user", sess.User.Username)
	} else {
		m.state = StateUnauthenticated
	}
}

// Login verifies credentials against the backend and, on success, persists
// the session and transitions to StateAuthenticated. On failure the prior
// state is left unchanged. Overlapping calls are tolerated: the last call to
// resolve wins, and the busy indicator clears only when no call remains in
// flight. A result arriving after an interleaved Logout is discarded.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return fmt.Errorf("%w: username and password are required", shared.ErrValidation)
	}

	m.mu.Lock()
	m.inflight++
	epoch := m.epoch
	m.mu.Unlock()

	sess, err := m.auth.Login(ctx, username, password)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.inflight--

	if err != nil {
		// already classified by the auth client (ErrAuth, ErrConnectivity, ...)
		return err
	}
	if epoch != m.epoch {
		// A logout (or forced invalidation) happened while this call was in
		// flight; its result must not resurrect the session.
		m.logger.Debug("discarding stale login result", "user", sess.User.Username)
		return fmt.Errorf("%w: session was closed during login", shared.ErrAuth)
	}

	m.session = sess
	m.state = StateAuthenticated
	if err := m.store.Save(sess); err != nil {
		m.logger.Warn("failed to persist session", "error", err)
	}
	return nil
}

// Logout clears the session. It always succeeds locally, regardless of
// backend reachability, and takes effect immediately.
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearLocked()
}

// Invalidate forces the session to StateUnauthenticated. Called when the
// backend rejects the stored token.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateAuthenticated {
		return
	}
	m.logger.Info("session invalidated by backend")
	m.clearLocked()
}

func (m *Manager) clearLocked() {
	m.epoch++
	m.session = nil
	m.state = StateUnauthenticated
	if err := m.store.Clear(); err != nil {
		m.logger.Warn("failed to clear stored session", "error", err)
	}
}

// Register creates a new account. It does not establish a session. A
// password/confirmation mismatch fails before any network call.
func (m *Manager) Register(ctx context.Context, username, email, password, repeatedPassword string) error {
	if password != repeatedPassword {
		return fmt.Errorf("%w: passwords do not match", shared.ErrValidation)
	}
	if username == "" || email == "" || password == "" {
		return fmt.Errorf("%w: username, email and password are required", shared.ErrValidation)
	}
	return m.auth.Register(ctx, username, email, password, repeatedPassword)
}

// Snapshot returns the current read-only session view.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{State: m.state, Busy: m.inflight > 0}
	if m.state == StateAuthenticated && m.session != nil {
		// copy so callers cannot mutate manager-owned state
		sess := *m.session
		snap.Session = &sess
	}
	return snap
}

// TokenSource exposes the session credential as an [oauth2.TokenSource] for
// bearer-header injection. Token returns an error while unauthenticated.
func (m *Manager) TokenSource() oauth2.TokenSource {
	return tokenSource{m: m}
}

type tokenSource struct {
	m *Manager
}

func (ts tokenSource) Token() (*oauth2.Token, error) {
	snap := ts.m.Snapshot()
	if snap.Session == nil {
		return nil, shared.ErrNotAuthenticated
	}
	return &oauth2.Token{AccessToken: snap.Session.Token, TokenType: "Bearer"}, nil
}
