package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/expertpicks/clientcore/core/logger"
	"github.com/expertpicks/clientcore/pkg/token"
)

// Manager owns all writes to the Store. Every mutator runs under a single
// writer lock, so two overlapping calls can never interleave their writes
// and produce a mixed identity, and durable storage never diverges from the
// in-memory state for longer than one mutator call.
type Manager struct {
	mu       sync.Mutex
	store    *Store
	storage  Storage
	auth     AuthService
	logger   *slog.Logger
	onLogout func()
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger configures structured logging. Defaults to a discard logger.
func WithLogger(log *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if log != nil {
			m.logger = log
		}
	}
}

// WithLogoutHook registers a callback fired after an explicit Logout commits.
// The application uses it to discard all dependent view state, the moral
// equivalent of the hard redirect a browser client performs.
func WithLogoutHook(fn func()) ManagerOption {
	return func(m *Manager) {
		if fn != nil {
			m.onLogout = fn
		}
	}
}

// NewManager creates the single writer for the given store.
func NewManager(store *Store, storage Storage, auth AuthService, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:    store,
		storage:  storage,
		auth:     auth,
		logger:   logger.Discard(),
		onLogout: func() {},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Bootstrap hydrates the store from durable storage. It runs once at process
// start, before any guard decision. Storage corruption never blocks startup:
// it degrades to a logged-out state and is only logged. The final status is
// committed in a deferred block, so the store always leaves the bootstrapping
// phase even if loading fails part-way.
func (m *Manager) Bootstrap(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var identity *Identity
	status := StatusUnauthenticated
	defer func() {
		m.store.set(identity, status)
	}()

	loaded, err := m.storage.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrNoSession) {
			m.logger.WarnContext(ctx, "discarding unreadable persisted session",
				logger.Error(err), logger.Component("session"))
		}
		return
	}

	if !token.Usable(loaded.Token) {
		m.logger.InfoContext(ctx, "persisted session token is unusable, starting logged out",
			logger.UserID(loaded.ID), logger.Component("session"))
		return
	}

	identity = &loaded
	status = StatusAuthenticated
	m.logger.InfoContext(ctx, "session restored from storage",
		logger.UserID(loaded.ID), logger.Component("session"))
}

// Login authenticates against the auth service and commits the returned
// identity. On any failure the session is fully cleared before the error is
// returned, so the caller never observes a half-authenticated state.
func (m *Manager) Login(ctx context.Context, creds Credentials) (Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	identity, err := m.auth.Login(ctx, creds)
	if err != nil {
		m.resetLocked(ctx)
		return Identity{}, errors.Join(ErrLoginFailed, err)
	}

	if err := m.commitLocked(ctx, identity); err != nil {
		return Identity{}, err
	}

	m.logger.InfoContext(ctx, "login succeeded",
		logger.UserID(identity.ID), logger.Component("session"))
	return identity, nil
}

// Logout clears durable storage and the in-memory identity, then fires the
// logout hook. The in-memory state is cleared even when storage deletion
// fails; the storage error is still reported.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.resetLocked(ctx)
	m.onLogout()

	m.logger.InfoContext(ctx, "logged out", logger.Component("session"))
	return err
}

// SetAuthentication commits identity data obtained outside Login, e.g.
// immediately after registration. It fails closed: a tokenless identity
// resets the session instead of being accepted as authenticated.
func (m *Manager) SetAuthentication(ctx context.Context, identity Identity) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.commitLocked(ctx, identity)
}

// UpdateUser merges the patch into the current identity without touching the
// token, persisting the merged record together with the in-memory update.
// It is a no-op when no identity is active.
func (m *Manager) UpdateUser(ctx context.Context, patch IdentityPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := m.store.Get()
	if !snap.IsAuthenticated() {
		return nil
	}

	merged := patch.apply(*snap.Identity)
	if err := m.storage.Save(ctx, merged); err != nil {
		// Leave both copies at the previous consistent state.
		return errors.Join(ErrSaveSession, err)
	}

	m.store.set(&merged, StatusAuthenticated)
	return nil
}

// commitLocked validates, persists, and commits an identity. Any failure
// resets the session first, keeping memory and storage consistent.
func (m *Manager) commitLocked(ctx context.Context, identity Identity) error {
	if !identity.Valid() {
		_ = m.resetLocked(ctx)
		return ErrInvalidSession
	}

	if err := m.storage.Save(ctx, identity); err != nil {
		_ = m.resetLocked(ctx)
		return errors.Join(ErrSaveSession, err)
	}

	m.store.set(&identity, StatusAuthenticated)
	return nil
}

// resetLocked clears durable storage and commits a logged-out state.
func (m *Manager) resetLocked(ctx context.Context) error {
	var err error
	if derr := m.storage.Delete(ctx); derr != nil {
		m.logger.WarnContext(ctx, "failed to clear persisted session",
			logger.Error(derr), logger.Component("session"))
		err = errors.Join(ErrDeleteSession, derr)
	}
	m.store.set(nil, StatusUnauthenticated)
	return err
}
