package session

import (
	"slices"
	"sync"
)

// Store is the single source of truth for the current session state.
// It is read by every other component and written only through the Manager.
// All methods are safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	identity *Identity
	status   Status
	version  uint64

	subMu   sync.Mutex
	subs    map[uint64]func(Snapshot)
	nextSub uint64
}

// NewStore creates a store in the bootstrapping state.
func NewStore() *Store {
	return &Store{
		status: StatusBootstrapping,
		subs:   make(map[uint64]func(Snapshot)),
	}
}

// Get returns a consistent snapshot of the current state. The identity is
// copied so callers can never mutate the store through the snapshot.
func (s *Store) Get() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Version returns the current state version. It increases on every commit.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Subscribe registers a listener invoked with a consistent snapshot after
// every committed state change. Listeners run synchronously on the mutating
// goroutine, outside the write lock, in subscription order. The returned
// function removes the listener; it is safe to call more than once.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// set commits a new state and notifies subscribers. Identity and status
// change together under one lock so no listener ever observes a torn state
// such as authenticated with a nil identity.
func (s *Store) set(identity *Identity, status Status) {
	s.mu.Lock()
	if identity != nil {
		clone := *identity
		clone.Roles = slices.Clone(identity.Roles)
		s.identity = &clone
	} else {
		s.identity = nil
	}
	s.status = status
	s.version++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		Status:  s.status,
		Version: s.version,
	}
	if s.identity != nil {
		clone := *s.identity
		clone.Roles = slices.Clone(s.identity.Roles)
		snap.Identity = &clone
	}
	return snap
}

func (s *Store) notify(snap Snapshot) {
	s.subMu.Lock()
	ids := make([]uint64, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(Snapshot), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.subs[id])
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
