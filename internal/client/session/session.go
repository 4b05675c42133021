// Package session is the single source of truth for the authenticated user.
// It holds the bearer token and the user summary, persists the token across
// restarts, and notifies subscribers on every state change.
package session

import (
	"sync"

	"go.uber.org/zap"

	"qoralist/internal/models"
)

// Snapshot is an immutable view of the session state.
type Snapshot struct {
	// Token is the current bearer token, empty when unauthenticated.
	Token string
	// User is the current user summary. May be nil even when a token
	// exists: the profile is fetched after the token is restored.
	User *models.UserSummary
}

// Authenticated reports whether the snapshot carries a token.
func (s Snapshot) Authenticated() bool {
	return s.Token != ""
}

// Store holds the session state. All methods are safe for concurrent use
// and never return errors: persistence is best effort, the in-memory state
// always updates so the current process stays usable.
type Store struct {
	mu      sync.RWMutex
	token   string
	user    *models.UserSummary
	subs    map[int]func(Snapshot)
	nextSub int

	storage TokenStorage
	log     *zap.Logger
}

// NewStore creates a Store backed by the given token storage.
func NewStore(storage TokenStorage, log *zap.Logger) *Store {
	return &Store{
		subs:    make(map[int]func(Snapshot)),
		storage: storage,
		log:     log,
	}
}

// Init restores a persisted token, if any. The restored session is
// tentatively authenticated: the token is trusted until a request is
// rejected by the server.
func (s *Store) Init() {
	token, err := s.storage.Load()
	if err != nil {
		s.log.Warn("failed to load persisted token", zap.Error(err))
		return
	}
	if token == "" {
		return
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	s.log.Debug("session restored from storage")
	s.notify()
}

// SetAuth stores the token durably and replaces the in-memory state.
// user may be nil when only the token is known.
func (s *Store) SetAuth(user *models.UserSummary, token string) {
	if err := s.storage.Save(token); err != nil {
		s.log.Warn("failed to persist token", zap.Error(err))
	}

	s.mu.Lock()
	s.token = token
	s.user = user
	s.mu.Unlock()
	s.notify()
}

// SetUser replaces the user summary wholesale, leaving the token untouched.
func (s *Store) SetUser(user *models.UserSummary) {
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	s.notify()
}

// Logout clears the durable token and the in-memory state. Calling it on an
// already logged-out store is a no-op and notifies nobody.
func (s *Store) Logout() {
	s.mu.Lock()
	if s.token == "" && s.user == nil {
		s.mu.Unlock()
		return
	}
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if err := s.storage.Clear(); err != nil {
		s.log.Warn("failed to clear persisted token", zap.Error(err))
	}
	s.log.Debug("session cleared")
	s.notify()
}

// IsAuthenticated reports whether a token is present.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Token returns the current bearer token, empty when unauthenticated.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the current user summary, nil when unknown.
func (s *Store) User() *models.UserSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Snapshot returns the current state as one consistent view.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Token: s.token, User: s.user}
}

// Subscribe registers fn to be called after every state change.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// notify calls all subscribers with the current snapshot, outside the lock.
func (s *Store) notify() {
	s.mu.RLock()
	snap := Snapshot{Token: s.token, User: s.user}
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(snap)
	}
}
