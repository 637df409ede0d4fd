// Package session holds the single authoritative record of who is signed in.
//
// The Store is populated once at startup by Bootstrap and afterwards changed
// only through Login, Logout, Refresh and Clear. Readers take a Snapshot.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/alumnet-dev/alumnet/internal/models"
)

// ErrNoIdentity is returned by Login when called without a record
var ErrNoIdentity = errors.New("login requires an alumni record")

// Backend is the part of the API the store needs
type Backend interface {
	Profile(ctx context.Context) (*models.Alumni, error)
	Logout(ctx context.Context) error
}

// Snapshot is a point-in-time copy of the session. User is nil when nobody
// is signed in.
type Snapshot struct {
	User    *models.Alumni
	Loading bool
}

// Authenticated reports whether a user is present
func (s Snapshot) Authenticated() bool {
	return s.User != nil
}

// Store is the session state container
type Store struct {
	backend Backend
	logger  zerolog.Logger

	bootstrap    sync.Once
	bootstrapErr error

	mu        sync.RWMutex
	user      *models.Alumni
	loading   bool
	listeners map[int]func(Snapshot)
	nextID    int

	// version increases on every change of user; a network result is only
	// applied when nothing else changed the session while it was in flight.
	version uint64
}

// New creates a store in the loading state
func New(backend Backend, logger zerolog.Logger) *Store {
	return &Store{
		backend:   backend,
		logger:    logger,
		loading:   true,
		listeners: make(map[int]func(Snapshot)),
	}
}

// Snapshot returns a copy of the current state
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{User: s.user.Clone(), Loading: s.loading}
}

// Current returns a copy of the signed-in user, or nil
func (s *Store) Current() *models.Alumni {
	return s.Snapshot().User
}

// Loading reports whether the initial session check is still running
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Subscribe registers fn to be called with the new snapshot after every
// change. The returned function removes the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Bootstrap validates the session cookie with the backend. Only the first
// call does any work. Whatever happens, loading is false when it returns.
func (s *Store) Bootstrap(ctx context.Context) {
	s.bootstrap.Do(func() {
		var user *models.Alumni
		start := s.currentVersion()
		defer func() {
			s.mu.Lock()
			if s.version == start {
				s.user = user
				s.version++
			}
			s.loading = false
			s.mu.Unlock()
			s.publish()
		}()

		profile, err := s.backend.Profile(ctx)
		if err != nil {
			s.mu.Lock()
			s.bootstrapErr = err
			s.mu.Unlock()
			s.logger.Debug().Err(err).Msg("No valid session at startup")
			return
		}
		user = profile
	})
}

// BootstrapErr returns why Bootstrap found no session, or nil
func (s *Store) BootstrapErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bootstrapErr
}

// Login seeds the session with identity, which the caller has just received
// from a successful login or registration, then reconciles it with the
// canonical profile. A failed reconciliation keeps identity.
func (s *Store) Login(ctx context.Context, identity *models.Alumni) error {
	if identity == nil {
		return ErrNoIdentity
	}

	seeded := s.set(identity.Clone())

	profile, err := s.backend.Profile(ctx)
	if err == nil && profile == nil {
		err = models.ErrEmptyRecord
	}
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to refresh user after login")
		return nil
	}

	s.setIfUnchanged(seeded, profile)
	return nil
}

// Logout invalidates the backend session if possible and always clears the
// local one.
func (s *Store) Logout(ctx context.Context) {
	if err := s.backend.Logout(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Logout request failed")
	}
	s.set(nil)
}

// Refresh re-reads the canonical profile. When the identity cannot be
// confirmed the session is logged out and the cause is returned.
func (s *Store) Refresh(ctx context.Context) error {
	start := s.currentVersion()
	profile, err := s.backend.Profile(ctx)
	if err == nil && profile == nil {
		err = models.ErrEmptyRecord
	}
	if err != nil {
		s.Logout(ctx)
		return err
	}

	s.setIfUnchanged(start, profile)
	return nil
}

// Clear drops the local session without calling the backend. Used when the
// backend has already reported the session invalid.
func (s *Store) Clear() {
	s.set(nil)
}

func (s *Store) currentVersion() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

func (s *Store) set(user *models.Alumni) uint64 {
	s.mu.Lock()
	s.user = user
	s.version++
	v := s.version
	s.mu.Unlock()
	s.publish()
	return v
}

func (s *Store) setIfUnchanged(expected uint64, user *models.Alumni) bool {
	s.mu.Lock()
	if s.version != expected {
		s.mu.Unlock()
		s.logger.Debug().Msg("Session changed while request was in flight; discarding result")
		return false
	}
	s.user = user
	s.version++
	s.mu.Unlock()
	s.publish()
	return true
}

func (s *Store) publish() {
	s.mu.RLock()
	snap := Snapshot{User: s.user.Clone(), Loading: s.loading}
	listeners := make([]func(Snapshot), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(snap)
	}
}
