// Package memory provides an in-process implementation of the storage.Store interface.
package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mmynk/billsplittr/internal/storage"
	"github.com/mmynk/billsplittr/internal/wizard"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

type entry struct {
	session  *wizard.Session
	lastSeen time.Time
}

// Store keeps sessions in memory and evicts those idle for longer than the TTL.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry
	ttl      time.Duration
	now      func() time.Time

	// OnEvict, if set, is called with the number of sessions removed by a sweep.
	OnEvict func(n int)

	stop chan struct{}
	done chan struct{}
}

// New creates a Store. A non-positive ttl disables expiry.
func New(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*entry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// StartJanitor sweeps expired sessions every interval until Close is called.
func (s *Store) StartJanitor(interval time.Duration) {
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := s.Sweep(); n > 0 {
					slog.Debug("Expired sessions evicted", "count", n)
				}
			case <-s.stop:
				return
			}
		}
	}()
}

// Sweep removes expired sessions and returns how many were removed.
func (s *Store) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	s.mu.Lock()
	now := s.now()
	n := 0
	for id, e := range s.sessions {
		if now.Sub(e.lastSeen) > s.ttl {
			delete(s.sessions, id)
			n++
		}
	}
	s.mu.Unlock()

	if n > 0 && s.OnEvict != nil {
		s.OnEvict(n)
	}
	return n
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Create stores a new session.
func (s *Store) Create(ctx context.Context, session *wizard.Session) error {
	if session.ID == "" {
		return fmt.Errorf("session ID is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.sessions[session.ID]; exists {
		return fmt.Errorf("session %s already exists", session.ID)
	}
	s.sessions[session.ID] = &entry{session: session.Clone(), lastSeen: s.now()}
	return nil
}

// lookup returns a live entry. Callers must hold mu.
func (s *Store) lookup(id string) (*entry, error) {
	e, ok := s.sessions[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	now := s.now()
	if s.ttl > 0 && now.Sub(e.lastSeen) > s.ttl {
		delete(s.sessions, id)
		if s.OnEvict != nil {
			s.OnEvict(1)
		}
		return nil, storage.ErrNotFound
	}
	e.lastSeen = now
	return e, nil
}

// Get returns a copy of the session.
func (s *Store) Get(ctx context.Context, id string) (*wizard.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return e.session.Clone(), nil
}

// Update runs fn on a working copy and commits it only if fn succeeds.
func (s *Store) Update(ctx context.Context, id string, fn func(*wizard.Session) error) (*wizard.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	working := e.session.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	e.session = working
	return working.Clone(), nil
}

// Delete removes the session.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.sessions, id)
	return nil
}

// Close stops the janitor, if running.
func (s *Store) Close() error {
	if s.stop != nil {
		close(s.stop)
		<-s.done
		s.stop = nil
	}
	return nil
}
