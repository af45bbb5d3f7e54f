package memory

import (
	"context"
	"sync"
	"time"

	"github.com/storefront/storefront-api/internal/core/domain"
)

// SessionStore implements ports.SessionStore with an in-memory table.
// Expired sessions are removed by a background sweep; lookups of an expired
// session still succeed until then and callers check the expiry themselves.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session

	now         func() time.Time
	stopCleanup chan struct{}
	closeOnce   sync.Once
	wg          sync.WaitGroup
}

// NewSessionStore creates the table and starts the sweep when interval > 0.
func NewSessionStore(sweepInterval time.Duration) *SessionStore {
	s := &SessionStore{
		sessions:    make(map[string]domain.Session),
		now:         time.Now,
		stopCleanup: make(chan struct{}),
	}
	if sweepInterval > 0 {
		s.wg.Add(1)
		go s.cleanupLoop(sweepInterval)
	}
	return s
}

func (s *SessionStore) Save(_ context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = *session
	return nil
}

func (s *SessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &session, nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Len reports the number of stored sessions, expired or not.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *SessionStore) cleanupLoop(interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCleanup:
			return
		}
	}
}

func (s *SessionStore) sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.sessions {
		if session.Expired(now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Close stops the background sweep and waits for it to finish.
func (s *SessionStore) Close() error {
	s.closeOnce.Do(func() { close(s.stopCleanup) })
	s.wg.Wait()
	return nil
}
