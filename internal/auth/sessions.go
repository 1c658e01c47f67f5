package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lathikasakthivel/voice-based-expense-logger/internal/core"
)

type session struct {
	userID    int64
	expiresAt time.Time
}

// SessionStore keeps logged-in sessions in memory. Sessions expire after the
// configured TTL; a background janitor reclaims expired entries.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]session
	ttl      time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

func NewSessionStore(ttl, janitorInterval time.Duration) *SessionStore {
	s := &SessionStore{
		sessions: make(map[string]session),
		ttl:      ttl,
		stop:     make(chan struct{}),
	}
	if janitorInterval > 0 {
		go s.janitor(janitorInterval)
	}
	return s
}

// Create registers a new session for the user and returns its opaque ID.
func (s *SessionStore) Create(userID int64) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = session{userID: userID, expiresAt: time.Now().Add(s.ttl)}
	s.mu.Unlock()
	return id
}

// Lookup resolves a session ID to its user. Expired sessions are removed on
// access and reported as core.ErrBadCredentials.
func (s *SessionStore) Lookup(id string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return 0, core.ErrBadCredentials
	}
	if time.Now().After(sess.expiresAt) {
		delete(s.sessions, id)
		return 0, core.ErrBadCredentials
	}
	return sess.userID, nil
}

// Revoke removes a session. Revoking an unknown ID is a no-op.
func (s *SessionStore) Revoke(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

func (s *SessionStore) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stop:
			return
		}
	}
}

func (s *SessionStore) sweep() {
	now := time.Now()
	s.mu.Lock()
	for id, sess := range s.sessions {
		if now.After(sess.expiresAt) {
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()
}

// Close stops the janitor goroutine.
func (s *SessionStore) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}
