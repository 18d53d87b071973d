// Package session keeps short-lived login tokens in memory.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Session struct {
	Token   string
	User    string
	Created time.Time
	Expires time.Time
}

// Store is safe for concurrent use. Expired sessions are dropped on lookup
// and swept whenever a session is created.
type Store struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	sessions map[string]Session
}

func NewStore(ttl time.Duration) *Store {
	return &Store{ttl: ttl, now: time.Now, sessions: make(map[string]Session)}
}

// Create starts a session for user and returns it.
func (s *Store) Create(user string) Session {
	now := s.now()
	ses := Session{
		Token:   uuid.NewString(),
		User:    user,
		Created: now,
		Expires: now.Add(s.ttl),
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep(now)
	s.sessions[ses.Token] = ses
	return ses
}

// Lookup returns the live session for token.
func (s *Store) Lookup(token string) (Session, bool) {
	if _, err := uuid.Parse(token); err != nil {
		return Session{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ses, ok := s.sessions[token]
	if !ok {
		return Session{}, false
	}
	if !s.now().Before(ses.Expires) {
		delete(s.sessions, token)
		return Session{}, false
	}
	return ses, true
}

func (s *Store) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// Len counts stored sessions, expired ones included until swept.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) sweep(now time.Time) {
	for k, v := range s.sessions {
		if !now.Before(v.Expires) {
			delete(s.sessions, k)
		}
	}
}
