package server

import (
	"sync"
	"time"

	"github.com/matst80/node-finder/pkg/index"
)

const DefaultSessionTTL = 2 * time.Hour

type sessionEntry struct {
	session *index.Session
	user    string
	screen  string
}

// SessionStore keeps the live screen sessions keyed by session cookie and
// screen. Sessions idle longer than the ttl are dropped.
type SessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*sessionEntry
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		sessions: make(map[string]*sessionEntry),
	}
}

func sessionKey(sessionId, screen string) string {
	return sessionId + ":" + screen
}

func (s *SessionStore) Get(sessionId, screen string) (*sessionEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[sessionKey(sessionId, screen)]
	return e, ok
}

// GetOrCreate returns the existing session or stores the one create builds.
// create runs without the store lock, when another request stored the same
// session first the built one is closed and the stored one returned.
// created reports whether the built session was stored.
func (s *SessionStore) GetOrCreate(sessionId, screen string, create func() (*sessionEntry, error)) (entry *sessionEntry, created bool, err error) {
	if e, ok := s.Get(sessionId, screen); ok {
		return e, false, nil
	}
	e, err := create()
	if err != nil {
		return nil, false, err
	}
	key := sessionKey(sessionId, screen)
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[key]; ok {
		e.session.Close()
		return existing, false, nil
	}
	s.expireUnsafe()
	s.sessions[key] = e
	return e, true, nil
}

func (s *SessionStore) Remove(sessionId, screen string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := sessionKey(sessionId, screen)
	e, ok := s.sessions[key]
	if ok {
		e.session.Close()
		delete(s.sessions, key)
	}
	return ok
}

// ForUser calls fn for every persisted session of the user on the screen.
func (s *SessionStore) ForUser(user, screen string, fn func(*index.Session)) {
	s.mu.Lock()
	matching := make([]*index.Session, 0)
	for _, e := range s.sessions {
		if e.user == user && e.screen == screen && !e.session.IsTransient() {
			matching = append(matching, e.session)
		}
	}
	s.mu.Unlock()
	for _, session := range matching {
		fn(session)
	}
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *SessionStore) expireUnsafe() {
	if s.ttl <= 0 {
		return
	}
	limit := time.Now().Add(-s.ttl)
	for key, e := range s.sessions {
		if e.session.LastUsed().Before(limit) {
			e.session.Close()
			delete(s.sessions, key)
		}
	}
}
