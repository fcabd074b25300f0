package app

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/klabast/wb-services/dk-days/internal/stay"
)

// Session owns one browser's presence set.
// All reads and writes of the set go through the session's mutex.
type Session struct {
	ID string

	mu       sync.Mutex
	presence *stay.PresenceSet
	lastSeen time.Time
}

// Snapshot returns an immutable copy of the presence set for computation
func (s *Session) Snapshot() *stay.PresenceSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presence.Clone()
}

// Update runs fn with exclusive access to the presence set and returns a snapshot taken afterwards
func (s *Session) Update(fn func(p *stay.PresenceSet) error) (*stay.PresenceSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(s.presence); err != nil {
		return nil, err
	}
	return s.presence.Clone(), nil
}

// SessionStore keeps sessions in memory, keyed by cookie
type SessionStore struct {
	CookieName string

	mu       sync.Mutex
	sessions map[string]*Session
	seed     *stay.PresenceSet
}

// NewSessionStore creates a store whose new sessions start from seed (may be nil)
func NewSessionStore(cookieName string, seed *stay.PresenceSet) *SessionStore {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	return &SessionStore{
		CookieName: cookieName,
		sessions:   make(map[string]*Session),
		seed:       seed,
	}
}

// Get returns the request's session, creating one and setting the cookie if needed.
// Only mutating handlers call it, so read-only visits leave no session behind.
func (st *SessionStore) Get(w http.ResponseWriter, r *http.Request) *Session {
	if c, err := r.Cookie(st.CookieName); err == nil {
		if s := st.lookup(c.Value); s != nil {
			return s
		}
	}

	s := st.create()
	http.SetCookie(w, &http.Cookie{
		Name:     st.CookieName,
		Value:    s.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return s
}

// Snapshot returns a copy of the request's presence set without creating a session.
// Requests without a known session see the seed.
func (st *SessionStore) Snapshot(r *http.Request) *stay.PresenceSet {
	if c, err := r.Cookie(st.CookieName); err == nil {
		if s := st.lookup(c.Value); s != nil {
			return s.Snapshot()
		}
	}
	return st.seed.Clone()
}

// Len returns the number of live sessions
func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Prune drops sessions idle since before cutoff and returns how many were removed
func (st *SessionStore) Prune(cutoff time.Time) int {
	st.mu.Lock()
	defer st.mu.Unlock()
	removed := 0
	for id, s := range st.sessions {
		s.mu.Lock()
		idle := s.lastSeen.Before(cutoff)
		s.mu.Unlock()
		if idle {
			delete(st.sessions, id)
			removed++
		}
	}
	ActiveSessions.Set(float64(len(st.sessions)))
	return removed
}

func (st *SessionStore) lookup(id string) *Session {
	st.mu.Lock()
	s, ok := st.sessions[id]
	st.mu.Unlock()
	if !ok {
		return nil
	}
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
	return s
}

func (st *SessionStore) create() *Session {
	s := &Session{
		ID:       uuid.NewString(),
		presence: st.seed.Clone(),
		lastSeen: time.Now(),
	}
	st.mu.Lock()
	st.sessions[s.ID] = s
	ActiveSessions.Set(float64(len(st.sessions)))
	st.mu.Unlock()
	return s
}
