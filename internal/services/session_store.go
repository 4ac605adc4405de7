package services

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Session is one questionnaire walk over a meeting.
type Session struct {
	ID        string
	MeetingID string
	CreatedAt time.Time

	lastSeen atomic.Int64
	mu       sync.Mutex
	nav      *Navigator
}

// LastSeen is when the session was last looked up.
func (s *Session) LastSeen() time.Time { return time.Unix(0, s.lastSeen.Load()).UTC() }

// SessionStore holds navigation sessions in memory. Sessions are never
// persisted; a restart discards progress through the questionnaire but not
// the answers already saved on the meeting.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: map[string]*Session{}, now: func() time.Time { return time.Now().UTC() }}
}

func (s *SessionStore) Create(meetingID string, nav *Navigator) *Session {
	sess := &Session{ID: uuid.NewString(), MeetingID: meetingID, CreatedAt: s.now(), nav: nav}
	sess.lastSeen.Store(sess.CreatedAt.UnixNano())
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// Get returns the session and marks it as seen.
func (s *SessionStore) Get(id string) *Session {
	s.mu.RLock()
	sess := s.sessions[id]
	s.mu.RUnlock()
	if sess != nil {
		sess.lastSeen.Store(s.now().UnixNano())
	}
	return sess
}

func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// CleanupBefore drops sessions not seen since cutoff and returns how many
// were removed.
func (s *SessionStore) CleanupBefore(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		if sess.LastSeen().Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
