package app

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is the per-visitor state: the expense list and the request
// tokens of each result panel.
type Session struct {
	ID       string
	Expenses *ExpenseLedger
	Tokens   *RequestTokens

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

type Sessions struct {
	mu  sync.RWMutex
	m   map[string]*Session
	now func() time.Time
}

func NewSessions() *Sessions {
	return &Sessions{m: map[string]*Session{}, now: time.Now}
}

// Get returns the live session for id. An empty or unknown id gets a new
// session under a server-minted identifier; client-chosen ids are never
// adopted.
func (s *Sessions) Get(id string) *Session {
	now := s.now()
	if id != "" {
		s.mu.RLock()
		sess, ok := s.m[id]
		s.mu.RUnlock()
		if ok {
			sess.touch(now)
			return sess
		}
	}

	sess := &Session{ID: uuid.NewString(), Expenses: NewExpenseLedger(), Tokens: NewRequestTokens(), lastSeen: now}
	s.mu.Lock()
	s.m[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

// Evict drops sessions idle for longer than idle and returns how many went.
func (s *Sessions) Evict(idle time.Duration) int {
	cutoff := s.now().Add(-idle)
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, sess := range s.m {
		if sess.idleSince().Before(cutoff) {
			delete(s.m, id)
			n++
		}
	}
	return n
}
