package poemquiz

import (
	"sync"
	"time"
)

// ActiveSession pairs a quiz session with its sequencer and a mutex that
// serializes mutation. Two requests carrying the same session id (say, two
// browser tabs) would otherwise race on the session's counters.
type ActiveSession struct {
	mu        sync.Mutex
	Session   *QuizSession
	Sequencer *Sequencer
	Config    QuizConfig
	CreatedAt time.Time
}

// WithLock runs fn while holding the session's mutex.
func (a *ActiveSession) WithLock(fn func(*QuizSession, *Sequencer)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fn(a.Session, a.Sequencer)
}

// SessionRegistry tracks the live quiz sessions owned by a server process,
// keyed by an opaque session id. Sessions are in-memory only and vanish on
// restart.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*ActiveSession
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*ActiveSession),
	}
}

// Put registers (or replaces) the session for the given id.
func (r *SessionRegistry) Put(id string, session *QuizSession, seq *Sequencer, cfg QuizConfig) *ActiveSession {
	r.mu.Lock()
	defer r.mu.Unlock()

	active := &ActiveSession{
		Session:   session,
		Sequencer: seq,
		Config:    cfg,
		CreatedAt: time.Now(),
	}
	r.sessions[id] = active
	return active
}

// Get returns the session for the given id, if any.
func (r *SessionRegistry) Get(id string) (*ActiveSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	active, ok := r.sessions[id]
	return active, ok
}

// Remove discards the session for the given id.
func (r *SessionRegistry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Size returns the number of live sessions.
func (r *SessionRegistry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
