package actor

import "sync"

// SessionState tracks where session resolution stands. Protected content must
// not render until the state leaves StateUnresolved/StateResolving.
type SessionState int

const (
	StateUnresolved SessionState = iota
	StateResolving
	StateAnonymous
	StateAuthenticated
)

func (s SessionState) String() string {
	switch s {
	case StateUnresolved:
		return "unresolved"
	case StateResolving:
		return "resolving"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	}
	return "unknown"
}

// Session is the process-wide authentication state. It is owned exclusively by
// the Service; consumers only ever see value Snapshots, never the Session
// itself. All mutations happen under the Session lock, which also serializes
// Login/Logout/Resolve against each other.
type Session struct {
	mu    sync.Mutex
	state SessionState
	actor Actor
}

// Snapshot is a read-only copy of the Session at a point in time.
type Snapshot struct {
	State SessionState
	Actor Actor // zero value unless State == StateAuthenticated
}

func NewSession() *Session {
	return &Session{state: StateUnresolved}
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// snapshot must be called with the lock held.
func (s *Session) snapshot() Snapshot {
	snap := Snapshot{State: s.state}
	if s.state == StateAuthenticated {
		snap.Actor = s.actor
	}
	return snap
}

// setResolving must be called with the lock held.
func (s *Session) setResolving() {
	s.state = StateResolving
	s.actor = Actor{}
}

// setAnonymous must be called with the lock held.
func (s *Session) setAnonymous() {
	s.state = StateAnonymous
	s.actor = Actor{}
}

// setAuthenticated must be called with the lock held.
func (s *Session) setAuthenticated(act Actor) {
	s.state = StateAuthenticated
	s.actor = act
}
