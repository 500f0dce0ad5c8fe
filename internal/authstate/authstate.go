// Package authstate is the session object handed to everything that needs
// to know who is signed in. It replaces process-wide provider state.
package authstate

import (
	"sync"
)

// Phase is where a session is in its lifecycle.
type Phase int

const (
	Unloaded Phase = iota
	Loading
	Valid
	Invalid
	Cleared
)

func (p Phase) String() string {
	switch p {
	case Unloaded:
		return "unloaded"
	case Loading:
		return "loading"
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	case Cleared:
		return "cleared"
	}
	return "unknown"
}

// User is the signed-in account as seen by a client.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Session is safe for concurrent use.
type Session struct {
	mu         sync.RWMutex
	phase      Phase
	user       *User
	token      string
	generation uint64
}

// New returns an Unloaded session.
func New() *Session {
	return &Session{}
}

// BeginLoad starts a new load generation. Results from older generations
// are ignored by Resolve and Fail.
func (s *Session) BeginLoad() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.phase = Loading
	s.user = nil
	return s.generation
}

// Resolve records a confirmed user for generation gen. token may be empty
// when the credential lives in a cookie jar.
func (s *Session) Resolve(gen uint64, user User, token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation || s.phase != Loading {
		return false
	}
	u := user
	s.user = &u
	if token != "" {
		s.token = token
	}
	s.phase = Valid
	return true
}

// Fail marks generation gen as unauthenticated.
func (s *Session) Fail(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation || s.phase != Loading {
		return false
	}
	s.user = nil
	s.phase = Invalid
	return true
}

// SetToken stores a bearer token obtained outside a load, e.g. from a login.
func (s *Session) SetToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// SignOut clears the session. Only the call that performs the transition
// gets true, so callers can hang exactly one redirect off it.
func (s *Session) SignOut() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == Cleared {
		return false
	}
	s.phase = Cleared
	s.user = nil
	s.token = ""
	s.generation++
	return true
}

// Reset moves a cleared session back to Unloaded so a new sign-in can begin.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == Cleared {
		s.phase = Unloaded
	}
}

func (s *Session) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// User returns a copy of the confirmed user, or nil.
func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}
