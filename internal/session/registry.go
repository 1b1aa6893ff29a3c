package session

import "sync"

// Registry holds the running quiz of each user. At most one per user.
type Registry struct {
	mu     sync.Mutex
	active map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{active: make(map[string]*Session)}
}

// reserve claims userID for s, or returns ErrSessionActive leaving the current one as is.
func (r *Registry) reserve(userID string, s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.active[userID]; ok {
		return ErrSessionActive
	}
	r.active[userID] = s
	return nil
}

func (r *Registry) release(userID string, s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active[userID] == s {
		delete(r.active, userID)
	}
}

func (r *Registry) Get(userID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.active[userID]
	return s, ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.active)
}
