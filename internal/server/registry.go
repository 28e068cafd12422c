package server

import (
	"context"
	"sync"
	"time"

	"github.com/abhisek/scholar/internal/quiz"
)

// Registry holds live quiz sessions in memory. An entry expires ttl after
// its last access.
type Registry struct {
	mu        sync.RWMutex
	sessions  map[string]*quiz.Session
	expiresAt map[string]time.Time
	ttl       time.Duration
	now       func() time.Time
}

// NewRegistry creates a registry. A zero ttl keeps sessions forever.
func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		sessions:  make(map[string]*quiz.Session),
		expiresAt: make(map[string]time.Time),
		ttl:       ttl,
		now:       time.Now,
	}
}

// Put stores s under its ID.
func (r *Registry) Put(s *quiz.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID()] = s
	if r.ttl > 0 {
		r.expiresAt[s.ID()] = r.now().Add(r.ttl)
	}
}

// Get returns the session with id and extends its lifetime. Expired
// sessions are not returned even before the sweep removes them.
func (r *Registry) Get(id string) (*quiz.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	if r.ttl > 0 {
		now := r.now()
		if exp, ok := r.expiresAt[id]; ok && now.After(exp) {
			return nil, false
		}
		r.expiresAt[id] = now.Add(r.ttl)
	}
	return s, true
}

// Delete removes the session with id.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	delete(r.expiresAt, id)
}

// Len returns the number of stored sessions, expired or not.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// CleanupExpired removes expired sessions and returns how many it removed.
func (r *Registry) CleanupExpired() int {
	if r.ttl == 0 {
		return 0
	}
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, exp := range r.expiresAt {
		if now.After(exp) {
			delete(r.sessions, id)
			delete(r.expiresAt, id)
			n++
		}
	}
	return n
}

// Sweep runs CleanupExpired every interval until ctx is done.
func (r *Registry) Sweep(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.CleanupExpired()
		}
	}
}
