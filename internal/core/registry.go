package core

import (
	"sort"
	"sync"
)

// sessionRegistry indexes live sessions by id.
type sessionRegistry struct {
	mu   sync.RWMutex
	byID map[string]*Session
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{byID: make(map[string]*Session)}
}

// add registers s unless the registry already holds max sessions.
// A max of zero or less means no limit.
func (r *sessionRegistry) add(s *Session, max int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if max > 0 && len(r.byID) >= max {
		return ErrTooManySessions
	}
	r.byID[s.ID] = s
	return nil
}

func (r *sessionRegistry) get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byID[id]
	return s, ok
}

func (r *sessionRegistry) remove(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byID[id]
	if ok {
		delete(r.byID, id)
	}
	return s, ok
}

// all returns the sessions sorted by creation time, then id.
func (r *sessionRegistry) all() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Session, 0, len(r.byID))
	for _, s := range r.byID {
		result = append(result, s)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].Created.Equal(result[j].Created) {
			return result[i].Created.Before(result[j].Created)
		}
		return result[i].ID < result[j].ID
	})

	return result
}

func (r *sessionRegistry) count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
