package session

import (
	"log"
	"sync"
	"time"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/imrishuroy/go-restaurant-orderboard/internal/orders"
)

// DefaultIdleTTL is how long an untouched session survives.
const DefaultIdleTTL = 2 * time.Hour

type entry struct {
	session  *Session
	lastSeen time.Time
}

// Registry holds live sessions by id. Sessions idle for longer than the TTL
// are dropped on the next Create or Sweep.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*entry
	store    *orders.Store
	validate *validatorv10.Validate
	idleTTL  time.Duration

	nowFunc func() time.Time
}

// NewRegistry creates a Registry whose sessions check out into store.
// idleTTL <= 0 takes DefaultIdleTTL.
func NewRegistry(store *orders.Store, v *validatorv10.Validate, idleTTL time.Duration) *Registry {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	return &Registry{
		sessions: map[string]*entry{},
		store:    store,
		validate: v,
		idleTTL:  idleTTL,
		nowFunc:  time.Now,
	}
}

// Create starts a new session.
func (r *Registry) Create() *Session {
	s := New(r.store, r.validate)
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.nowFunc()
	r.sweepLocked(now)
	r.sessions[s.ID] = &entry{session: s, lastSeen: now}
	return s
}

// Get returns the session with id and marks it as seen, or nil when it is
// unknown or has gone idle.
func (r *Registry) Get(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		return nil
	}
	now := r.nowFunc()
	if now.Sub(e.lastSeen) > r.idleTTL {
		delete(r.sessions, id)
		return nil
	}
	e.lastSeen = now
	return e.session
}

// Sweep drops idle sessions and returns how many went.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sweepLocked(r.nowFunc())
}

func (r *Registry) sweepLocked(now time.Time) int {
	n := 0
	for id, e := range r.sessions {
		if now.Sub(e.lastSeen) > r.idleTTL {
			delete(r.sessions, id)
			n++
		}
	}
	if n > 0 {
		log.Printf("[session] evicted %d idle session(s)", n)
	}
	return n
}

// Len is the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
