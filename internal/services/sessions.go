package services

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Per-client planning state: a route planner and a bulk selection.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time
	Planner   *RoutePlanner
	Bulk      *BulkCoordinator
}

// SessionRegistry owns every live session.
type SessionRegistry struct {
	newPlanner func() *RoutePlanner
	newBulk    func() *BulkCoordinator

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

func NewSessionRegistry(newPlanner func() *RoutePlanner, newBulk func() *BulkCoordinator) *SessionRegistry {
	return &SessionRegistry{
		newPlanner: newPlanner,
		newBulk:    newBulk,
		sessions:   make(map[uuid.UUID]*Session),
	}
}

func (r *SessionRegistry) Create() *Session {
	s := &Session{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
		Planner:   r.newPlanner(),
		Bulk:      r.newBulk(),
	}

	r.mu.Lock()
	r.sessions[s.ID] = s
	n := len(r.sessions)
	r.mu.Unlock()

	log.Printf("session created id=%s active=%d", s.ID, n)
	return s
}

func (r *SessionRegistry) Get(id uuid.UUID) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// End removes the session and cancels its in-flight route request.
func (r *SessionRegistry) End(id uuid.UUID) bool {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	n := len(r.sessions)
	r.mu.Unlock()

	if !ok {
		return false
	}
	s.Planner.Reset()
	s.Bulk.Close()
	log.Printf("session ended id=%s active=%d", id, n)
	return true
}

func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
