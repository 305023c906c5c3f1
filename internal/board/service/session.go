package service

import (
	"sync"

	"github.com/google/uuid"
)

// session carries the per-tenant board state that used to be ambient:
// the reentrancy guard for multi-write mutations and the bootstrap flag.
// Sessions are process-local; each tenant's board is independent.
type session struct {
	mu sync.Mutex

	// mutating suppresses the live-subscription handler while a multi-step
	// mutation is writing intermediate states.
	mutating bool
	// bootstrapping prevents a second bootstrap racing a concurrent empty
	// snapshot.
	bootstrapping bool

	// opMu serializes mutations for one tenant.
	opMu sync.Mutex

	unsubscribe func()
}

// beginMutation sets the reentrancy guard. Returns false if a mutation is
// already in flight.
func (s *session) beginMutation() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mutating {
		return false
	}
	s.mutating = true
	return true
}

func (s *session) endMutation() {
	s.mu.Lock()
	s.mutating = false
	s.mu.Unlock()
}

func (s *session) isMutating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutating
}

// beginBootstrap sets the bootstrap guard. Returns false if a bootstrap is
// already in flight.
func (s *session) beginBootstrap() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bootstrapping {
		return false
	}
	s.bootstrapping = true
	return true
}

func (s *session) endBootstrap() {
	s.mu.Lock()
	s.bootstrapping = false
	s.mu.Unlock()
}

// sessionRegistry hands out one session per tenant.
type sessionRegistry struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*session
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{sessions: make(map[uuid.UUID]*session)}
}

func (r *sessionRegistry) get(tenantID uuid.UUID) *session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[tenantID]
	if !ok {
		s = &session{}
		r.sessions[tenantID] = s
	}
	return s
}
