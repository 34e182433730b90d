package host

import (
	"sync"

	"github.com/google/uuid"
)

// Repository stores live hosted games. Implementations must be safe for
// concurrent use; the in-memory store below is the default.
type Repository interface {
	Put(g *HostedGame)
	Get(id uuid.UUID) (*HostedGame, bool)
	Delete(id uuid.UUID)
	IDs() []uuid.UUID
}

// MemoryStore is a map-backed Repository.
type MemoryStore struct {
	mu    sync.RWMutex
	games map[uuid.UUID]*HostedGame
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{games: make(map[uuid.UUID]*HostedGame)}
}

// Put registers a game, replacing any previous game with the same id.
func (s *MemoryStore) Put(g *HostedGame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[g.ID] = g
}

// Get looks up a game by id.
func (s *MemoryStore) Get(id uuid.UUID) (*HostedGame, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.games[id]
	return g, ok
}

// Delete removes a game. Removing an absent id is a no-op.
func (s *MemoryStore) Delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
}

// IDs returns the ids of all stored games, in no particular order.
func (s *MemoryStore) IDs() []uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]uuid.UUID, 0, len(s.games))
	for id := range s.games {
		ids = append(ids, id)
	}
	return ids
}
