package server

import (
	"sync"
	"time"
)

// PlayerSnapshot is the full persisted player blob plus the server
// timestamp it was written at.
type PlayerSnapshot struct {
	Player  Player    `json:"player"`
	SavedAt time.Time `json:"savedAt"`
}

// Store is the persistence gateway: whole-snapshot replace writes keyed
// by player name, plus one global world blob. Last writer wins.
type Store interface {
	Load(name string) (PlayerSnapshot, bool, error)
	Save(name string, snap PlayerSnapshot) error
	LoadWorld() (WorldSnapshot, bool, error)
	SaveWorld(snap WorldSnapshot) error
}

// MemoryStore keeps snapshots in process. It backs tests and any run
// without a database path configured.
type MemoryStore struct {
	mu       sync.Mutex
	players  map[string]PlayerSnapshot
	world    WorldSnapshot
	hasWorld bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{players: make(map[string]PlayerSnapshot)}
}

func (s *MemoryStore) Load(name string) (PlayerSnapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.players[name]
	return snap, ok, nil
}

func (s *MemoryStore) Save(name string, snap PlayerSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[name] = snap
	return nil
}

func (s *MemoryStore) LoadWorld() (WorldSnapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.world, s.hasWorld, nil
}

func (s *MemoryStore) SaveWorld(snap WorldSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.world = snap
	s.hasWorld = true
	return nil
}
