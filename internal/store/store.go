// Package store persists room snapshots so a restarted server can restore
// games in progress.
package store

import (
	"errors"
	"sync"
)

// ErrNotFound is returned when no snapshot exists for a room.
var ErrNotFound = errors.New("snapshot not found")

// Store saves and loads room snapshots keyed by room code.
type Store interface {
	// Get returns the latest snapshot for a room, or ErrNotFound.
	Get(roomID string) ([]byte, error)
	// Commit replaces the snapshot for a room.
	Commit(roomID string, data []byte) error
	// Remove deletes the snapshot for a room. Removing a missing room is not
	// an error.
	Remove(roomID string) error
	// List returns the room codes of every stored snapshot.
	List() ([]string, error)
}

// MemoryStore keeps snapshots in memory. Suitable for tests and for servers
// that do not need restart recovery.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[string][]byte)}
}

func (s *MemoryStore) Get(roomID string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.snapshots[roomID]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *MemoryStore) Commit(roomID string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	s.snapshots[roomID] = buf
	return nil
}

func (s *MemoryStore) Remove(roomID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, roomID)
	return nil
}

func (s *MemoryStore) List() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.snapshots))
	for roomID := range s.snapshots {
		out = append(out, roomID)
	}
	return out, nil
}
