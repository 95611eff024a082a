package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hexhaven/hexhaven/internal/fileutil"
	"github.com/hexhaven/hexhaven/internal/roomid"
)

// FileStore persists snapshots as one JSON file per room. Writes go through
// an atomic rename so a crash never leaves a truncated snapshot behind.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// path validates the room code before touching the filesystem, so a
// malicious code can never escape the snapshot directory.
func (s *FileStore) path(roomID string) (string, error) {
	if err := roomid.Validate(roomID); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, roomID+".json"), nil
}

func (s *FileStore) Get(roomID string) ([]byte, error) {
	p, err := s.path(roomID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	return data, err
}

func (s *FileStore) Commit(roomID string, data []byte) error {
	p, err := s.path(roomID)
	if err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(p, data, 0o644)
}

func (s *FileStore) Remove(roomID string) error {
	p, err := s.path(roomID)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// List returns the room codes that have snapshots on disk.
func (s *FileStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var rooms []string
	for _, e := range entries {
		name := e.Name()
		if filepath.Ext(name) != ".json" {
			continue
		}
		code := name[:len(name)-len(".json")]
		if roomid.Validate(code) == nil {
			rooms = append(rooms, code)
		}
	}
	return rooms, nil
}
