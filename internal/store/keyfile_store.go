package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"barrow/internal/domain"
)

const keyfileExt = ".key"

// KeyfileFileStore persists external key records in a directory outside any
// repository tree, one file per repository identity.
type KeyfileFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewKeyfileFileStore returns a KeyfileFileStore rooted at dir.
func NewKeyfileFileStore(dir string) *KeyfileFileStore {
	return &KeyfileFileStore{dir: dir}
}

// DefaultKeysDir is where key files live unless overridden, under the
// user's configuration directory.
func DefaultKeysDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "barrow", "keys"), nil
}

// SaveKey atomically writes (or replaces) the key record for id.
func (s *KeyfileFileStore) SaveKey(id domain.RepoID, rec domain.KeyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistenceFailure, err)
	}
	return writeJSON(s.path(id), rec, 0o600)
}

// LoadKey reads the key record for id.
func (s *KeyfileFileStore) LoadKey(id domain.RepoID) (domain.KeyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rec domain.KeyRecord
	err := readJSON(s.path(id), &rec)
	if errors.Is(err, os.ErrNotExist) {
		return domain.KeyRecord{}, fmt.Errorf("%w: no key file for repository %s",
			domain.ErrKeyNotFound, id.Hex())
	}
	if err != nil {
		return domain.KeyRecord{}, err
	}
	return rec, nil
}

// RemoveKey deletes the key record for id; absence is not an error.
func (s *KeyfileFileStore) RemoveKey(id domain.RepoID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(id))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %v", domain.ErrPersistenceFailure, err)
	}
	return nil
}

func (s *KeyfileFileStore) path(id domain.RepoID) string {
	return filepath.Join(s.dir, id.Hex()+keyfileExt)
}

// Compile-time assertion that KeyfileFileStore implements domain.KeyfileStore.
var _ domain.KeyfileStore = (*KeyfileFileStore)(nil)
