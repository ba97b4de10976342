package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"barrow/internal/domain"
)

const configFilename = "config.json"

// ConfigFileStore persists the repository configuration record inside the
// repository directory.
type ConfigFileStore struct {
	mu sync.Mutex
}

// NewConfigFileStore returns a ConfigFileStore.
func NewConfigFileStore() *ConfigFileStore { return &ConfigFileStore{} }

// CreateConfig writes the record for a brand-new repository. The final
// commit is exclusive: when two initializers race on the same path exactly
// one wins, the other observes ErrAlreadyExists and nothing of its attempt
// remains.
func (s *ConfigFileStore) CreateConfig(repoPath string, cfg domain.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(repoPath, 0o700); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistenceFailure, err)
	}
	err := createJSON(filepath.Join(repoPath, configFilename), cfg, 0o600)
	if errors.Is(err, os.ErrExist) {
		return fmt.Errorf("%w: %s", domain.ErrAlreadyExists, repoPath)
	}
	return err
}

// SaveConfig atomically replaces an existing record. Only administrative
// operations (passphrase change, append-only toggle) go through here.
func (s *ConfigFileStore) SaveConfig(repoPath string, cfg domain.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(repoPath, configFilename)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", domain.ErrNotRepository, repoPath)
		}
		return fmt.Errorf("%w: %v", domain.ErrPersistenceFailure, err)
	}
	return writeJSON(path, cfg, 0o600)
}

// LoadConfig reads the record.
func (s *ConfigFileStore) LoadConfig(repoPath string) (domain.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cfg domain.Config
	err := readJSON(filepath.Join(repoPath, configFilename), &cfg)
	if errors.Is(err, os.ErrNotExist) {
		return domain.Config{}, fmt.Errorf("%w: %s", domain.ErrNotRepository, repoPath)
	}
	if err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

// Compile-time assertion that ConfigFileStore implements domain.ConfigStore.
var _ domain.ConfigStore = (*ConfigFileStore)(nil)
