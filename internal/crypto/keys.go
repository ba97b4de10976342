package crypto

import (
	"crypto/rand"
	"fmt"
	"io"

	"barrow/internal/domain"
)

// GenerateRepoID draws a fresh random repository identity.
func GenerateRepoID() (domain.RepoID, error) {
	var id domain.RepoID
	if _, err := io.ReadFull(rand.Reader, id[:]); err != nil {
		return domain.RepoID{}, fmt.Errorf("generate repository id: %w", err)
	}
	return id, nil
}

// GenerateKeyMaterial draws fresh random data and MAC keys. The keys are
// independent of any passphrase: the passphrase only ever wraps them.
func GenerateKeyMaterial() (*domain.KeyMaterial, error) {
	km := &domain.KeyMaterial{}
	if _, err := io.ReadFull(rand.Reader, km.EncKey[:]); err != nil {
		return nil, fmt.Errorf("generate data key: %w", err)
	}
	if _, err := io.ReadFull(rand.Reader, km.MACKey[:]); err != nil {
		return nil, fmt.Errorf("generate hash key: %w", err)
	}
	return km, nil
}
