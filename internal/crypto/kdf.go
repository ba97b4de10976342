package crypto

import (
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"

	"barrow/internal/domain"
)

const (
	kdfArgon2id = "argon2id"

	saltBytes = 16
	// KeyBytes is the size of every derived and generated key.
	KeyBytes = 32
)

// NewKDFParams returns the Argon2id work profile used for new key records,
// with a fresh random salt. The parameters travel inside the record, so they
// can be raised later without breaking records written with older settings.
func NewKDFParams() (domain.KDFParams, error) {
	salt := make([]byte, saltBytes)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return domain.KDFParams{}, fmt.Errorf("generate salt: %w", err)
	}
	return domain.KDFParams{
		ID:      kdfArgon2id,
		Salt:    salt,
		Time:    3,
		Memory:  64 * 1024, // KiB
		Threads: 2,
	}, nil
}

// DeriveKEK derives the key-encrypting key from a passphrase. The KEK only
// wraps and unwraps the repository's actual keys; it is never used as a data
// key, so a passphrase change never changes stored chunk identities.
//
// The passphrase is opaque UTF-8 bytes; no normalization is applied.
func DeriveKEK(passphrase []byte, p domain.KDFParams) ([]byte, error) {
	if p.ID != kdfArgon2id {
		return nil, fmt.Errorf("%w: unknown kdf %q", domain.ErrInvalidRecord, p.ID)
	}
	if len(p.Salt) == 0 || p.Time == 0 || p.Memory == 0 || p.Threads == 0 {
		return nil, fmt.Errorf("%w: incomplete kdf parameters", domain.ErrInvalidRecord)
	}
	return argon2.IDKey(passphrase, p.Salt, p.Time, p.Memory, p.Threads, KeyBytes), nil
}
