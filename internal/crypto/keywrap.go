package crypto

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"

	"barrow/internal/domain"
	"barrow/internal/util/memzero"
)

const (
	keyRecordVersion = 1
	checkBytes       = 16
)

// checkContext domain-separates the self-check MAC from chunk tags.
var checkContext = []byte("barrow key self-check v1")

// WrapKeys seals km under a passphrase-derived KEK and returns the record to
// persist. Every call uses a fresh salt and nonce; rewrapping after a
// passphrase change therefore replaces the whole record.
func WrapKeys(passphrase []byte, id domain.RepoID, km *domain.KeyMaterial) (domain.KeyRecord, error) {
	params, err := NewKDFParams()
	if err != nil {
		return domain.KeyRecord{}, err
	}
	kek, err := DeriveKEK(passphrase, params)
	if err != nil {
		return domain.KeyRecord{}, err
	}
	defer memzero.Zero(kek)

	aead, err := chacha20poly1305.New(kek)
	if err != nil {
		return domain.KeyRecord{}, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return domain.KeyRecord{}, fmt.Errorf("generate nonce: %w", err)
	}

	blob := make([]byte, 0, 2*KeyBytes)
	blob = append(blob, km.EncKey[:]...)
	blob = append(blob, km.MACKey[:]...)
	defer memzero.Zero(blob)

	// The repository id is bound as associated data, so a key record
	// cannot be replayed against a different repository.
	wrapped := aead.Seal(nil, nonce, blob, id.Slice())

	return domain.KeyRecord{
		Version: keyRecordVersion,
		RepoID:  id.Hex(),
		KDF:     params,
		Nonce:   nonce,
		Wrapped: wrapped,
		Check:   selfCheck(km),
	}, nil
}

// UnwrapKeys reverses WrapKeys. A wrong passphrase, a tampered record and a
// mismatched self check all surface as ErrInvalidPassphrase; the caller
// learns nothing about which field failed.
func UnwrapKeys(passphrase []byte, rec domain.KeyRecord) (*domain.KeyMaterial, error) {
	if rec.Version > keyRecordVersion {
		return nil, fmt.Errorf("%w: unsupported key record version %d",
			domain.ErrInvalidRecord, rec.Version)
	}
	id, err := domain.ParseRepoID(rec.RepoID)
	if err != nil {
		return nil, err
	}
	kek, err := DeriveKEK(passphrase, rec.KDF)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(kek)

	aead, err := chacha20poly1305.New(kek)
	if err != nil {
		return nil, err
	}
	// The record comes off disk and may be hand-edited; Open panics on a
	// bad nonce length, so malformed fields collapse into the same
	// generic failure as a wrong passphrase.
	if len(rec.Nonce) != aead.NonceSize() || len(rec.Wrapped) < aead.Overhead() {
		return nil, domain.ErrInvalidPassphrase
	}
	blob, err := aead.Open(nil, rec.Nonce, rec.Wrapped, id.Slice())
	if err != nil {
		return nil, domain.ErrInvalidPassphrase
	}
	defer memzero.Zero(blob)
	if len(blob) != 2*KeyBytes {
		return nil, domain.ErrInvalidPassphrase
	}

	km := &domain.KeyMaterial{}
	copy(km.EncKey[:], blob[:KeyBytes])
	copy(km.MACKey[:], blob[KeyBytes:])

	if !hmac.Equal(selfCheck(km), rec.Check) {
		km.Release()
		return nil, domain.ErrInvalidPassphrase
	}
	return km, nil
}

// selfCheck lets unlock verify passphrase correctness without exposing the
// unwrapped keys in any persisted form.
func selfCheck(km *domain.KeyMaterial) []byte {
	h := hmac.New(sha256.New, km.MACKey[:])
	h.Write(checkContext)
	return h.Sum(nil)[:checkBytes]
}
