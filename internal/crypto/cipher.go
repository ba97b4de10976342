package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"hash"
	"io"
	"sync/atomic"

	"golang.org/x/crypto/blake2b"

	"barrow/internal/domain"
)

const ctrNonceBytes = aes.BlockSize

// Sealer provides per-chunk encrypt+authenticate and the content-addressing
// hash for one repository session. It holds no mutable state beyond an atomic
// nonce counter and is safe for concurrent use by chunk workers.
type Sealer struct {
	suite Suite
	keys  *domain.KeyMaterial

	// block is the AES key schedule, expanded once per session; stdlib
	// cipher.Block is safe for concurrent use.
	block cipher.Block

	// CTR nonces are an 8-byte random session prefix plus an 8-byte
	// monotonically advancing counter. Uniqueness is structural: the
	// counter never derives from input and restarting a session draws a
	// fresh prefix.
	noncePrefix [8]byte
	nonceCtr    atomic.Uint64
}

// NewSealer builds a Sealer for the resolved suite and unlocked key material.
// Keyed suites refuse all-zero key material, which would indicate an unlock
// that never happened.
func NewSealer(s Suite, km *domain.KeyMaterial) (*Sealer, error) {
	if km == nil {
		km = &domain.KeyMaterial{}
	}
	if s.RequiresKey && km.MACKey == [KeyBytes]byte{} {
		return nil, fmt.Errorf("mode %q: missing key material", s.Mode)
	}
	sl := &Sealer{suite: s, keys: km}
	if s.Encrypts {
		block, err := aes.NewCipher(km.EncKey[:])
		if err != nil {
			return nil, err
		}
		sl.block = block
		if _, err := io.ReadFull(rand.Reader, sl.noncePrefix[:]); err != nil {
			return nil, fmt.Errorf("generate nonce prefix: %w", err)
		}
	}
	return sl, nil
}

// Suite returns the algorithm bundle this sealer was built with.
func (s *Sealer) Suite() Suite { return s.suite }

// ChunkID computes the content-addressing hash of plaintext. For keyed modes
// this is the keyed hash under the repository's MAC key; for "none" it is
// plain SHA-256.
func (s *Sealer) ChunkID(plaintext []byte) domain.ChunkID {
	var id domain.ChunkID
	copy(id[:], s.digest(plaintext, nil))
	return id
}

// Seal computes the chunk ID over the plaintext, encrypts when the suite
// provides confidentiality, and authenticates the transmitted bytes
// (encrypt-then-MAC: the tag covers nonce and ciphertext, not plaintext).
func (s *Sealer) Seal(plaintext []byte) (domain.ChunkID, domain.SealedChunk, error) {
	id := s.ChunkID(plaintext)

	rec := domain.SealedChunk{}
	if s.suite.Encrypts {
		nonce := s.nextNonce()
		ct := make([]byte, len(plaintext))
		cipher.NewCTR(s.block, nonce).XORKeyStream(ct, plaintext)
		rec.Nonce = nonce
		rec.Ciphertext = ct
	} else {
		rec.Ciphertext = append([]byte(nil), plaintext...)
	}
	rec.Tag = s.digest(rec.Ciphertext, rec.Nonce)
	return id, rec, nil
}

// Open verifies the tag over the received bytes and only then decrypts.
// A mismatch means the chunk is corrupt or tampered; no plaintext is ever
// produced from unauthenticated data.
func (s *Sealer) Open(rec domain.SealedChunk) ([]byte, error) {
	want := s.digest(rec.Ciphertext, rec.Nonce)
	if !hmac.Equal(want, rec.Tag) {
		return nil, domain.ErrAuthenticationFailed
	}
	if !s.suite.Encrypts {
		return append([]byte(nil), rec.Ciphertext...), nil
	}
	if len(rec.Nonce) != ctrNonceBytes {
		return nil, fmt.Errorf("%w: bad nonce length %d", domain.ErrInvalidRecord, len(rec.Nonce))
	}
	pt := make([]byte, len(rec.Ciphertext))
	cipher.NewCTR(s.block, rec.Nonce).XORKeyStream(pt, rec.Ciphertext)
	return pt, nil
}

// nextNonce returns a fresh 16-byte CTR IV.
func (s *Sealer) nextNonce() []byte {
	nonce := make([]byte, ctrNonceBytes)
	copy(nonce, s.noncePrefix[:])
	binary.BigEndian.PutUint64(nonce[8:], s.nonceCtr.Add(1))
	return nonce
}

// digest runs the suite's hash primitive over nonce||data. With a nil nonce
// it doubles as the chunk-ID hash over plaintext.
func (s *Sealer) digest(data, nonce []byte) []byte {
	var h hash.Hash
	switch s.suite.Hash {
	case HashHMACSHA256:
		h = hmac.New(sha256.New, s.keys.MACKey[:])
	case HashBlake2b:
		// Key size is fixed at 32 bytes, well under the BLAKE2b limit;
		// New256 cannot fail for it.
		h, _ = blake2b.New256(s.keys.MACKey[:])
	default:
		h = sha256.New()
	}
	h.Write(nonce)
	h.Write(data)
	return h.Sum(nil)
}
