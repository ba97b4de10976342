package domain

import (
	"encoding/hex"
	"fmt"

	"barrow/internal/util/memzero"
)

// RepoID is the fixed-size random repository identity, generated once at
// initialization and immutable afterwards. It disambiguates key files stored
// outside the repository tree.
type RepoID [32]byte

func (id RepoID) Slice() []byte { return id[:] }

// Hex returns the lowercase hex form used in file names and records.
func (id RepoID) Hex() string { return hex.EncodeToString(id[:]) }

// ParseRepoID decodes the hex form produced by Hex.
func ParseRepoID(s string) (RepoID, error) {
	var id RepoID
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != len(id) {
		return RepoID{}, fmt.Errorf("%w: bad repository id %q", ErrInvalidRecord, s)
	}
	copy(id[:], b)
	return id, nil
}

// ChunkID is the content-addressing hash of a chunk's plaintext. It is both
// the chunk's storage address and its deduplication key.
type ChunkID [32]byte

func (id ChunkID) Slice() []byte { return id[:] }
func (id ChunkID) Hex() string   { return hex.EncodeToString(id[:]) }

// KDFParams records the key-derivation function and its work factor alongside
// the wrapped key, so parameters can be strengthened later without breaking
// records written with older settings.
type KDFParams struct {
	ID      string `json:"id"`
	Salt    []byte `json:"salt"`
	Time    uint32 `json:"time"`
	Memory  uint32 `json:"memory"`
	Threads uint8  `json:"threads"`
}

// KeyRecord is the wrapped (encrypted and authenticated) key material as
// persisted, either inline in the repository config or in an external key
// file. It is written whole and replaced whole; cryptographic fields are
// never patched in place.
type KeyRecord struct {
	Version int       `json:"version"`
	RepoID  string    `json:"repo_id"`
	KDF     KDFParams `json:"kdf"`
	Nonce   []byte    `json:"nonce"`
	Wrapped []byte    `json:"wrapped"`
	Check   []byte    `json:"check"`
}

// Config is the persisted repository configuration record. It is created at
// initialization, read at every open, and mutated only by explicit
// administrative operations. Unknown fields written by newer versions are
// ignored on read, keeping the record forward-readable.
type Config struct {
	Version    int    `json:"version"`
	ID         string `json:"id"`
	Encryption Mode   `json:"encryption"`
	AppendOnly bool   `json:"append_only"`

	// Storage-layout parameters, passed through verbatim for the storage
	// engine. This core never interprets them.
	SegmentsPerDir int `json:"segments_per_dir"`
	MaxSegmentSize int `json:"max_segment_size"`

	// Key holds the wrapped key record for inline-key modes.
	Key *KeyRecord `json:"key,omitempty"`
}

// KeyMaterial holds the unwrapped data key and keyed-hash key for one
// session. It exists only between a successful unlock and Release; it is
// never persisted in the clear.
type KeyMaterial struct {
	// EncKey is the AES-256 data key for chunk confidentiality.
	EncKey [32]byte
	// MACKey keys both the per-chunk authentication tag and the
	// content-addressing hash. Using the same keyed function for both is
	// what binds deduplication identity to the repository secret.
	MACKey [32]byte
}

// Release zeroes the key material. Safe to call more than once.
func (km *KeyMaterial) Release() {
	memzero.Zero(km.EncKey[:])
	memzero.Zero(km.MACKey[:])
}

// SealedChunk is the encrypt-then-MAC record produced for one chunk. The tag
// covers the nonce and the ciphertext, never the plaintext, so verification
// happens before any decryption.
type SealedChunk struct {
	Nonce      []byte `json:"nonce,omitempty"`
	Ciphertext []byte `json:"ciphertext"`
	Tag        []byte `json:"tag"`
}
