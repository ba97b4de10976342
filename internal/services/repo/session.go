package repo

import (
	"barrow/internal/crypto"
	"barrow/internal/domain"
)

// Session is an unlocked repository: the configuration, the resolved
// algorithm suite and a ready chunk sealer. The chunking engine drives the
// Sealer from as many workers as it likes; the only shared state is the
// immutable key material.
type Session struct {
	Config domain.Config
	Suite  crypto.Suite
	Sealer *crypto.Sealer

	keys *domain.KeyMaterial
}

// Close releases the session's key material. The Sealer must not be used
// afterwards. Safe to call more than once.
func (s *Session) Close() {
	if s.keys != nil {
		s.keys.Release()
		s.keys = nil
	}
}
