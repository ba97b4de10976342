package crypto

import (
	"fmt"

	"barrow/internal/domain"
)

// HashKind selects the primitive used for both chunk IDs and tags.
type HashKind int

const (
	// HashSHA256 is unkeyed; mode "none" only.
	HashSHA256 HashKind = iota
	// HashHMACSHA256 is HMAC-SHA256 under the repository MAC key.
	HashHMACSHA256
	// HashBlake2b is keyed BLAKE2b-256 under the repository MAC key.
	HashBlake2b
)

// KeyBackend says where the wrapped key record lives.
type KeyBackend int

const (
	// BackendNone means the mode uses no stored key.
	BackendNone KeyBackend = iota
	// BackendInline embeds the key record in the repository config.
	BackendInline
	// BackendKeyfile keeps the key record in an external file addressed
	// by repository identity.
	BackendKeyfile
)

// Suite is the fixed algorithm bundle for one encryption mode. Resolve it
// once per session and pass it around explicitly; nothing dispatches on the
// mode tag after that.
type Suite struct {
	Mode        domain.Mode
	Encrypts    bool
	Hash        HashKind
	RequiresKey bool
	Legacy      bool
	Backend     KeyBackend
}

// suites is the closed catalog. No dynamic registration.
var suites = map[domain.Mode]Suite{
	domain.ModeNone: {
		Mode:    domain.ModeNone,
		Hash:    HashSHA256,
		Legacy:  true,
		Backend: BackendNone,
	},
	domain.ModeAuthenticated: {
		Mode:        domain.ModeAuthenticated,
		Hash:        HashHMACSHA256,
		RequiresKey: true,
		Backend:     BackendInline,
	},
	domain.ModeRepokey: {
		Mode:        domain.ModeRepokey,
		Encrypts:    true,
		Hash:        HashHMACSHA256,
		RequiresKey: true,
		Legacy:      true,
		Backend:     BackendInline,
	},
	domain.ModeKeyfile: {
		Mode:        domain.ModeKeyfile,
		Encrypts:    true,
		Hash:        HashHMACSHA256,
		RequiresKey: true,
		Legacy:      true,
		Backend:     BackendKeyfile,
	},
	domain.ModeRepokeyBlake2: {
		Mode:        domain.ModeRepokeyBlake2,
		Encrypts:    true,
		Hash:        HashBlake2b,
		RequiresKey: true,
		Backend:     BackendInline,
	},
	domain.ModeKeyfileBlake2: {
		Mode:        domain.ModeKeyfileBlake2,
		Encrypts:    true,
		Hash:        HashBlake2b,
		RequiresKey: true,
		Backend:     BackendKeyfile,
	},
}

// ResolveSuite returns the algorithm bundle for mode. The lookup is pure and
// total over the closed mode set.
func ResolveSuite(mode domain.Mode) (Suite, error) {
	s, ok := suites[mode]
	if !ok {
		return Suite{}, fmt.Errorf("%w: %q", domain.ErrUnsupportedMode, mode)
	}
	return s, nil
}
