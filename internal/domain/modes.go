package domain

import "fmt"

// Mode identifies one of the supported encryption/authentication modes.
// The set is closed and identifiers are fixed strings, so persisted records
// stay self-describing across format versions.
type Mode string

const (
	// ModeNone stores chunks in the clear; chunk IDs are plain SHA-256.
	ModeNone Mode = "none"
	// ModeAuthenticated authenticates chunks with HMAC-SHA256 but does not
	// encrypt them. The MAC key is stored inline in the repository config.
	ModeAuthenticated Mode = "authenticated"
	// ModeRepokey encrypts with AES-CTR-256 and authenticates with
	// HMAC-SHA256; the wrapped key lives inside the repository config.
	ModeRepokey Mode = "repokey"
	// ModeKeyfile is like ModeRepokey but keeps the wrapped key in an
	// external key file addressed by repository identity.
	ModeKeyfile Mode = "keyfile"
	// ModeRepokeyBlake2 is ModeRepokey with keyed BLAKE2b-256 instead of
	// HMAC-SHA256.
	ModeRepokeyBlake2 Mode = "repokey-blake2"
	// ModeKeyfileBlake2 is ModeKeyfile with keyed BLAKE2b-256 instead of
	// HMAC-SHA256.
	ModeKeyfileBlake2 Mode = "keyfile-blake2"
)

// Modes lists every supported mode in display order.
func Modes() []Mode {
	return []Mode{
		ModeNone,
		ModeAuthenticated,
		ModeRepokey,
		ModeKeyfile,
		ModeRepokeyBlake2,
		ModeKeyfileBlake2,
	}
}

// ParseMode validates s against the closed mode set.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	switch m {
	case ModeNone, ModeAuthenticated, ModeRepokey, ModeKeyfile,
		ModeRepokeyBlake2, ModeKeyfileBlake2:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedMode, s)
}
