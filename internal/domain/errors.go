package domain

import "errors"

var (
	// ErrAlreadyExists is returned when initialization targets a location
	// that already contains a repository. Nothing is mutated.
	ErrAlreadyExists = errors.New("repository already exists")

	// ErrUnsupportedMode is returned for an unknown encryption mode
	// identifier, before any key generation happens.
	ErrUnsupportedMode = errors.New("unsupported encryption mode")

	// ErrInvalidPassphrase is returned when the key record's self check
	// fails on unlock. It deliberately carries no hint about which field
	// of the record failed.
	ErrInvalidPassphrase = errors.New("invalid passphrase")

	// ErrAuthenticationFailed is returned when a sealed chunk's tag does
	// not verify. The chunk is treated as corrupt or tampered and is
	// never decrypted.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrKeyNotFound is returned when the selected key backend has no
	// record for the repository.
	ErrKeyNotFound = errors.New("key not found")

	// ErrNotRepository is returned when opening a location that has no
	// repository configuration record.
	ErrNotRepository = errors.New("not a repository")

	// ErrPersistenceFailure wraps I/O errors from the atomic write paths.
	ErrPersistenceFailure = errors.New("persistence failure")

	// ErrInvalidRecord is returned for malformed or unsupported persisted
	// records (bad version, truncated encoding, mismatched identity).
	ErrInvalidRecord = errors.New("invalid record")

	// ErrPassphraseRequired is returned when the selected mode needs a
	// passphrase and none was supplied.
	ErrPassphraseRequired = errors.New("passphrase required")
)

// IsCryptoError reports whether err is a cryptographic verification failure.
// These are fatal to the operation they belong to; retrying cannot fix a
// wrong key or tampered data.
func IsCryptoError(err error) bool {
	return errors.Is(err, ErrInvalidPassphrase) ||
		errors.Is(err, ErrAuthenticationFailed)
}

// IsUsageError reports whether err stems from caller input rather than
// repository state.
func IsUsageError(err error) bool {
	return errors.Is(err, ErrUnsupportedMode) ||
		errors.Is(err, ErrPassphraseRequired)
}

// IsPersistenceError reports whether err came from the storage layer. An
// external layer may retry these; this core never retries implicitly.
func IsPersistenceError(err error) bool {
	return errors.Is(err, ErrPersistenceFailure)
}
