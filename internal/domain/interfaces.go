package domain

// ConfigStore persists the repository configuration record.
type ConfigStore interface {
	// CreateConfig writes the record exclusively: when two initializers
	// race on the same path, exactly one succeeds and the other gets
	// ErrAlreadyExists.
	CreateConfig(repoPath string, cfg Config) error

	// SaveConfig atomically replaces an existing record (administrative
	// operations only, e.g. passphrase change).
	SaveConfig(repoPath string, cfg Config) error

	// LoadConfig reads the record; ErrNotRepository if absent.
	LoadConfig(repoPath string) (Config, error)
}

// KeyfileStore persists external key records addressed by repository
// identity, outside the repository tree.
type KeyfileStore interface {
	// SaveKey atomically writes (or replaces) the key record for id.
	SaveKey(id RepoID, rec KeyRecord) error

	// LoadKey reads the key record for id; ErrKeyNotFound if absent.
	LoadKey(id RepoID) (KeyRecord, error)

	// RemoveKey deletes the key record for id. Removing an absent record
	// is not an error; initialization rollback relies on that.
	RemoveKey(id RepoID) error
}
