package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"barrow/internal/domain"
)

// readJSON reads path into out. A missing file surfaces as os.ErrNotExist
// for the caller to map onto its own sentinel.
func readJSON(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidRecord, filepath.Base(path), err)
	}
	return nil
}

// writeJSON writes JSON via a temp file, then atomically replaces the target.
func writeJSON(path string, v any, mode os.FileMode) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return writeFile(path, b, mode, false)
}

// createJSON is writeJSON with exclusive semantics: it fails with
// os.ErrExist when the target already exists, even against a concurrent
// creator.
func createJSON(path string, v any, mode os.FileMode) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return writeFile(path, b, mode, true)
}

// writeFile writes bytes via a temp file in the target directory. The commit
// is a rename for replace semantics, or a hard link for exclusive semantics;
// both are all-or-nothing.
func writeFile(path string, b []byte, mode os.FileMode, exclusive bool) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	f, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistenceFailure, err)
	}
	tmp := f.Name()

	// Best-effort cleanup if anything fails before the commit.
	defer func() { _ = os.Remove(tmp) }()

	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: %v", domain.ErrPersistenceFailure, err)
	}
	if err := f.Chmod(mode); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: %v", domain.ErrPersistenceFailure, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistenceFailure, err)
	}

	if exclusive {
		if err := os.Link(tmp, path); err != nil {
			if errors.Is(err, os.ErrExist) {
				return os.ErrExist
			}
			return fmt.Errorf("%w: %v", domain.ErrPersistenceFailure, err)
		}
		return nil
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistenceFailure, err)
	}
	return nil
}
