package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barrow/internal/domain"
	"barrow/internal/store"
)

func testConfig() domain.Config {
	return domain.Config{
		Version:        1,
		ID:             "aa11",
		Encryption:     domain.ModeRepokey,
		AppendOnly:     true,
		SegmentsPerDir: 1000,
		MaxSegmentSize: 500 * 1024 * 1024,
	}
}

func TestConfig_CreateLoad(t *testing.T) {
	repoPath := filepath.Join(t.TempDir(), "repo")
	s := store.NewConfigFileStore()

	require.NoError(t, s.CreateConfig(repoPath, testConfig()))

	got, err := s.LoadConfig(repoPath)
	require.NoError(t, err)
	assert.Equal(t, testConfig(), got)
	assert.True(t, got.AppendOnly)
}

func TestConfig_CreateTwice_LeavesFirstIntact(t *testing.T) {
	repoPath := filepath.Join(t.TempDir(), "repo")
	s := store.NewConfigFileStore()

	require.NoError(t, s.CreateConfig(repoPath, testConfig()))
	before, err := os.ReadFile(filepath.Join(repoPath, "config.json"))
	require.NoError(t, err)

	second := testConfig()
	second.ID = "bb22"
	err = s.CreateConfig(repoPath, second)
	require.ErrorIs(t, err, domain.ErrAlreadyExists)

	after, err := os.ReadFile(filepath.Join(repoPath, "config.json"))
	require.NoError(t, err)
	assert.Equal(t, before, after, "existing config must be byte-for-byte unchanged")

	// No stray temp files from the losing attempt.
	entries, err := os.ReadDir(repoPath)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestConfig_SaveReplaces(t *testing.T) {
	repoPath := filepath.Join(t.TempDir(), "repo")
	s := store.NewConfigFileStore()

	require.NoError(t, s.CreateConfig(repoPath, testConfig()))

	cfg := testConfig()
	cfg.Key = &domain.KeyRecord{Version: 1, RepoID: cfg.ID}
	require.NoError(t, s.SaveConfig(repoPath, cfg))

	got, err := s.LoadConfig(repoPath)
	require.NoError(t, err)
	require.NotNil(t, got.Key)
}

func TestConfig_SaveWithoutRepo(t *testing.T) {
	s := store.NewConfigFileStore()
	err := s.SaveConfig(filepath.Join(t.TempDir(), "nope"), testConfig())
	require.ErrorIs(t, err, domain.ErrNotRepository)
}

func TestConfig_LoadMissing(t *testing.T) {
	s := store.NewConfigFileStore()
	_, err := s.LoadConfig(filepath.Join(t.TempDir(), "nope"))
	require.ErrorIs(t, err, domain.ErrNotRepository)
}

func TestConfig_ForwardReadable(t *testing.T) {
	repoPath := filepath.Join(t.TempDir(), "repo")
	require.NoError(t, os.MkdirAll(repoPath, 0o700))

	// A future version may add fields; older parsers must still read the
	// ones they know.
	raw := `{"version": 2, "id": "cc33", "encryption": "quantum-safe",
		"append_only": true, "future_field": {"x": 1}}`
	require.NoError(t, os.WriteFile(filepath.Join(repoPath, "config.json"), []byte(raw), 0o600))

	got, err := store.NewConfigFileStore().LoadConfig(repoPath)
	require.NoError(t, err)
	assert.Equal(t, "cc33", got.ID)
	assert.True(t, got.AppendOnly)
}
