package repo

import (
	"context"
	"fmt"

	"github.com/nbutton23/zxcvbn-go"
	"github.com/sirupsen/logrus"

	"barrow/internal/crypto"
	"barrow/internal/domain"
)

const (
	configVersion = 1

	// Storage-layout defaults written into new configs; the storage
	// engine interprets them, this core only persists them.
	defaultSegmentsPerDir = 1000
	defaultMaxSegmentSize = 500 * 1024 * 1024

	// zxcvbn scores run 0..4; below this we warn.
	minPassphraseScore = 3
)

// Service performs repository lifecycle operations against the configured
// stores.
type Service struct {
	configs  domain.ConfigStore
	keyfiles domain.KeyfileStore
	log      logrus.FieldLogger
}

// New returns a Service backed by the given stores.
func New(configs domain.ConfigStore, keyfiles domain.KeyfileStore, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{configs: configs, keyfiles: keyfiles, log: log}
}

// CreateOptions parameterizes repository initialization.
type CreateOptions struct {
	Path       string
	Mode       domain.Mode
	Passphrase string
	AppendOnly bool
}

// Create initializes a new repository: validate target, resolve mode,
// generate identity and keys, wrap and persist the key, write the config.
// Initialization is never destructive; if the target already holds a
// repository it fails with ErrAlreadyExists and mutates nothing. Any later
// failure unwinds the artifacts this attempt created.
func (s *Service) Create(ctx context.Context, opts CreateOptions) (domain.RepoID, error) {
	suite, err := crypto.ResolveSuite(opts.Mode)
	if err != nil {
		return domain.RepoID{}, err
	}
	if suite.RequiresKey {
		if opts.Passphrase == "" {
			return domain.RepoID{}, fmt.Errorf("%w: mode %q", domain.ErrPassphraseRequired, opts.Mode)
		}
		s.warnWeakPassphrase(opts.Passphrase)
	}

	// Cheap pre-check so we fail before any key generation; the exclusive
	// config write below still decides races.
	if _, err := s.configs.LoadConfig(opts.Path); err == nil {
		return domain.RepoID{}, fmt.Errorf("%w: %s", domain.ErrAlreadyExists, opts.Path)
	}
	if err := ctx.Err(); err != nil {
		return domain.RepoID{}, err
	}

	id, err := crypto.GenerateRepoID()
	if err != nil {
		return domain.RepoID{}, err
	}
	km, err := crypto.GenerateKeyMaterial()
	if err != nil {
		return domain.RepoID{}, err
	}
	defer km.Release()

	cfg := domain.Config{
		Version:        configVersion,
		ID:             id.Hex(),
		Encryption:     opts.Mode,
		AppendOnly:     opts.AppendOnly,
		SegmentsPerDir: defaultSegmentsPerDir,
		MaxSegmentSize: defaultMaxSegmentSize,
	}

	wroteKeyfile := false
	if suite.RequiresKey {
		rec, err := crypto.WrapKeys([]byte(opts.Passphrase), id, km)
		if err != nil {
			return domain.RepoID{}, err
		}
		switch suite.Backend {
		case crypto.BackendInline:
			cfg.Key = &rec
		case crypto.BackendKeyfile:
			if err := s.keyfiles.SaveKey(id, rec); err != nil {
				return domain.RepoID{}, err
			}
			wroteKeyfile = true
		}
	}
	if err := ctx.Err(); err != nil {
		s.rollbackCreate(id, wroteKeyfile)
		return domain.RepoID{}, err
	}

	if err := s.configs.CreateConfig(opts.Path, cfg); err != nil {
		s.rollbackCreate(id, wroteKeyfile)
		return domain.RepoID{}, err
	}

	s.log.WithFields(logrus.Fields{
		"repo":        opts.Path,
		"id":          id.Hex(),
		"encryption":  opts.Mode,
		"append_only": opts.AppendOnly,
	}).Info("repository created")
	return id, nil
}

// rollbackCreate removes artifacts a failed initialization left behind.
func (s *Service) rollbackCreate(id domain.RepoID, wroteKeyfile bool) {
	if !wroteKeyfile {
		return
	}
	if err := s.keyfiles.RemoveKey(id); err != nil {
		s.log.WithField("id", id.Hex()).WithError(err).Warn("rollback: removing key file failed")
	}
}

// Open loads the configuration, unlocks the key material with the passphrase
// and returns a ready Session. Unlocking performs no mutation and is safe to
// run concurrently from independent processes.
func (s *Service) Open(ctx context.Context, path, passphrase string) (*Session, error) {
	cfg, err := s.configs.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	suite, err := crypto.ResolveSuite(cfg.Encryption)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	km := &domain.KeyMaterial{}
	if suite.RequiresKey {
		if passphrase == "" {
			return nil, fmt.Errorf("%w: mode %q", domain.ErrPassphraseRequired, cfg.Encryption)
		}
		rec, err := s.loadKeyRecord(cfg, suite)
		if err != nil {
			return nil, err
		}
		km, err = crypto.UnwrapKeys([]byte(passphrase), rec)
		if err != nil {
			return nil, err
		}
	}

	sealer, err := crypto.NewSealer(suite, km)
	if err != nil {
		km.Release()
		return nil, err
	}
	return &Session{Config: cfg, Suite: suite, Sealer: sealer, keys: km}, nil
}

// Info returns the configuration record without unlocking anything.
func (s *Service) Info(ctx context.Context, path string) (domain.Config, error) {
	if err := ctx.Err(); err != nil {
		return domain.Config{}, err
	}
	return s.configs.LoadConfig(path)
}

// ChangePassphrase rewraps the repository key under a new passphrase. The
// unwrapped keys themselves never change, so stored chunk identities are
// unaffected. The record is replaced whole and atomically; serialization
// against concurrent unlocks is the lock manager's job, not ours.
func (s *Service) ChangePassphrase(ctx context.Context, path, oldPassphrase, newPassphrase string) error {
	cfg, err := s.configs.LoadConfig(path)
	if err != nil {
		return err
	}
	suite, err := crypto.ResolveSuite(cfg.Encryption)
	if err != nil {
		return err
	}
	if !suite.RequiresKey {
		return fmt.Errorf("%w: mode %q has no key", domain.ErrKeyNotFound, cfg.Encryption)
	}
	if newPassphrase == "" {
		return fmt.Errorf("%w: new passphrase is empty", domain.ErrPassphraseRequired)
	}
	s.warnWeakPassphrase(newPassphrase)

	rec, err := s.loadKeyRecord(cfg, suite)
	if err != nil {
		return err
	}
	km, err := crypto.UnwrapKeys([]byte(oldPassphrase), rec)
	if err != nil {
		return err
	}
	defer km.Release()
	if err := ctx.Err(); err != nil {
		return err
	}

	id, err := domain.ParseRepoID(cfg.ID)
	if err != nil {
		return err
	}
	newRec, err := crypto.WrapKeys([]byte(newPassphrase), id, km)
	if err != nil {
		return err
	}

	switch suite.Backend {
	case crypto.BackendInline:
		cfg.Key = &newRec
		err = s.configs.SaveConfig(path, cfg)
	case crypto.BackendKeyfile:
		err = s.keyfiles.SaveKey(id, newRec)
	}
	if err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{"repo": path, "id": cfg.ID}).Info("passphrase changed")
	return nil
}

// loadKeyRecord fetches the key record from the backend the suite names and
// checks it belongs to this repository.
func (s *Service) loadKeyRecord(cfg domain.Config, suite crypto.Suite) (domain.KeyRecord, error) {
	var rec domain.KeyRecord
	switch suite.Backend {
	case crypto.BackendInline:
		if cfg.Key == nil {
			return domain.KeyRecord{}, fmt.Errorf("%w: config has no inline key", domain.ErrKeyNotFound)
		}
		rec = *cfg.Key
	case crypto.BackendKeyfile:
		id, err := domain.ParseRepoID(cfg.ID)
		if err != nil {
			return domain.KeyRecord{}, err
		}
		rec, err = s.keyfiles.LoadKey(id)
		if err != nil {
			return domain.KeyRecord{}, err
		}
	default:
		return domain.KeyRecord{}, fmt.Errorf("%w: mode %q has no key backend",
			domain.ErrKeyNotFound, suite.Mode)
	}
	if rec.RepoID != cfg.ID {
		return domain.KeyRecord{}, fmt.Errorf("%w: key record belongs to repository %s",
			domain.ErrInvalidRecord, rec.RepoID)
	}
	return rec, nil
}

// warnWeakPassphrase scores the passphrase and logs a warning for weak ones.
// The passphrase itself never reaches the log.
func (s *Service) warnWeakPassphrase(passphrase string) {
	score := zxcvbn.PasswordStrength(passphrase, nil).Score
	if score < minPassphraseScore {
		s.log.WithField("score", score).Warn("passphrase is weak; consider a longer one")
	}
}
