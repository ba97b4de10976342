// Package app wires stores and services for the CLI.
package app

import (
	"github.com/sirupsen/logrus"

	"barrow/internal/services/repo"
	"barrow/internal/store"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	KeysDir string         // external key file directory
	Log     *logrus.Logger // optional; defaults to a text logger on stderr
}

// App bundles the services the CLI commands use.
type App struct {
	Repo *repo.Service
	Log  *logrus.Logger
}

// New constructs the dependency graph from cfg.
func New(cfg Config) (*App, error) {
	log := cfg.Log
	if log == nil {
		log = logrus.New()
		log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}

	keysDir := cfg.KeysDir
	if keysDir == "" {
		d, err := store.DefaultKeysDir()
		if err != nil {
			return nil, err
		}
		keysDir = d
	}

	configs := store.NewConfigFileStore()
	keyfiles := store.NewKeyfileFileStore(keysDir)
	return &App{
		Repo: repo.New(configs, keyfiles, log),
		Log:  log,
	}, nil
}
