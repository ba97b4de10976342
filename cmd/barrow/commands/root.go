package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"barrow/internal/app"
)

var (
	repoPath   string
	passphrase string
	keysDir    string
	appCtx     *app.App
)

func Execute() error {
	root := &cobra.Command{
		Use:           "barrow",
		Short:         "Content-addressed deduplicating backup repository",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// A .env next to the invocation may carry BARROW_* vars.
			_ = godotenv.Load()

			if passphrase == "" {
				passphrase = os.Getenv("BARROW_PASSPHRASE")
			}
			if keysDir == "" {
				keysDir = os.Getenv("BARROW_KEYS_DIR")
			}

			a, err := app.New(app.Config{KeysDir: keysDir})
			if err != nil {
				return err
			}
			appCtx = a
			return nil
		},
	}

	root.PersistentFlags().StringVar(&repoPath, "repo", "", "repository path")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "",
		"repository passphrase (default $BARROW_PASSPHRASE)")
	root.PersistentFlags().StringVar(&keysDir, "keys-dir", "",
		"directory for external key files (default $BARROW_KEYS_DIR or the user config dir)")

	root.AddCommand(initCmd(), infoCmd(), changePassphraseCmd())
	return root.Execute()
}

// requireRepo validates that --repo was given.
func requireRepo() error {
	if repoPath == "" {
		return errors.New("repository path required (--repo)")
	}
	return nil
}

// getPassphrase returns the passphrase from flag or environment, falling
// back to a no-echo terminal prompt. With confirm set, the prompt is read
// twice and both entries must match.
func getPassphrase(confirm bool) (string, error) {
	if passphrase != "" {
		return passphrase, nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", errors.New("passphrase required (-p or $BARROW_PASSPHRASE)")
	}

	fmt.Fprint(os.Stderr, "Enter passphrase: ")
	first, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	if !confirm {
		return string(first), nil
	}

	fmt.Fprint(os.Stderr, "Enter same passphrase again: ")
	second, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	if string(first) != string(second) {
		return "", errors.New("passphrases do not match")
	}
	return string(first), nil
}
