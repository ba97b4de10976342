package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func changePassphraseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "change-passphrase",
		Short: "Rewrap the repository key under a new passphrase",
		Long: "Rewrap the repository key under a new passphrase. The underlying " +
			"data and hash keys are unchanged, so existing chunks and their IDs " +
			"stay valid.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireRepo(); err != nil {
				return err
			}
			oldPass, err := getPassphrase(false)
			if err != nil {
				return err
			}

			// The persistent flag/env value was consumed as the old
			// passphrase; the new one is always prompted.
			passphrase = ""
			fmt.Println("Choose a new passphrase.")
			newPass, err := getPassphrase(true)
			if err != nil {
				return err
			}

			if err := appCtx.Repo.ChangePassphrase(cmd.Context(), repoPath, oldPass, newPass); err != nil {
				return err
			}
			fmt.Println("Passphrase changed")
			return nil
		},
	}
}
