package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"barrow/internal/crypto"
	"barrow/internal/domain"
	"barrow/internal/services/repo"
)

func initCmd() *cobra.Command {
	var (
		encryption string
		appendOnly bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new repository",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireRepo(); err != nil {
				return err
			}
			mode, err := domain.ParseMode(encryption)
			if err != nil {
				return err
			}
			suite, err := crypto.ResolveSuite(mode)
			if err != nil {
				return err
			}

			var pass string
			if suite.RequiresKey {
				pass, err = getPassphrase(true)
				if err != nil {
					return err
				}
			}

			id, err := appCtx.Repo.Create(cmd.Context(), repo.CreateOptions{
				Path:       repoPath,
				Mode:       mode,
				Passphrase: pass,
				AppendOnly: appendOnly,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Repository created at %s\nID: %s\n", repoPath, id.Hex())
			return nil
		},
	}
	cmd.Flags().StringVarP(&encryption, "encryption", "e", string(domain.ModeRepokey),
		fmt.Sprintf("encryption mode %v", domain.Modes()))
	cmd.Flags().BoolVar(&appendOnly, "append-only", false,
		"forbid destructive operations on existing data (enforced by the storage layer)")
	return cmd
}
