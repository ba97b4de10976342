package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print repository configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireRepo(); err != nil {
				return err
			}
			cfg, err := appCtx.Repo.Info(cmd.Context(), repoPath)
			if err != nil {
				return err
			}
			fmt.Printf("Repository ID: %s\n", cfg.ID)
			fmt.Printf("Encryption:    %s\n", cfg.Encryption)
			fmt.Printf("Append only:   %v\n", cfg.AppendOnly)
			return nil
		},
	}
}
