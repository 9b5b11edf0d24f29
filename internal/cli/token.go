package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"tradeJournal/config"
	"tradeJournal/internal/adapters/httpapi"
)

func newTokenCmd() *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the HTTP API (uses JWT_SECRET)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(userID); err != nil {
				return err
			}
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}

			token, err := httpapi.NewTokenService(cfg.JWTSecret, cfg.TokenTTL).GenerateToken(userID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().Int64VarP(&userID, "user", "u", 0, "user id to embed in the token")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
