package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"tradeJournal/internal/utils"
)

func newExportCmd(rc *rootConfig) *cobra.Command {
	var (
		userID int64
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a user's trades as CSV in the import format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(userID); err != nil {
				return err
			}

			svc, closeDB, err := openJournal(rc, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeDB()

			trades, err := svc.ListTrades(cmd.Context(), userID)
			if err != nil {
				return err
			}

			if out == "" || out == "-" {
				return utils.WriteTradesToCSV(cmd.OutOrStdout(), trades)
			}
			if err := utils.WriteTradesToFile(trades, out); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d trades to %s\n", len(trades), out)
			return nil
		},
	}

	cmd.Flags().Int64VarP(&userID, "user", "u", 0, "owner of the trades")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "destination file, - for stdout")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
