package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newImportCmd(rc *rootConfig) *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import trades from a CSV file",
		Long: `Import trades from a CSV file with a header row.

Required columns: symbol, direction, size, entry price.
Optional columns: exit price, notes.
Rows that fail validation are reported and skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(userID); err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open csv: %w", err)
			}
			defer f.Close()

			svc, closeDB, err := openJournal(rc, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeDB()

			res, err := svc.ImportTrades(cmd.Context(), userID, f)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, res.Message())
			fmt.Fprintf(out, "batch %s\n", res.BatchID)
			for _, s := range res.Skipped {
				fmt.Fprintf(out, "skipped line %d: %s\n", s.Line, s.Reason)
			}
			return nil
		},
	}

	cmd.Flags().Int64VarP(&userID, "user", "u", 0, "owner of the imported trades")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
