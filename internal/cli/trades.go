package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"tradeJournal/internal/analytics"
	"tradeJournal/internal/domain"
)

func newTradesCmd(rc *rootConfig) *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "trades [trade-id]",
		Short: "List a user's trades, or show one by id",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(userID); err != nil {
				return err
			}

			svc, closeDB, err := openJournal(rc, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeDB()

			if len(args) == 1 {
				id, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid trade id %q", args[0])
				}
				trade, err := svc.GetTrade(cmd.Context(), id, userID)
				if err != nil {
					return err
				}
				return writeTradeTable(cmd.OutOrStdout(), []domain.Trade{*trade})
			}

			trades, err := svc.ListTrades(cmd.Context(), userID)
			if err != nil {
				return err
			}
			if len(trades) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No trades found.")
				return nil
			}
			return writeTradeTable(cmd.OutOrStdout(), trades)
		},
	}

	cmd.Flags().Int64VarP(&userID, "user", "u", 0, "owner of the trades")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func writeTradeTable(out io.Writer, trades []domain.Trade) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSymbol\tDirection\tSize\tEntry\tExit\tP/L\tCreated\t")
	for _, t := range trades {
		exit, pl := "open", "-"
		if t.IsCompleted() {
			exit = formatFloat(t.ExitPrice)
			pl = fmt.Sprintf("%.2f", analytics.Profit(t))
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			t.ID, t.Symbol, t.Direction, formatFloat(t.Size), formatFloat(t.EntryPrice),
			exit, pl, t.CreatedAt.Local().Format(time.DateTime))
	}
	return w.Flush()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
