package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"tradeJournal/internal/analytics"
)

func newDashboardCmd(rc *rootConfig) *cobra.Command {
	var (
		userID int64
		output string
	)

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show performance metrics and recent trades",
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

			d, err := svc.Dashboard(cmd.Context(), userID)
			if err != nil {
				return err
			}
			return writeDashboard(cmd.OutOrStdout(), d, output)
		},
	}

	cmd.Flags().Int64VarP(&userID, "user", "u", 0, "owner of the trades")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table|json|yaml")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func writeDashboard(out io.Writer, d *analytics.Dashboard, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return err
		}
		return enc.Close()
	case "table":
		m := d.Metrics
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		rows := []struct {
			label string
			value string
		}{
			{"Total trades", fmt.Sprintf("%d", m.TotalTrades)},
			{"Completed trades", fmt.Sprintf("%d", m.CompletedTrades)},
			{"Total P/L", fmt.Sprintf("%.2f", m.TotalProfitLoss)},
			{"Win rate", fmt.Sprintf("%.2f%%", m.WinRate)},
			{"Winning / losing", fmt.Sprintf("%d / %d", m.WinningTrades, m.LosingTrades)},
			{"Avg win", fmt.Sprintf("%.2f", m.AvgWin)},
			{"Avg loss", fmt.Sprintf("%.2f", m.AvgLoss)},
			{"Profit factor", fmt.Sprintf("%.2f", m.ProfitFactor)},
			{"Max drawdown", fmt.Sprintf("%.2f", m.MaxDrawdown)},
			{"Sharpe ratio", fmt.Sprintf("%.2f", m.SharpeRatio)},
			{"Expectancy", fmt.Sprintf("%.2f", m.Expectancy)},
			{"Best trade", fmt.Sprintf("%.2f", m.BestTrade)},
			{"Worst trade", fmt.Sprintf("%.2f", m.WorstTrade)},
		}
		for _, r := range rows {
			fmt.Fprintf(w, "%s\t%s\n", r.label, r.value)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		if len(d.RecentTrades) == 0 {
			return nil
		}
		fmt.Fprintln(out, "\nRecent trades:")
		return writeTradeTable(out, d.RecentTrades)
	default:
		return fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
	}
}
