// Package cli implements the journalctl command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tradeJournal/config"
	"tradeJournal/internal/adapters/logger"
	"tradeJournal/internal/adapters/sqlite"
	"tradeJournal/internal/app"
)

const version = "0.3.0"

// rootConfig holds the persistent flags. Empty values fall back to the environment.
type rootConfig struct {
	DBPath    string
	LogLevel  string
	LogFormat string
}

// NewRootCmd builds the journalctl command tree.
func NewRootCmd() *cobra.Command {
	rc := &rootConfig{}

	cmd := &cobra.Command{
		Use:           "journalctl",
		Short:         "Trade journal tooling: import, inspect and export trades",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&rc.DBPath, "db", "", "SQLite journal database (default $DB_PATH or ./data/journal.db)")
	cmd.PersistentFlags().StringVar(&rc.LogLevel, "log-level", "", "Log level: debug|info|warn|error (default $LOG_LEVEL)")
	cmd.PersistentFlags().StringVar(&rc.LogFormat, "log-format", "", "Log format: plain|pretty (default $LOG_FORMAT)")

	cmd.AddCommand(
		newImportCmd(rc),
		newTradesCmd(rc),
		newDashboardCmd(rc),
		newExportCmd(rc),
		newTokenCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "journalctl version %s\n", version)
			},
		},
	)

	return cmd
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// openJournal wires config, logger and storage into a JournalService.
// The returned close function releases the database.
func openJournal(rc *rootConfig, logOut io.Writer) (*app.JournalService, func(), error) {
	cfg, err := config.LoadLocalConfig()
	if err != nil {
		return nil, nil, err
	}
	if rc.DBPath != "" {
		cfg.DBPath = rc.DBPath
	}
	if rc.LogLevel != "" {
		cfg.LogLevel = logger.ParseLevel(rc.LogLevel)
	}
	if rc.LogFormat != "" {
		cfg.LogFormat = rc.LogFormat
	}

	log := logger.New(cfg.LogFormat, cfg.LogLevel, logOut)
	repo, err := sqlite.NewRepository(sqlite.Config{DBPath: cfg.DBPath, Logger: log})
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}

	svc, err := app.NewJournalService(log, repo)
	if err != nil {
		repo.Close()
		return nil, nil, err
	}
	return svc, func() { repo.Close() }, nil
}

func requireUser(userID int64) error {
	if userID <= 0 {
		return fmt.Errorf("--user must be a positive user id")
	}
	return nil
}
