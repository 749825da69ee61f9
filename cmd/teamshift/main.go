package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/Skotchmaster/teamshift/internal/config"
	"github.com/Skotchmaster/teamshift/internal/logging"
	env "github.com/Skotchmaster/teamshift/pkg/config"
	"github.com/Skotchmaster/teamshift/pkg/db"
)

func main() {
	cfg := config.Load()
	if err := newRootCmd(&cfg).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:          "teamshift",
		Short:        "Team shift scheduling API with cookie sessions",
		SilenceUsage: true,
	}
	root.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		logger := logging.New(cfg.LogLevel)
		slog.SetDefault(logger)
		cmd.SetContext(logging.IntoContext(cmd.Context(), logger))
	}
	root.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug|info|warn|error (env LOG_LEVEL)")
	root.PersistentFlags().StringVar(&cfg.DatabaseURL, "database-url", cfg.DatabaseURL, "postgres DSN or sqlite file (env DATABASE_URL)")

	root.AddCommand(newServeCmd(cfg), newMigrateCmd(cfg), newSessionsCmd(cfg))
	return root
}

func openDB(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	env.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	return db.Open(ctx, cfg.DatabaseURL)
}
