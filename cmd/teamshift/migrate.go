package main

import (
	"github.com/spf13/cobra"

	"github.com/Skotchmaster/teamshift/internal/config"
	"github.com/Skotchmaster/teamshift/internal/logging"
	"github.com/Skotchmaster/teamshift/internal/repo"
	"github.com/Skotchmaster/teamshift/pkg/db"
)

func newMigrateCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			gdb, err := openDB(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close(gdb)

			if err := repo.New(gdb).Migrate(ctx); err != nil {
				return err
			}
			logging.FromContext(ctx).Info("migrate_done")
			return nil
		},
	}
}
