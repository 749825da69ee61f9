package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/teamshift/internal/config"
	"github.com/Skotchmaster/teamshift/internal/logging"
	"github.com/Skotchmaster/teamshift/internal/repo"
	"github.com/Skotchmaster/teamshift/pkg/db"
)

func newSessionsCmd(cfg *config.Config) *cobra.Command {
	sessionsCmd := &cobra.Command{
		Use:   "sessions",
		Short: "Refresh session maintenance",
	}

	var olderThan time.Duration
	purgeCmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete expired or revoked sessions older than --older-than",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if olderThan <= 0 {
				return fmt.Errorf("--older-than must be positive")
			}
			ctx := cmd.Context()
			gdb, err := openDB(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close(gdb)

			cutoff := time.Now().UTC().Add(-olderThan)
			n, err := repo.NewSessions(gdb).DeleteStale(ctx, cutoff)
			if err != nil {
				return err
			}
			logging.FromContext(ctx).Info("sessions_purged", "deleted", n, "cutoff", cutoff)
			fmt.Fprintf(cmd.OutOrStdout(), "deleted=%d\n", n)
			return nil
		},
	}
	purgeCmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "minimum age of stale sessions")

	sessionsCmd.AddCommand(purgeCmd)
	return sessionsCmd
}
