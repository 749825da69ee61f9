package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/teamshift/internal/config"
	"github.com/Skotchmaster/teamshift/internal/repo"
	"github.com/Skotchmaster/teamshift/internal/testutil"
	"github.com/Skotchmaster/teamshift/pkg/db"
)

func run(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd(cfg)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestMigrateThenPurgeSessions(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		LogLevel:    "error",
		DatabaseURL: "sqlite://" + filepath.Join(t.TempDir(), "teamshift.db"),
	}

	_, err := run(t, cfg, "migrate")
	require.NoError(t, err)

	gdb, err := db.Open(ctx, cfg.DatabaseURL)
	require.NoError(t, err)
	u := testutil.CreateUser(t, gdb, "cli@example.com", "password1")
	sessions := repo.NewSessions(gdb)
	now := time.Now().UTC()
	_, err = sessions.Save(ctx, "stale", u.ID, "h1", now.Add(-48*time.Hour))
	require.NoError(t, err)
	_, err = sessions.Save(ctx, "live", u.ID, "h2", now.Add(24*time.Hour))
	require.NoError(t, err)
	require.NoError(t, db.Close(gdb))

	out, err := run(t, cfg, "sessions", "purge", "--older-than", "24h")
	require.NoError(t, err)
	require.Contains(t, out, "deleted=1")

	gdb, err = db.Open(ctx, cfg.DatabaseURL)
	require.NoError(t, err)
	defer db.Close(gdb)
	left, err := repo.NewSessions(gdb).ListByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, left, 1)
	require.Equal(t, "live", left[0].ID)
}

func TestPurgeRejectsNonPositiveAge(t *testing.T) {
	cfg := &config.Config{LogLevel: "error", DatabaseURL: "sqlite://unused.db"}

	_, err := run(t, cfg, "sessions", "purge", "--older-than", "0s")
	require.Error(t, err)
}

func TestMigrateRequiresDatabaseURL(t *testing.T) {
	cfg := &config.Config{LogLevel: "error"}

	require.Panics(t, func() { _, _ = run(t, cfg, "migrate") })
}
