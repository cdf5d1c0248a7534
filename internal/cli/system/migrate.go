package system

import (
	"context"
	"fmt"

	"github.com/julianstephens/potd/internal/cli"
	"github.com/julianstephens/potd/internal/storage/postgres"
	"github.com/julianstephens/potd/internal/storage/sqlite"
)

type MigrateCmd struct {
	SkipLeaderboard bool `help:"Only migrate the local ledger."`
}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	if err := migrateLedger(ctx); err != nil {
		return err
	}
	if c.SkipLeaderboard {
		return nil
	}
	return migrateLeaderboard(ctx)
}

func migrateLedger(ctx *cli.Context) error {
	store, ok := ctx.Ledger.Provider().(*sqlite.Store)
	if !ok {
		fmt.Printf("Ledger at %s is a JSON file; nothing to migrate.\n", ctx.Ledger.Provider().GetConfigPath())
		return nil
	}
	if err := store.Open(); err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}

	count, err := store.Migrate()
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if count == 0 {
		fmt.Println("No ledger migrations to apply. Ledger is up to date.")
	} else {
		fmt.Printf("Successfully applied %d ledger migration(s).\n", count)
	}
	return nil
}

func migrateLeaderboard(ctx *cli.Context) error {
	dsn, _, err := ctx.Config.ResolveLeaderboardDSN()
	if err != nil {
		return err
	}
	if dsn == "" {
		return nil
	}

	c, cancel := context.WithTimeout(context.Background(), ctx.Config.Leaderboard.Timeout)
	defer cancel()

	store := postgres.New(dsn)
	defer store.Close()
	if err := store.Init(c); err != nil {
		return fmt.Errorf("leaderboard migration failed: %w", err)
	}
	current, _, err := store.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read leaderboard schema version: %w", err)
	}
	fmt.Printf("Leaderboard at %s is at schema version %d.\n", postgres.Describe(dsn), current)
	return nil
}
