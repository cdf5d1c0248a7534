package board

import (
	"context"
	"fmt"
	"os"

	"github.com/julianstephens/potd/internal/cli"
	"github.com/julianstephens/potd/internal/config"
	"github.com/julianstephens/potd/internal/constants"
	boardview "github.com/julianstephens/potd/internal/tui/components/board"
)

type LeaderboardCmd struct {
	Limit int `help:"Number of entries to show (defaults to the configured limit)."`
}

func (c *LeaderboardCmd) Run(ctx *cli.Context) error {
	if err := requireLeaderboard(ctx); err != nil {
		return err
	}
	limit := c.Limit
	if limit <= 0 {
		limit = ctx.Config.Leaderboard.Limit
	}
	if limit > 100 {
		return fmt.Errorf("limit must be at most 100, got %d", limit)
	}

	entries, err := ctx.Service.Leaderboard(context.Background(), limit)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, boardview.Render(entries, ctx.Settings.Handle))
	return nil
}

func requireLeaderboard(ctx *cli.Context) error {
	if ctx.Syncer.Enabled() {
		return nil
	}
	if ctx.BoardErr != nil {
		return fmt.Errorf("leaderboard unavailable: %w", ctx.BoardErr)
	}
	return fmt.Errorf("leaderboard is not configured; set %s or run '%s keyring set <dsn>'", config.EnvLeaderboardDSN, constants.AppName)
}
