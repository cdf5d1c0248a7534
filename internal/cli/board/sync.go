package board

import (
	"context"
	"fmt"

	"github.com/julianstephens/potd/internal/cli"
)

// SyncCmd pushes the local streak to the leaderboard.
type SyncCmd struct {
	Handle string `help:"Judge handle to sync instead of the configured one."`
}

func (c *SyncCmd) Run(ctx *cli.Context) error {
	if err := requireLeaderboard(ctx); err != nil {
		return err
	}
	handle := ctx.Handle(c.Handle)
	rec, err := ctx.Service.Sync(context.Background(), handle)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Synced %s: current %d, best %d\n", handle, rec.Count, rec.Max)
	return nil
}
