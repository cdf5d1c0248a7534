package daily

import (
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/potd/internal/cli"
	"github.com/julianstephens/potd/internal/models"
	"github.com/julianstephens/potd/internal/utils"
)

type StreakCmd struct {
	JSON bool `name:"json" help:"Print the stored record as JSON."`
}

func (c *StreakCmd) Run(ctx *cli.Context) error {
	rec, err := ctx.Ledger.LoadStreak()
	if err != nil {
		return fmt.Errorf("failed to load streak: %w", err)
	}
	if c.JSON {
		return writeJSON(os.Stdout, rec)
	}
	PrintStreak(os.Stdout, rec, ctx.Today())
	return nil
}

// StreakState describes rec relative to today.
func StreakState(rec models.StreakRecord, today string) string {
	if rec.LastSolved == "" {
		return "no solves yet"
	}
	if rec.LastSolved == today {
		return "solved today"
	}
	days, err := utils.DaysBetween(rec.LastSolved, today)
	switch {
	case err != nil:
		return "last solve date unreadable"
	case days == 1:
		return "solve today to keep it going"
	case days < 0:
		return "last solve is in the future; check your timezone"
	default:
		return "lapsed, the next solve starts a new streak"
	}
}

func PrintStreak(w io.Writer, rec models.StreakRecord, today string) {
	fmt.Fprintf(w, "Current streak: %d\n", rec.Count)
	fmt.Fprintf(w, "Best streak:    %d\n", rec.Max)
	last := rec.LastSolved
	if last == "" {
		last = "-"
	}
	fmt.Fprintf(w, "Last solved:    %s\n", last)
	fmt.Fprintf(w, "Days solved:    %d\n", len(rec.History))
	fmt.Fprintf(w, "Status:         %s\n", StreakState(rec, today))
}
