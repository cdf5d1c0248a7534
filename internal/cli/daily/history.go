package daily

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/julianstephens/potd/internal/cli"
	"github.com/julianstephens/potd/internal/models"
	"github.com/julianstephens/potd/internal/tui/components/calendar"
)

type HistoryCmd struct {
	Months int `help:"Number of months to show." default:"3"`
}

func (c *HistoryCmd) Run(ctx *cli.Context) error {
	if c.Months < 1 || c.Months > 24 {
		return fmt.Errorf("months must be between 1 and 24, got %d", c.Months)
	}
	rec, err := ctx.Ledger.LoadStreak()
	if err != nil {
		return fmt.Errorf("failed to load streak: %w", err)
	}
	PrintHistory(os.Stdout, rec, ctx.Now().In(ctx.Location), c.Months)
	return nil
}

func PrintHistory(w io.Writer, rec models.StreakRecord, now time.Time, months int) {
	fmt.Fprintln(w, calendar.Months(rec.History, now, months))
	solved := calendar.SolvedIn(rec.History, now.Year(), now.Month())
	fmt.Fprintf(w, "Solved %d day(s) in %s, %d in total.\n", solved, now.Format("January 2006"), len(rec.History))
}
