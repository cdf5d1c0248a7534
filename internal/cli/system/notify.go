package system

import (
	"context"
	"fmt"

	"github.com/julianstephens/potd/internal/cli"
	"github.com/julianstephens/potd/internal/logger"
	"github.com/julianstephens/potd/internal/notifier"
	"github.com/julianstephens/potd/internal/potd"
	"github.com/julianstephens/potd/internal/tui/components/problem"
	"github.com/julianstephens/potd/internal/utils"
)

// NotifyCmd is run from a scheduler (cron, launchd) to remind about an
// unsolved problem.
type NotifyCmd struct {
	DryRun bool `help:"Print notifications to stdout instead of sending them."`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	n := notifier.New()
	if !c.DryRun {
		unsub := n.Attach(bg, ctx.Hub.Streak)
		defer unsub()
	}

	handle := ctx.Handle("")
	res, err := ctx.Service.Today(bg, potd.Request{Handle: handle})
	if err != nil {
		return err
	}

	msg, ok := Reminder(res, handle)
	if !ok {
		if c.DryRun {
			fmt.Println("Nothing to remind about.")
		}
		return nil
	}
	if c.DryRun {
		fmt.Println("[DryRun] " + msg)
		return nil
	}
	if err := n.Notify(bg, msg); err != nil {
		logger.Warn("Failed to send notification", "error", err)
	}
	return nil
}

// Reminder returns the text for an unsolved problem of the day. Nothing is
// returned once the counted problem is solved or when its status is unknown.
func Reminder(res potd.Result, handle string) (string, bool) {
	if !res.IsToday {
		return "", false
	}
	sel := res.Selection
	if handle == "" || sel.Personal == nil {
		return "Today's problem: " + problem.Line(sel.Global), true
	}
	if !res.Status.Known || res.Status.PersonalSolved {
		return "", false
	}

	line := problem.Line(*sel.Personal)
	rec := res.Streak
	if days, err := utils.DaysBetween(rec.LastSolved, sel.Date); err == nil && days == 1 && rec.Count > 0 {
		return fmt.Sprintf("Solve %s to keep your %d-day streak", line, rec.Count), true
	}
	return "Today's problem is waiting: " + line, true
}
