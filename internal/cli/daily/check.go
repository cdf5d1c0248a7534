package daily

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/potd/internal/cli"
	"github.com/julianstephens/potd/internal/constants"
	"github.com/julianstephens/potd/internal/potd"
)

// CheckCmd refreshes today's solve status and records the streak.
type CheckCmd struct {
	Handle string `help:"Judge handle to use instead of the configured one."`
}

func (c *CheckCmd) Run(ctx *cli.Context) error {
	handle := ctx.Handle(c.Handle)
	if handle == "" {
		return fmt.Errorf("no handle configured, run '%s settings --handle <handle>'", constants.AppName)
	}
	res, err := ctx.Service.Today(context.Background(), potd.Request{Handle: handle})
	if err != nil {
		return err
	}
	PrintCheck(os.Stdout, res)
	return nil
}

// PrintCheck writes a one-line verdict for today's personal problem.
func PrintCheck(w io.Writer, res potd.Result) {
	switch {
	case !res.Status.Known:
		fmt.Fprintln(w, "? Could not fetch submissions; solve status unknown.")
	case res.Selection.Personal == nil:
		fmt.Fprintln(w, "No personal problem today.")
	case res.Status.PersonalSolved && res.Advanced:
		fmt.Fprintf(w, "✓ Solved! Streak is now %d (best %d).\n", res.Streak.Count, res.Streak.Max)
	case res.Status.PersonalSolved:
		fmt.Fprintf(w, "✓ Already solved today. Streak: %d (best %d).\n", res.Streak.Count, res.Streak.Max)
	default:
		fmt.Fprintf(w, "○ Not solved yet: %d%s %s. Streak: %d.\n",
			res.Selection.Personal.ContestID, res.Selection.Personal.Index, res.Selection.Personal.Name, res.Streak.Count)
	}
	if res.Status.GlobalSolved {
		fmt.Fprintln(w, "✓ Global problem solved too.")
	}
}
