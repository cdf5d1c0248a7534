package daily

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/potd/internal/cli"
	"github.com/julianstephens/potd/internal/models"
	"github.com/julianstephens/potd/internal/potd"
	"github.com/julianstephens/potd/internal/tui/components/problem"
)

type TodayCmd struct {
	Handle string `help:"Judge handle to use instead of the configured one."`
	Date   string `help:"Show another day's problems (YYYY-MM-DD). Other days are recomputed and never cached."`
	JSON   bool   `name:"json" help:"Print the result as JSON."`
}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	handle := ctx.Handle(c.Handle)
	res, err := ctx.Service.Today(context.Background(), potd.Request{Handle: handle, Date: c.Date})
	if err != nil {
		return err
	}
	if c.JSON {
		return writeJSON(os.Stdout, res)
	}
	PrintResult(os.Stdout, res, handle, ctx.Judge.Host())
	return nil
}

// PrintResult writes a selection, its solve status and the streak.
func PrintResult(w io.Writer, res potd.Result, handle, host string) {
	sel := res.Selection
	header := fmt.Sprintf("Problem of the Day for %s", sel.Date)
	if res.Cached {
		header += " (cached)"
	}
	fmt.Fprintln(w, header)

	printProblem(w, "Global", sel.Global, host, problem.StatusFor(handle, res.Status, res.Status.GlobalSolved))
	switch {
	case sel.Personal != nil:
		printProblem(w, "Personal", *sel.Personal, host, problem.StatusFor(handle, res.Status, res.Status.PersonalSolved))
	case handle == "":
		fmt.Fprintln(w, "  Set a handle with 'potd settings --handle <handle>' for a personal problem.")
	}

	if !res.IsToday {
		return
	}
	fmt.Fprintf(w, "Streak: %d (best %d)\n", res.Streak.Count, res.Streak.Max)
	if res.Advanced {
		fmt.Fprintln(w, "✓ Streak advanced!")
	}
}

func printProblem(w io.Writer, label string, p models.Problem, host string, status problem.Status) {
	line := fmt.Sprintf("  %-9s %s", label+":", problem.Line(p))
	if s := status.String(); s != "" {
		line += " [" + s + "]"
	}
	fmt.Fprintln(w, line)
	if host != "" {
		fmt.Fprintf(w, "  %-9s %s\n", "", p.URL(host))
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	return nil
}
