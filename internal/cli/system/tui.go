package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/potd/internal/cli"
	"github.com/julianstephens/potd/internal/tui"
)

type TuiCmd struct {
	Handle string `help:"Judge handle to use instead of the configured one."`
}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	m := tui.NewModel(ctx.Service, tui.Options{
		Handle: ctx.Handle(c.Handle),
		Host:   ctx.Judge.Host(),
		Limit:  ctx.Config.Leaderboard.Limit,
		Now:    ctx.Now,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	unsub := tui.Subscribe(p, ctx.Hub)
	defer unsub()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("alas, there's been an error: %w", err)
	}
	return nil
}
