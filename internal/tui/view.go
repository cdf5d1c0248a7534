package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/potd/internal/errors"
	"github.com/julianstephens/potd/internal/tui/components/board"
	"github.com/julianstephens/potd/internal/tui/components/calendar"
	"github.com/julianstephens/potd/internal/tui/components/problem"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateToday:
		content = m.viewToday()
	case StateStreak:
		content = m.viewStreak()
	case StateLeaderboard:
		content = m.viewLeaderboard()
	}

	var banner string
	if m.notice != "" {
		banner = warningStyle.Render(m.notice)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		banner,
		docStyle.Render(content),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range tabTitles {
		if m.state == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewToday() string {
	if m.loading && m.result == nil {
		return fmt.Sprintf("%s Fetching today's problems...", m.spinner.View())
	}
	if m.err != nil && m.result == nil {
		return dangerStyle.Render(errors.Format(m.err))
	}

	res := m.result
	sel := res.Selection
	handle := m.opts.Handle

	var b strings.Builder
	header := sel.Date
	if res.Cached {
		header += mutedStyle.Render(" (cached)")
	}
	if m.loading {
		header += " " + m.spinner.View()
	}
	b.WriteString(header)
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(dangerStyle.Render(errors.Format(m.err)))
		b.WriteString("\n")
	}

	cards := []string{
		problem.Card("Global", sel.Global, m.opts.Host, problem.StatusFor(handle, res.Status, res.Status.GlobalSolved)),
	}
	if sel.Personal != nil {
		label := fmt.Sprintf("Personal (%s)", handle)
		cards = append(cards, problem.Card(label, *sel.Personal, m.opts.Host, problem.StatusFor(handle, res.Status, res.Status.PersonalSolved)))
	} else if handle == "" {
		cards = append(cards, mutedStyle.Render("Set a handle with 'potd settings --handle <handle>' for a personal problem."))
	}
	b.WriteString(lipgloss.JoinVertical(lipgloss.Left, cards...))
	b.WriteString("\n")
	b.WriteString(m.streakLine())
	return b.String()
}

func (m Model) streakLine() string {
	return fmt.Sprintf("Streak: %s  Best: %d",
		streakStyle.Render(fmt.Sprintf("%d", m.streak.Count)), m.streak.Max)
}

func (m Model) viewStreak() string {
	var b strings.Builder
	b.WriteString(m.streakLine())
	if m.streak.LastSolved != "" {
		b.WriteString(mutedStyle.Render("  last solved " + m.streak.LastSolved))
	}
	b.WriteString("\n\n")
	b.WriteString(calendar.Months(m.streak.History, m.opts.Now(), m.opts.Months))
	return b.String()
}

func (m Model) viewLeaderboard() string {
	if !m.boardSet {
		return fmt.Sprintf("%s Loading leaderboard...", m.spinner.View())
	}
	if m.boardErr != nil {
		return dangerStyle.Render(errors.Format(m.boardErr))
	}
	return board.Render(m.board, m.opts.Handle)
}
