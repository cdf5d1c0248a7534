package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case resultMsg:
		res := msg.result
		m.loading = false
		m.err = nil
		m.result = &res
		m.streak = res.Streak
		if res.Advanced {
			m.notice = fmt.Sprintf("Streak advanced to %d!", res.Streak.Count)
		}
		return m, nil

	case errMsg:
		m.loading = false
		m.err = msg.err
		return m, nil

	case leaderboardMsg:
		m.board = msg.entries
		m.boardErr = msg.err
		m.boardSet = true
		return m, nil

	case streakMsg:
		m.streak = msg.Record
		if msg.Recovered {
			m.notice = fmt.Sprintf("Recovered a %d-day streak from the leaderboard.", msg.Record.Count)
		}
		return m, nil

	case syncMsg:
		if msg.Err != nil {
			m.notice = "Leaderboard sync failed."
			return m, nil
		}
		m.notice = "Leaderboard synced."
		if m.state == StateLeaderboard {
			return m, m.fetchLeaderboard()
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.Right):
		return m.switchTab(1)

	case key.Matches(msg, m.keys.ShiftTab), key.Matches(msg, m.keys.Left):
		return m.switchTab(-1)

	case key.Matches(msg, m.keys.Refresh):
		m.notice = ""
		if m.state == StateLeaderboard {
			return m, m.fetchLeaderboard()
		}
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.fetchToday())

	case key.Matches(msg, m.keys.Sync):
		if m.opts.Handle == "" {
			m.notice = "Set a handle to sync the leaderboard."
			return m, nil
		}
		return m, m.pushSync()
	}
	return m, nil
}

func (m Model) switchTab(delta int) (tea.Model, tea.Cmd) {
	n := len(tabTitles)
	m.state = SessionState((int(m.state) + delta + n) % n)
	if m.state == StateLeaderboard && !m.boardSet {
		return m, m.fetchLeaderboard()
	}
	return m, nil
}
