package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/potd/internal/errors"
	"github.com/julianstephens/potd/internal/events"
	"github.com/julianstephens/potd/internal/models"
	"github.com/julianstephens/potd/internal/potd"
)

type resultMsg struct {
	result potd.Result
}

type errMsg struct {
	err error
}

type leaderboardMsg struct {
	entries []models.LeaderboardEntry
	err     error
}

type streakMsg events.StreakUpdated

type syncMsg events.SyncFinished

func (m Model) fetchToday() tea.Cmd {
	svc, handle := m.svc, m.opts.Handle
	return func() tea.Msg {
		res, err := svc.Today(context.Background(), potd.Request{Handle: handle})
		if errors.Is(err, errors.ErrSuperseded) {
			// A newer refresh owns the screen.
			return nil
		}
		if err != nil {
			return errMsg{err}
		}
		return resultMsg{res}
	}
}

func (m Model) fetchLeaderboard() tea.Cmd {
	svc, limit := m.svc, m.opts.Limit
	return func() tea.Msg {
		entries, err := svc.Leaderboard(context.Background(), limit)
		return leaderboardMsg{entries: entries, err: err}
	}
}

func (m Model) pushSync() tea.Cmd {
	svc, handle := m.svc, m.opts.Handle
	return func() tea.Msg {
		// The outcome arrives as a syncMsg through the hub.
		if _, err := svc.Sync(context.Background(), handle); err != nil && !errors.Is(err, errors.ErrRemoteSync) {
			return errMsg{err}
		}
		return nil
	}
}

// Subscribe forwards hub events to a running program. The returned func
// removes the subscriptions.
func Subscribe(p *tea.Program, hub *events.Hub) func() {
	unsubStreak := hub.Streak.Subscribe(func(ev events.StreakUpdated) {
		p.Send(streakMsg(ev))
	})
	unsubSync := hub.Sync.Subscribe(func(ev events.SyncFinished) {
		p.Send(syncMsg(ev))
	})
	return func() {
		unsubStreak()
		unsubSync()
	}
}
