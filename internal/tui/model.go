package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/potd/internal/constants"
	"github.com/julianstephens/potd/internal/models"
	"github.com/julianstephens/potd/internal/potd"
)

type SessionState int

const (
	StateToday SessionState = iota
	StateStreak
	StateLeaderboard
)

var tabTitles = []string{"Today", "Streak", "Leaderboard"}

// Options configures what the view shows.
type Options struct {
	Handle string
	// Host is the judge site root used for problem links.
	Host string
	// Limit is the leaderboard size.
	Limit int
	// Months is how many months the streak calendar shows.
	Months int
	// Now defaults to time.Now.
	Now func() time.Time
}

type Model struct {
	svc  *potd.Service
	opts Options

	state   SessionState
	keys    KeyMap
	help    help.Model
	spinner spinner.Model

	loading  bool
	result   *potd.Result
	streak   models.StreakRecord
	board    []models.LeaderboardEntry
	boardErr error
	boardSet bool
	err      error
	notice   string

	quitting bool
	width    int
	height   int
}

func NewModel(svc *potd.Service, opts Options) Model {
	if opts.Limit <= 0 {
		opts.Limit = constants.DefaultLeaderboardLimit
	}
	if opts.Months <= 0 {
		opts.Months = 3
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return Model{
		svc:     svc,
		opts:    opts,
		state:   StateToday,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		spinner: sp,
		loading: true,
	}
}

func (m Model) ShortHelp() []key.Binding {
	keys := m.keys.ShortHelp()
	if m.opts.Handle != "" {
		keys = append(keys, m.keys.Sync)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchToday())
}
