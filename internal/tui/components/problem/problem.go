// Package problem renders a day's problem as a bordered card.
package problem

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/potd/internal/models"
)

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	solvedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	unknownStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1).
			Width(64)
)

// Status is how a card reports solve state.
type Status int

const (
	StatusHidden Status = iota
	StatusUnknown
	StatusPending
	StatusSolved
)

// StatusFor maps a solve report onto a card status. Without a handle the
// status line is hidden.
func StatusFor(handle string, st models.SolveStatus, solved bool) Status {
	switch {
	case handle == "":
		return StatusHidden
	case !st.Known:
		return StatusUnknown
	case solved:
		return StatusSolved
	default:
		return StatusPending
	}
}

func (s Status) String() string {
	switch s {
	case StatusUnknown:
		return "status unknown"
	case StatusPending:
		return "not solved yet"
	case StatusSolved:
		return "solved"
	default:
		return ""
	}
}

func (s Status) render() string {
	switch s {
	case StatusSolved:
		return solvedStyle.Render("✓ " + s.String())
	case StatusPending:
		return pendingStyle.Render("○ " + s.String())
	case StatusUnknown:
		return unknownStyle.Render("? " + s.String())
	default:
		return ""
	}
}

// Line formats a problem on one line: "1850A Name (rating 800)".
func Line(p models.Problem) string {
	rating := "unrated"
	if p.HasRating() {
		rating = fmt.Sprintf("rating %d", p.RatingValue())
	}
	return fmt.Sprintf("%d%s %s (%s)", p.ContestID, p.Index, p.Name, rating)
}

// Card renders label, problem, link and status. host is the judge site
// root used for the link; empty omits it.
func Card(label string, p models.Problem, host string, status Status) string {
	lines := []string{
		labelStyle.Render(label),
		nameStyle.Render(Line(p)),
	}
	if len(p.Tags) > 0 {
		lines = append(lines, metaStyle.Render(strings.Join(p.Tags, ", ")))
	}
	if host != "" {
		lines = append(lines, metaStyle.Render(p.URL(host)))
	}
	if s := status.render(); s != "" {
		lines = append(lines, s)
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}
