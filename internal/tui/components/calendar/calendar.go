// Package calendar renders solve history as month grids.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/potd/internal/utils"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	weekdayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	dayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	solvedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("42")).
			Bold(true)

	todayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Underline(true)

	monthStyle = lipgloss.NewStyle().
			Padding(0, 2, 1, 0)
)

const weekdays = "Mo Tu We Th Fr Sa Su"

// MonthsPerRow is how many months Months places side by side.
const MonthsPerRow = 3

// Month renders one month starting on Monday. Days in solved are highlighted
// and today is underlined.
func Month(year int, month time.Month, solved map[string]bool, today string) string {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	days := first.AddDate(0, 1, -1).Day()

	var b strings.Builder
	b.WriteString(headerStyle.Render(first.Format("January 2006")))
	b.WriteString("\n")
	b.WriteString(weekdayStyle.Render(weekdays))
	b.WriteString("\n")

	col := (int(first.Weekday()) + 6) % 7
	b.WriteString(strings.Repeat("   ", col))
	for d := 1; d <= days; d++ {
		key := utils.DateKey(time.Date(year, month, d, 0, 0, 0, 0, time.UTC))
		cell := fmt.Sprintf("%2d", d)
		switch {
		case solved[key]:
			cell = solvedStyle.Render(cell)
		case key == today:
			cell = todayStyle.Render(cell)
		default:
			cell = dayStyle.Render(cell)
		}
		b.WriteString(cell)

		col++
		if col == 7 && d < days {
			b.WriteString("\n")
			col = 0
		} else if d < days {
			b.WriteString(" ")
		}
	}
	return b.String()
}

// Months renders n months ending with the month containing end.
func Months(history []string, end time.Time, n int) string {
	if n <= 0 {
		n = 1
	}
	solved := make(map[string]bool, len(history))
	for _, d := range history {
		solved[d] = true
	}
	today := utils.DateKey(end)

	var blocks []string
	for i := n - 1; i >= 0; i-- {
		t := time.Date(end.Year(), end.Month()-time.Month(i), 1, 0, 0, 0, 0, time.UTC)
		blocks = append(blocks, monthStyle.Render(Month(t.Year(), t.Month(), solved, today)))
	}

	var rows []string
	for len(blocks) > 0 {
		k := min(MonthsPerRow, len(blocks))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, blocks[:k]...))
		blocks = blocks[k:]
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// SolvedIn counts the history days that fall in the given month.
func SolvedIn(history []string, year int, month time.Month) int {
	prefix := fmt.Sprintf("%04d-%02d-", year, int(month))
	n := 0
	for _, d := range history {
		if strings.HasPrefix(d, prefix) {
			n++
		}
	}
	return n
}
