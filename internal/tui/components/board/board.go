// Package board renders leaderboard rows as a table.
package board

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/potd/internal/constants"
	"github.com/julianstephens/potd/internal/models"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)

	selfStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true).
			Padding(0, 1)

	borderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62"))

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// Headers are the column titles, in render order.
var Headers = []string{"#", "Handle", "Current", "Max", "Updated"}

// Rows converts entries to table cells. Ranks start at 1.
func Rows(entries []models.LeaderboardEntry) [][]string {
	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		updated := "-"
		if !e.LastUpdated.IsZero() {
			updated = e.LastUpdated.Local().Format(constants.DateFormat)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			e.Handle,
			strconv.Itoa(e.CurrentStreak),
			strconv.Itoa(e.MaxStreak),
			updated,
		})
	}
	return rows
}

// Render draws the table. The row whose handle equals self (case-insensitive)
// is highlighted.
func Render(entries []models.LeaderboardEntry, self string) string {
	if len(entries) == 0 {
		return emptyStyle.Render("No leaderboard entries yet.")
	}
	rows := Rows(entries)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(Headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row >= 0 && row < len(rows) && self != "" && strings.EqualFold(rows[row][1], self) {
				return selfStyle
			}
			return cellStyle
		})
	return t.String()
}
