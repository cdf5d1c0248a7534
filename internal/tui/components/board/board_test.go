package board

import (
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/potd/internal/models"
)

func TestRows(t *testing.T) {
	entries := []models.LeaderboardEntry{
		{Handle: "tourist", CurrentStreak: 3, MaxStreak: 40},
		{Handle: "petr", CurrentStreak: 0, MaxStreak: 12, LastUpdated: time.Date(2025, 3, 1, 12, 0, 0, 0, time.Local)},
	}
	rows := Rows(entries)
	if len(rows) != 2 {
		t.Fatalf("Rows() returned %d rows, want 2", len(rows))
	}
	want := []string{"1", "tourist", "3", "40", "-"}
	for i, cell := range want {
		if rows[0][i] != cell {
			t.Errorf("rows[0][%d] = %q, want %q", i, rows[0][i], cell)
		}
	}
	if rows[1][0] != "2" || rows[1][4] != "2025-03-01" {
		t.Errorf("rows[1] = %v", rows[1])
	}
}

func TestRenderEmpty(t *testing.T) {
	if out := Render(nil, "tourist"); !strings.Contains(out, "No leaderboard entries") {
		t.Errorf("Render(nil) = %q", out)
	}
}

func TestRenderIncludesEveryHandle(t *testing.T) {
	entries := []models.LeaderboardEntry{
		{Handle: "alice", MaxStreak: 9},
		{Handle: "bob", MaxStreak: 4},
	}
	out := Render(entries, "BOB")
	for _, want := range append([]string{"alice", "bob"}, Headers...) {
		if !strings.Contains(out, want) {
			t.Errorf("Render() missing %q:\n%s", want, out)
		}
	}
}
