package models

import "time"

// LeaderboardEntry is one row of the shared leaderboard table.
type LeaderboardEntry struct {
	Handle        string    `json:"handle"`
	CurrentStreak int       `json:"current_streak"`
	MaxStreak     int       `json:"max_streak"`
	LastUpdated   time.Time `json:"last_updated"`
}
