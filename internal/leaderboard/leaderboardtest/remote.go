// Package leaderboardtest provides an in-process leaderboard for tests.
package leaderboardtest

import (
	"context"
	"sort"
	"sync"

	"github.com/julianstephens/potd/internal/leaderboard"
	"github.com/julianstephens/potd/internal/models"
)

// Remote keeps entries in a map. The zero value is not usable; call NewRemote.
type Remote struct {
	mu      sync.Mutex
	entries map[string]models.LeaderboardEntry
	// Err, when set, is returned from every call.
	Err error
}

func NewRemote() *Remote {
	return &Remote{entries: make(map[string]models.LeaderboardEntry)}
}

func (m *Remote) Get(ctx context.Context, handle string) (*models.LeaderboardEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	e, ok := m.entries[handle]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (m *Remote) Upsert(ctx context.Context, entry models.LeaderboardEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.entries[entry.Handle] = entry
	return nil
}

func (m *Remote) Top(ctx context.Context, n int) ([]models.LeaderboardEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]models.LeaderboardEntry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MaxStreak != out[j].MaxStreak {
			return out[i].MaxStreak > out[j].MaxStreak
		}
		if out[i].CurrentStreak != out[j].CurrentStreak {
			return out[i].CurrentStreak > out[j].CurrentStreak
		}
		return out[i].Handle < out[j].Handle
	})
	if n < len(out) {
		out = out[:n]
	}
	return out, nil
}

// Set stores entry as is, bypassing Err.
func (m *Remote) Set(entry models.LeaderboardEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.Handle] = entry
}

var _ leaderboard.Remote = (*Remote)(nil)
