// Package leaderboard pushes local streaks to the shared leaderboard and
// reads them back for recovery and ranking.
package leaderboard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/potd/internal/constants"
	"github.com/julianstephens/potd/internal/errors"
	"github.com/julianstephens/potd/internal/events"
	"github.com/julianstephens/potd/internal/logger"
	"github.com/julianstephens/potd/internal/metrics"
	"github.com/julianstephens/potd/internal/models"
)

// Remote is the shared store. Get returns nil, nil for unknown handles.
type Remote interface {
	Get(ctx context.Context, handle string) (*models.LeaderboardEntry, error)
	Upsert(ctx context.Context, entry models.LeaderboardEntry) error
	Top(ctx context.Context, n int) ([]models.LeaderboardEntry, error)
}

type Syncer struct {
	remote  Remote
	timeout time.Duration
	bus     *events.Bus[events.SyncFinished]
	now     func() time.Time
}

// NewSyncer wraps remote. A nil remote yields a disabled syncer whose
// operations are no-ops.
func NewSyncer(remote Remote, timeout time.Duration, bus *events.Bus[events.SyncFinished]) *Syncer {
	if timeout <= 0 {
		timeout = constants.DefaultLeaderboardTimeout
	}
	return &Syncer{
		remote:  remote,
		timeout: timeout,
		bus:     bus,
		now:     time.Now,
	}
}

func (s *Syncer) Enabled() bool {
	return s != nil && s.remote != nil
}

// Push upserts the record for handle. The error is returned for callers
// that report it (`potd sync`); background callers only log it.
func (s *Syncer) Push(ctx context.Context, handle string, rec models.StreakRecord) error {
	if !s.Enabled() || handle == "" {
		return nil
	}

	attempt := uuid.NewString()
	log := logger.With("attempt", attempt, "handle", handle)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	entry := models.LeaderboardEntry{
		Handle:        handle,
		CurrentStreak: rec.Count,
		MaxStreak:     rec.Max,
		LastUpdated:   s.now(),
	}

	log.Debug("Pushing streak", "current", entry.CurrentStreak, "max", entry.MaxStreak)
	err := s.remote.Upsert(ctx, entry)
	metrics.ObserveSync(err)
	if err != nil {
		err = fmt.Errorf("%w: %v", errors.ErrRemoteSync, err)
		log.Warn("Leaderboard push failed", "error", err)
	} else {
		log.Info("Leaderboard updated", "max", entry.MaxStreak)
	}
	s.bus.Publish(events.SyncFinished{Handle: handle, Err: err})
	return err
}

// Fetch reads the remote entry for handle, nil when absent or disabled.
func (s *Syncer) Fetch(ctx context.Context, handle string) (*models.LeaderboardEntry, error) {
	if !s.Enabled() || handle == "" {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	entry, err := s.remote.Get(ctx, handle)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrRemoteSync, err)
	}
	return entry, nil
}

// Top lists the n best entries by max streak.
func (s *Syncer) Top(ctx context.Context, n int) ([]models.LeaderboardEntry, error) {
	if !s.Enabled() {
		return nil, fmt.Errorf("leaderboard is not configured")
	}
	if n <= 0 {
		n = constants.DefaultLeaderboardLimit
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	entries, err := s.remote.Top(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrRemoteSync, err)
	}
	return entries, nil
}
