// Package streak advances the daily-solve streak and repairs it from the
// leaderboard.
package streak

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/julianstephens/potd/internal/events"
	"github.com/julianstephens/potd/internal/ledger"
	"github.com/julianstephens/potd/internal/leaderboard"
	"github.com/julianstephens/potd/internal/logger"
	"github.com/julianstephens/potd/internal/metrics"
	"github.com/julianstephens/potd/internal/models"
	"github.com/julianstephens/potd/internal/utils"
)

type Engine struct {
	ledger *ledger.Ledger
	syncer *leaderboard.Syncer
	bus    *events.Bus[events.StreakUpdated]
	loc    *time.Location

	// mu serializes read-modify-write cycles on the streak record.
	mu sync.Mutex
	wg sync.WaitGroup
}

func NewEngine(l *ledger.Ledger, syncer *leaderboard.Syncer, bus *events.Bus[events.StreakUpdated], loc *time.Location) *Engine {
	if loc == nil {
		loc = time.Local
	}
	return &Engine{
		ledger: l,
		syncer: syncer,
		bus:    bus,
		loc:    loc,
	}
}

// RecordSolve registers a solve on today. A second call on the same day
// changes nothing but may add today to a history that lost it. The returned
// flag reports whether count, max or lastSolved moved. Subscribers are called
// after the streak lock is released.
func (e *Engine) RecordSolve(ctx context.Context, handle, today string) (models.StreakRecord, bool, error) {
	rec, moved, err := e.recordSolve(today)
	if err != nil || !moved {
		return rec, moved, err
	}
	metrics.SetStreak(rec.Count, rec.Max)
	e.bus.Publish(events.StreakUpdated{Record: rec})
	e.pushAsync(handle, rec)
	return rec, true, nil
}

func (e *Engine) recordSolve(today string) (models.StreakRecord, bool, error) {
	yesterday, err := utils.PreviousKey(today)
	if err != nil {
		return models.StreakRecord{}, false, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	rec, err := e.ledger.LoadStreak()
	if err != nil {
		return models.StreakRecord{}, false, err
	}

	if rec.LastSolved == today {
		healed, added := rec.WithDay(today)
		if added {
			if err := e.ledger.SaveStreak(healed); err != nil {
				return rec, false, fmt.Errorf("failed to save streak: %w", err)
			}
		}
		return healed.Normalized(), false, nil
	}

	if rec.LastSolved == yesterday {
		rec.Count++
	} else {
		rec.Count = 1
	}
	rec.LastSolved = today
	rec, _ = rec.WithDay(today)
	if rec.Count > rec.Max {
		rec.Max = rec.Count
	}
	rec = rec.Normalized()

	if err := e.ledger.SaveStreak(rec); err != nil {
		return models.StreakRecord{}, false, fmt.Errorf("failed to save streak: %w", err)
	}
	logger.Info("Streak advanced", "day", today, "count", rec.Count, "max", rec.Max)
	return rec, true, nil
}

// Recover adopts the leaderboard's streak when the local one is empty and
// the remote one is still alive: last updated today or yesterday with a
// positive current streak. Local non-zero streaks are never overwritten.
// The recovered max is the largest of the local max, the remote max and the
// remote current streak, so max never decreases.
func (e *Engine) Recover(ctx context.Context, handle, today string) (models.StreakRecord, bool, error) {
	rec, recovered, err := e.recoverFromRemote(ctx, handle, today)
	if err != nil || !recovered {
		return rec, recovered, err
	}
	metrics.SetStreak(rec.Count, rec.Max)
	e.bus.Publish(events.StreakUpdated{Record: rec, Recovered: true})
	return rec, true, nil
}

func (e *Engine) recoverFromRemote(ctx context.Context, handle, today string) (models.StreakRecord, bool, error) {
	yesterday, err := utils.PreviousKey(today)
	if err != nil {
		return models.StreakRecord{}, false, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	rec, err := e.ledger.LoadStreak()
	if err != nil {
		return models.StreakRecord{}, false, err
	}
	if rec.Count != 0 || handle == "" || !e.syncer.Enabled() {
		return rec, false, nil
	}

	remote, err := e.syncer.Fetch(ctx, handle)
	if err != nil {
		logger.Warn("Streak recovery skipped", "handle", handle, "error", err)
		return rec, false, nil
	}
	if remote == nil || remote.CurrentStreak <= 0 {
		return rec, false, nil
	}

	day := utils.DateKey(remote.LastUpdated.In(e.loc))
	if day != today && day != yesterday {
		logger.Debug("Remote streak is stale", "handle", handle, "last_updated", day)
		return rec, false, nil
	}

	rec.Count = remote.CurrentStreak
	rec.Max = max(rec.Max, remote.MaxStreak, remote.CurrentStreak)
	rec.LastSolved = day
	rec, _ = rec.WithDay(day)
	rec = rec.Normalized()

	if err := e.ledger.SaveStreak(rec); err != nil {
		return models.StreakRecord{}, false, fmt.Errorf("failed to save recovered streak: %w", err)
	}
	logger.Info("Streak recovered from leaderboard", "handle", handle, "count", rec.Count, "max", rec.Max)
	return rec, true, nil
}

func (e *Engine) pushAsync(handle string, rec models.StreakRecord) {
	if !e.syncer.Enabled() || handle == "" {
		return
	}
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		// Errors are logged by the syncer; the ledger stays authoritative.
		_ = e.syncer.Push(context.Background(), handle, rec)
	}()
}

// Wait blocks until background leaderboard pushes have finished.
func (e *Engine) Wait() {
	e.wg.Wait()
}
