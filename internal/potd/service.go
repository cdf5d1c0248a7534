// Package potd runs the daily flow: load the ledger, serve or compute the
// day's selection, check solves and advance the streak.
package potd

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/julianstephens/potd/internal/checker"
	"github.com/julianstephens/potd/internal/constants"
	"github.com/julianstephens/potd/internal/errors"
	"github.com/julianstephens/potd/internal/events"
	"github.com/julianstephens/potd/internal/leaderboard"
	"github.com/julianstephens/potd/internal/ledger"
	"github.com/julianstephens/potd/internal/logger"
	"github.com/julianstephens/potd/internal/metrics"
	"github.com/julianstephens/potd/internal/models"
	"github.com/julianstephens/potd/internal/selector"
	"github.com/julianstephens/potd/internal/streak"
	"github.com/julianstephens/potd/internal/utils"
)

// Judge is the subset of the judge API the service calls.
type Judge interface {
	Problems(ctx context.Context) ([]models.Problem, error)
	UserInfo(ctx context.Context, handle string) (models.UserInfo, error)
	Submissions(ctx context.Context, handle string, count int) ([]models.Submission, error)
}

type Deps struct {
	Judge    Judge
	Ledger   *ledger.Ledger
	Syncer   *leaderboard.Syncer
	Hub      *events.Hub
	Location *time.Location
	// Now defaults to time.Now.
	Now func() time.Time
}

type Service struct {
	judge  Judge
	ledger *ledger.Ledger
	syncer *leaderboard.Syncer
	engine *streak.Engine
	hub    *events.Hub
	loc    *time.Location
	now    func() time.Time

	gen atomic.Uint64
}

func NewService(d Deps) *Service {
	if d.Location == nil {
		d.Location = time.Local
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Hub == nil {
		d.Hub = events.NewHub()
	}
	if d.Syncer == nil {
		d.Syncer = leaderboard.NewSyncer(nil, 0, d.Hub.Sync)
	}
	return &Service{
		judge:  d.Judge,
		ledger: d.Ledger,
		syncer: d.Syncer,
		engine: streak.NewEngine(d.Ledger, d.Syncer, d.Hub.Streak, d.Location),
		hub:    d.Hub,
		loc:    d.Location,
		now:    d.Now,
	}
}

// Request names the day and handle to serve. An empty Date means today.
type Request struct {
	Handle string
	Date   string
}

type Result struct {
	Selection models.DailySelection
	Status    models.SolveStatus
	Streak    models.StreakRecord
	// Cached is set when the selection came from the ledger.
	Cached bool
	// IsToday is false for historical lookups, which never touch the ledger.
	IsToday bool
	// Advanced is set when this call moved the streak.
	Advanced bool
}

func (s *Service) Hub() *events.Hub {
	return s.hub
}

func (s *Service) Ledger() *ledger.Ledger {
	return s.ledger
}

// TodayKey returns the current day in the service's location.
func (s *Service) TodayKey() string {
	return utils.TodayIn(s.now(), s.loc)
}

func (s *Service) current(gen uint64) bool {
	return s.gen.Load() == gen
}

// Today serves req. Only the newest call's results are kept: a call that
// finishes after a later call started returns ErrSuperseded and writes
// nothing.
func (s *Service) Today(ctx context.Context, req Request) (Result, error) {
	gen := s.gen.Add(1)

	today := s.TodayKey()
	date := req.Date
	if date == "" {
		date = today
	}
	if !utils.ValidateDateKey(date) {
		return Result{}, fmt.Errorf("invalid date %q (expected %s)", date, constants.DateFormat)
	}
	res := Result{IsToday: date == today}
	handle := req.Handle

	// The ledger is read before the cache is consulted.
	st, err := s.ledger.Load()
	if err != nil {
		return Result{}, err
	}
	res.Streak = st.Streak

	if res.IsToday && handle != "" && st.Streak.Count == 0 {
		if rec, ok, err := s.engine.Recover(ctx, handle, today); err != nil {
			logger.Warn("Streak recovery failed", "error", err)
		} else if ok {
			res.Streak = rec
		}
	}

	var subs []models.Submission
	if res.IsToday && ledger.SelectionValid(st.Selection, date, handle) {
		res.Selection = *st.Selection
		res.Cached = true
	} else {
		res.Selection, subs, err = s.compute(ctx, date, handle)
		if err != nil {
			return Result{}, err
		}
	}
	if handle == "" {
		res.Selection.Handle = ""
		res.Selection.Personal = nil
	}

	if !s.current(gen) {
		return Result{}, fmt.Errorf("%s: %w", date, errors.ErrSuperseded)
	}
	if res.IsToday && !res.Cached {
		if err := s.ledger.SaveSelection(res.Selection); err != nil {
			return Result{}, fmt.Errorf("failed to cache selection: %w", err)
		}
	}
	metrics.ObserveSelection(res.Cached)

	res.Status = s.check(ctx, handle, res.Selection, subs)

	if !s.current(gen) {
		return Result{}, fmt.Errorf("%s: %w", date, errors.ErrSuperseded)
	}

	// Only the personal problem advances the streak.
	if res.IsToday && res.Status.PersonalSolved {
		rec, advanced, err := s.engine.RecordSolve(ctx, handle, today)
		if err != nil {
			return Result{}, err
		}
		res.Streak = rec
		res.Advanced = advanced
	}

	s.hub.Selection.Publish(events.SelectionReady{
		Selection: res.Selection,
		Status:    res.Status,
		Cached:    res.Cached,
	})
	return res, nil
}

// compute fetches everything a selection needs. It also returns the
// solved-set submissions so the solve check can reuse them.
func (s *Service) compute(ctx context.Context, date, handle string) (models.DailySelection, []models.Submission, error) {
	catalog, err := s.judge.Problems(ctx)
	if err != nil {
		return models.DailySelection{}, nil, fmt.Errorf("failed to load problems: %w", err)
	}

	in := selector.Input{Date: date, Handle: handle, Catalog: catalog}
	var subs []models.Submission
	if handle != "" {
		if info, err := s.judge.UserInfo(ctx, handle); err != nil {
			logger.Warn("Using default rating window", "handle", handle, "error", err)
		} else {
			in.Rating = info.Rating
		}

		subs, err = s.judge.Submissions(ctx, handle, constants.SolvedSetCount)
		if err != nil {
			logger.Warn("Solved set unavailable", "handle", handle, "error", err)
			subs = nil
		}
		in.Solved = selector.SolvedSet(subs)
	}

	sel, err := selector.Select(in)
	if err != nil {
		return models.DailySelection{}, nil, err
	}
	logger.Debug("Selection computed", "date", date, "global", sel.Global.Key(), "candidates", len(catalog))
	return sel, subs, nil
}

// check reports solve status. Submissions fetched during compute are reused;
// otherwise the most recent ones are fetched.
func (s *Service) check(ctx context.Context, handle string, sel models.DailySelection, subs []models.Submission) models.SolveStatus {
	if handle == "" {
		return models.SolveStatus{}
	}
	if subs == nil {
		var err error
		subs, err = s.judge.Submissions(ctx, handle, constants.SolveCheckCount)
		if err != nil {
			logger.Warn("Solve status unknown", "handle", handle, "error", err)
			return models.SolveStatus{}
		}
	}
	return checker.Check(handle, sel, subs)
}

// Sync pushes the stored streak for handle to the leaderboard.
func (s *Service) Sync(ctx context.Context, handle string) (models.StreakRecord, error) {
	if !s.syncer.Enabled() {
		return models.StreakRecord{}, fmt.Errorf("leaderboard is not configured")
	}
	if handle == "" {
		return models.StreakRecord{}, fmt.Errorf("no handle configured, run '%s settings --handle <handle>'", constants.AppName)
	}
	rec, err := s.ledger.LoadStreak()
	if err != nil {
		return models.StreakRecord{}, err
	}
	return rec, s.syncer.Push(ctx, handle, rec)
}

// Leaderboard returns the top n leaderboard rows.
func (s *Service) Leaderboard(ctx context.Context, n int) ([]models.LeaderboardEntry, error) {
	return s.syncer.Top(ctx, n)
}

// Wait blocks until background leaderboard pushes have finished.
func (s *Service) Wait() {
	s.engine.Wait()
}
