// Package selector maps a day, a handle and the judge catalog to the day's
// global and personal problems. Everything here is pure: the same inputs
// always produce the same pair.
package selector

import (
	"fmt"

	"github.com/julianstephens/potd/internal/constants"
	"github.com/julianstephens/potd/internal/errors"
	"github.com/julianstephens/potd/internal/models"
	"github.com/julianstephens/potd/internal/utils"
)

// Input is everything a selection depends on.
type Input struct {
	Date    string
	Handle  string
	Catalog []models.Problem
	// Rating is the handle's current rating, 0 when unknown.
	Rating int
	// Solved holds problem keys the handle already has an accepted verdict on.
	Solved map[string]struct{}
}

// Select picks the global problem and, when a handle is given, the personal
// problem. A personal window with no unsolved candidates falls back to the
// global problem.
func Select(in Input) (models.DailySelection, error) {
	seed, err := utils.SeedFromKey(in.Date)
	if err != nil {
		return models.DailySelection{}, err
	}

	pool := Candidates(in.Catalog, constants.GlobalMinRating, constants.GlobalMaxRating, nil)
	idx := utils.PickIndex(seed, len(pool))
	if idx < 0 {
		return models.DailySelection{}, fmt.Errorf("select %s: %w", in.Date, errors.ErrEmptyCandidates)
	}

	sel := models.DailySelection{
		Date:   in.Date,
		Handle: in.Handle,
		Global: pool[idx],
	}
	if in.Handle == "" {
		return sel, nil
	}

	personal := Personal(in.Date, in.Handle, in.Catalog, in.Rating, in.Solved)
	if personal == nil {
		fallback := sel.Global
		personal = &fallback
	}
	sel.Personal = personal
	return sel, nil
}

// Personal returns the handle's problem for date, or nil when the rating
// window holds no unsolved candidates.
func Personal(date, handle string, catalog []models.Problem, rating int, solved map[string]struct{}) *models.Problem {
	seed, err := utils.SeedFromKey(date)
	if err != nil {
		return nil
	}
	lo, hi := Window(rating)
	pool := Candidates(catalog, lo, hi, solved)
	idx := utils.PickIndex(seed+int64(utils.StringHash(handle)), len(pool))
	if idx < 0 {
		return nil
	}
	p := pool[idx]
	return &p
}

// Window returns the inclusive rating range for personal picks.
func Window(rating int) (int, int) {
	if rating < constants.BeginnerRatingCeiling {
		return constants.BeginnerMinRating, constants.BeginnerMaxRating
	}
	return rating - constants.PersonalWindow, rating + constants.PersonalWindow
}

// Candidates keeps rated problems within [lo, hi] whose key is not in
// exclude, preserving catalog order.
func Candidates(catalog []models.Problem, lo, hi int, exclude map[string]struct{}) []models.Problem {
	var out []models.Problem
	for _, p := range catalog {
		if !p.InRange(lo, hi) {
			continue
		}
		if _, ok := exclude[p.Key()]; ok {
			continue
		}
		out = append(out, p)
	}
	return out
}

// SolvedSet collects the keys of problems with an accepted submission.
func SolvedSet(submissions []models.Submission) map[string]struct{} {
	solved := make(map[string]struct{})
	for _, s := range submissions {
		if s.Verdict == constants.AcceptedVerdict {
			solved[s.Problem.Key()] = struct{}{}
		}
	}
	return solved
}
