// Package checker decides from a submission list whether a handle has
// solved the day's problems. It performs no I/O.
package checker

import (
	"github.com/julianstephens/potd/internal/constants"
	"github.com/julianstephens/potd/internal/models"
)

// IsSolved reports whether any submission for problem carries the accepted
// verdict. An empty handle never counts as solved.
func IsSolved(handle string, problem models.Problem, submissions []models.Submission) bool {
	if handle == "" {
		return false
	}
	for _, s := range submissions {
		if s.Matches(problem) && s.Verdict == constants.AcceptedVerdict {
			return true
		}
	}
	return false
}

// Check evaluates the global and personal problems of sel independently.
// Known is set because the caller obtained submissions; callers that failed
// to fetch them report an unknown status instead of calling Check.
func Check(handle string, sel models.DailySelection, submissions []models.Submission) models.SolveStatus {
	st := models.SolveStatus{
		GlobalSolved: IsSolved(handle, sel.Global, submissions),
		Known:        handle != "",
	}
	if sel.Personal != nil {
		st.PersonalSolved = IsSolved(handle, *sel.Personal, submissions)
	}
	return st
}
