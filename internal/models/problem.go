package models

import (
	"fmt"
	"strings"
)

// Problem is a single entry of the judge's public problem set.
// Identity is (ContestID, Index).
type Problem struct {
	ContestID int      `json:"contestId"`
	Index     string   `json:"index"`
	Name      string   `json:"name"`
	Rating    *int     `json:"rating,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

// Key returns the identity of the problem in "<contestId>-<index>" form.
func (p Problem) Key() string {
	return ProblemKey(p.ContestID, p.Index)
}

// ProblemKey formats a problem identity.
func ProblemKey(contestID int, index string) string {
	return fmt.Sprintf("%d-%s", contestID, index)
}

// HasRating reports whether the judge assigned the problem a difficulty rating.
func (p Problem) HasRating() bool {
	return p.Rating != nil
}

// RatingValue returns the rating, or 0 when the problem is unrated.
func (p Problem) RatingValue() int {
	if p.Rating == nil {
		return 0
	}
	return *p.Rating
}

// InRange reports whether the problem is rated and its rating is within [lo, hi].
func (p Problem) InRange(lo, hi int) bool {
	if p.Rating == nil {
		return false
	}
	return *p.Rating >= lo && *p.Rating <= hi
}

// Same reports whether both values refer to the same judge problem.
func (p Problem) Same(other Problem) bool {
	return p.ContestID == other.ContestID && p.Index == other.Index
}

// URL returns the public problem statement link on the given judge host.
func (p Problem) URL(host string) string {
	host = strings.TrimSuffix(host, "/")
	return fmt.Sprintf("%s/problemset/problem/%d/%s", host, p.ContestID, p.Index)
}

// Rating is a helper for building problems in code and tests.
func Rating(r int) *int {
	return &r
}

// Submission is one entry of a handle's submission history.
type Submission struct {
	ID                  int64   `json:"id"`
	ContestID           int     `json:"contestId,omitempty"`
	CreationTimeSeconds int64   `json:"creationTimeSeconds"`
	Problem             Problem `json:"problem"`
	Verdict             string  `json:"verdict,omitempty"`
}

// Matches reports whether the submission was made against p.
func (s Submission) Matches(p Problem) bool {
	return s.Problem.Same(p)
}

// UserInfo carries the subset of the judge's user record the selector needs.
type UserInfo struct {
	Handle string `json:"handle"`
	Rating int    `json:"rating"`
}
