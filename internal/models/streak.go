package models

import "sort"

// StreakRecord is the persisted streak ledger entry.
type StreakRecord struct {
	Count      int      `json:"count"`
	Max        int      `json:"max"`
	LastSolved string   `json:"lastSolved,omitempty"`
	History    []string `json:"history"`
}

// HasSolved reports whether day is part of the solve history.
func (r StreakRecord) HasSolved(day string) bool {
	for _, d := range r.History {
		if d == day {
			return true
		}
	}
	return false
}

// WithDay returns a copy of the record with day added to the history.
// The returned flag is false when the day was already present.
func (r StreakRecord) WithDay(day string) (StreakRecord, bool) {
	if day == "" || r.HasSolved(day) {
		return r, false
	}
	hist := make([]string, 0, len(r.History)+1)
	hist = append(hist, r.History...)
	hist = append(hist, day)
	r.History = hist
	return r, true
}

// Normalized returns a copy with a sorted, duplicate-free history and
// max raised to at least count.
func (r StreakRecord) Normalized() StreakRecord {
	seen := make(map[string]struct{}, len(r.History))
	hist := make([]string, 0, len(r.History))
	for _, d := range r.History {
		if d == "" {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		hist = append(hist, d)
	}
	// DateKeys are YYYY-MM-DD so lexical order is calendar order.
	sort.Strings(hist)
	r.History = hist
	if r.Max < r.Count {
		r.Max = r.Count
	}
	return r
}
