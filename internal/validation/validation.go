package validation

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/julianstephens/potd/internal/models"
	"github.com/julianstephens/potd/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictMaxBelowCount       ConflictType = "max_below_count"
	ConflictNegativeCount       ConflictType = "negative_count"
	ConflictUnsortedHistory     ConflictType = "unsorted_history"
	ConflictDuplicateDay        ConflictType = "duplicate_day"
	ConflictInvalidDate         ConflictType = "invalid_date"
	ConflictLastSolvedMissing   ConflictType = "last_solved_missing"
	ConflictFutureDate          ConflictType = "future_date"
	ConflictSelectionIncomplete ConflictType = "selection_incomplete"
	ConflictInvalidHandle       ConflictType = "invalid_handle"
	ConflictInvalidTimezone     ConflictType = "invalid_timezone"
)

// Conflict represents a detected problem in the stored ledger
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string // YYYY-MM-DD format (if applicable)
	// Healable is set when loading the ledger repairs the conflict.
	Healable bool
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Healable reports whether every conflict is repaired by a ledger load.
func (vr *ValidationResult) Healable() bool {
	for _, c := range vr.Conflicts {
		if !c.Healable {
			return false
		}
	}
	return true
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	report := "Conflicts detected:\n"
	for _, conflict := range vr.Conflicts {
		report += fmt.Sprintf("- %s\n", conflict.Description)
	}
	return report
}

func (vr *ValidationResult) add(c Conflict) {
	vr.Conflicts = append(vr.Conflicts, c)
}

func (vr *ValidationResult) merge(other ValidationResult) {
	vr.Conflicts = append(vr.Conflicts, other.Conflicts...)
}

// Validator checks raw ledger values against the streak rules
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateStreak checks a record as stored, before any self-heal. today is
// the current day key; days after it are reported.
func (v *Validator) ValidateStreak(rec models.StreakRecord, today string) ValidationResult {
	var result ValidationResult

	if rec.Count < 0 || rec.Max < 0 {
		result.add(Conflict{
			Type:        ConflictNegativeCount,
			Description: fmt.Sprintf("Streak count (%d) or max (%d) is negative", rec.Count, rec.Max),
		})
	}
	if rec.Max < rec.Count {
		result.add(Conflict{
			Type:        ConflictMaxBelowCount,
			Description: fmt.Sprintf("Best streak (%d) is below the current streak (%d)", rec.Max, rec.Count),
			Healable:    true,
		})
	}

	seen := make(map[string]bool, len(rec.History))
	for _, d := range rec.History {
		if !utils.ValidateDateKey(d) {
			result.add(Conflict{
				Type:        ConflictInvalidDate,
				Description: fmt.Sprintf("History entry %q is not a YYYY-MM-DD date", d),
				Date:        d,
				Healable:    d == "",
			})
			continue
		}
		if seen[d] {
			result.add(Conflict{
				Type:        ConflictDuplicateDay,
				Description: fmt.Sprintf("Day %s appears more than once in the history", d),
				Date:        d,
				Healable:    true,
			})
		}
		seen[d] = true
		if today != "" && d > today {
			result.add(Conflict{
				Type:        ConflictFutureDate,
				Description: fmt.Sprintf("History entry %s is after today (%s)", d, today),
				Date:        d,
			})
		}
	}
	if !sort.StringsAreSorted(rec.History) {
		result.add(Conflict{
			Type:        ConflictUnsortedHistory,
			Description: "Solve history is not in chronological order",
			Healable:    true,
		})
	}

	if rec.LastSolved != "" {
		switch {
		case !utils.ValidateDateKey(rec.LastSolved):
			result.add(Conflict{
				Type:        ConflictInvalidDate,
				Description: fmt.Sprintf("Last solved day %q is not a YYYY-MM-DD date", rec.LastSolved),
				Date:        rec.LastSolved,
			})
		case !seen[rec.LastSolved]:
			result.add(Conflict{
				Type:        ConflictLastSolvedMissing,
				Description: fmt.Sprintf("Last solved day %s is missing from the history", rec.LastSolved),
				Date:        rec.LastSolved,
			})
		}
	}
	return result
}

// ValidateSelection checks a cached daily selection.
func (v *Validator) ValidateSelection(sel *models.DailySelection, today string) ValidationResult {
	var result ValidationResult
	if sel == nil {
		return result
	}
	if !utils.ValidateDateKey(sel.Date) {
		result.add(Conflict{
			Type:        ConflictInvalidDate,
			Description: fmt.Sprintf("Cached selection date %q is not a YYYY-MM-DD date", sel.Date),
			Date:        sel.Date,
		})
	} else if today != "" && sel.Date > today {
		result.add(Conflict{
			Type:        ConflictFutureDate,
			Description: fmt.Sprintf("Cached selection is for %s, after today (%s)", sel.Date, today),
			Date:        sel.Date,
		})
	}
	if sel.Global.ContestID <= 0 || sel.Global.Index == "" {
		result.add(Conflict{
			Type:        ConflictSelectionIncomplete,
			Description: "Cached selection has no global problem",
			Date:        sel.Date,
		})
	}
	if sel.Handle != "" && sel.Personal == nil {
		result.add(Conflict{
			Type:        ConflictSelectionIncomplete,
			Description: fmt.Sprintf("Cached selection for %s has no personal problem", sel.Handle),
			Date:        sel.Date,
		})
	}
	return result
}

var handlePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,24}$`)

// ValidateHandle accepts an empty handle (global problem only) or a judge
// handle of letters, digits, '_', '-' and '.'.
func ValidateHandle(handle string) error {
	if handle == "" || handlePattern.MatchString(handle) {
		return nil
	}
	return fmt.Errorf("invalid handle %q", handle)
}

// ValidateSettings checks the stored handle and timezone.
func (v *Validator) ValidateSettings(s models.Settings) ValidationResult {
	var result ValidationResult
	if err := ValidateHandle(s.Handle); err != nil {
		result.add(Conflict{
			Type:        ConflictInvalidHandle,
			Description: fmt.Sprintf("Stored handle %q is not a valid judge handle", s.Handle),
		})
	}
	if !utils.ValidateTimezone(s.Timezone) {
		result.add(Conflict{
			Type:        ConflictInvalidTimezone,
			Description: fmt.Sprintf("Stored timezone %q is not a known IANA zone", s.Timezone),
		})
	}
	return result
}

// ValidateLedger runs every check over one snapshot.
func (v *Validator) ValidateLedger(rec models.StreakRecord, sel *models.DailySelection, s models.Settings, today string) ValidationResult {
	var result ValidationResult
	result.merge(v.ValidateStreak(rec, today))
	result.merge(v.ValidateSelection(sel, today))
	result.merge(v.ValidateSettings(s))
	return result
}
