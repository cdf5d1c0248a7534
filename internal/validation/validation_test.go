package validation

import (
	"strings"
	"testing"

	"github.com/julianstephens/potd/internal/models"
)

const today = "2025-03-10"

func hasConflict(result ValidationResult, typ ConflictType) bool {
	for _, c := range result.Conflicts {
		if c.Type == typ {
			return true
		}
	}
	return false
}

func TestValidateStreak_Clean(t *testing.T) {
	rec := models.StreakRecord{
		Count:      2,
		Max:        4,
		LastSolved: "2025-03-10",
		History:    []string{"2025-03-01", "2025-03-09", "2025-03-10"},
	}
	result := New().ValidateStreak(rec, today)
	if result.HasConflicts() {
		t.Errorf("expected no conflicts, got:\n%s", result.FormatReport())
	}
}

func TestValidateStreak_Conflicts(t *testing.T) {
	tests := []struct {
		name     string
		rec      models.StreakRecord
		want     ConflictType
		healable bool
	}{
		{
			name:     "max below count",
			rec:      models.StreakRecord{Count: 5, Max: 3},
			want:     ConflictMaxBelowCount,
			healable: true,
		},
		{
			name: "negative count",
			rec:  models.StreakRecord{Count: -1},
			want: ConflictNegativeCount,
		},
		{
			name:     "unsorted history",
			rec:      models.StreakRecord{History: []string{"2025-03-02", "2025-03-01"}},
			want:     ConflictUnsortedHistory,
			healable: true,
		},
		{
			name:     "duplicate day",
			rec:      models.StreakRecord{History: []string{"2025-03-01", "2025-03-01"}},
			want:     ConflictDuplicateDay,
			healable: true,
		},
		{
			name: "malformed day",
			rec:  models.StreakRecord{History: []string{"03/01/2025"}},
			want: ConflictInvalidDate,
		},
		{
			name: "future day",
			rec:  models.StreakRecord{History: []string{"2025-03-11"}},
			want: ConflictFutureDate,
		},
		{
			name: "last solved not in history",
			rec:  models.StreakRecord{Count: 1, Max: 1, LastSolved: "2025-03-09"},
			want: ConflictLastSolvedMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := New().ValidateStreak(tt.rec, today)
			if !hasConflict(result, tt.want) {
				t.Fatalf("expected %s, got:\n%s", tt.want, result.FormatReport())
			}
			if result.Healable() != tt.healable {
				t.Errorf("Healable() = %v, want %v", result.Healable(), tt.healable)
			}
		})
	}
}

func TestValidateStreak_HealedRecordIsClean(t *testing.T) {
	raw := models.StreakRecord{
		Count:      3,
		Max:        1,
		LastSolved: "2025-03-03",
		History:    []string{"2025-03-03", "2025-03-01", "2025-03-02", "2025-03-02"},
	}
	v := New()
	if result := v.ValidateStreak(raw, today); !result.HasConflicts() || !result.Healable() {
		t.Fatalf("raw record should have only healable conflicts:\n%s", result.FormatReport())
	}
	if result := v.ValidateStreak(raw.Normalized(), today); result.HasConflicts() {
		t.Errorf("normalized record still has conflicts:\n%s", result.FormatReport())
	}
}

func TestValidateSelection(t *testing.T) {
	v := New()
	if result := v.ValidateSelection(nil, today); result.HasConflicts() {
		t.Error("a missing selection is not a conflict")
	}

	global := models.Problem{ContestID: 4, Index: "A", Name: "Watermelon"}
	ok := &models.DailySelection{Date: today, Global: global}
	if result := v.ValidateSelection(ok, today); result.HasConflicts() {
		t.Errorf("unexpected conflicts:\n%s", result.FormatReport())
	}

	noPersonal := &models.DailySelection{Date: today, Handle: "alice", Global: global}
	if result := v.ValidateSelection(noPersonal, today); !hasConflict(result, ConflictSelectionIncomplete) {
		t.Error("expected ConflictSelectionIncomplete for a handle without a personal problem")
	}

	future := &models.DailySelection{Date: "2025-03-12", Global: global}
	if result := v.ValidateSelection(future, today); !hasConflict(result, ConflictFutureDate) {
		t.Error("expected ConflictFutureDate")
	}
}

func TestValidateSettings(t *testing.T) {
	v := New()
	if result := v.ValidateSettings(models.Settings{Handle: "tourist", Timezone: "Europe/Berlin"}); result.HasConflicts() {
		t.Errorf("unexpected conflicts:\n%s", result.FormatReport())
	}
	result := v.ValidateSettings(models.Settings{Handle: "bad handle", Timezone: "Nowhere/Land"})
	if !hasConflict(result, ConflictInvalidHandle) || !hasConflict(result, ConflictInvalidTimezone) {
		t.Errorf("expected handle and timezone conflicts:\n%s", result.FormatReport())
	}
}

func TestValidateHandle(t *testing.T) {
	for _, h := range []string{"", "tourist", "Um_nik", "a.b-c"} {
		if err := ValidateHandle(h); err != nil {
			t.Errorf("ValidateHandle(%q) = %v", h, err)
		}
	}
	for _, h := range []string{"with space", "semi;colon", "waytoolonghandlethatexceedslimit"} {
		if err := ValidateHandle(h); err == nil {
			t.Errorf("ValidateHandle(%q) accepted an invalid handle", h)
		}
	}
}

func TestFormatReport(t *testing.T) {
	var empty ValidationResult
	if empty.FormatReport() != "No conflicts detected." {
		t.Errorf("FormatReport() = %q", empty.FormatReport())
	}

	result := New().ValidateLedger(models.StreakRecord{Count: 2, Max: 1}, nil, models.Settings{Timezone: "Local"}, today)
	report := result.FormatReport()
	if !strings.HasPrefix(report, "Conflicts detected:") || !strings.Contains(report, "below the current streak") {
		t.Errorf("FormatReport() = %q", report)
	}
}
