package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/potd/internal/constants"
)

// DateKey encodes the calendar day of t (in t's location) as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// PreviousKey returns the DateKey of the calendar day before key.
func PreviousKey(key string) (string, error) {
	return ShiftKey(key, -1)
}

// ShiftKey moves key by days calendar days. Noon is used as the anchor so
// DST transitions never skip or repeat a day.
func ShiftKey(key string, days int) (string, error) {
	t, err := time.Parse(constants.DateFormat, key)
	if err != nil {
		return "", fmt.Errorf("invalid date key %q: %w", key, err)
	}
	t = time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.UTC).AddDate(0, 0, days)
	return DateKey(t), nil
}

// ValidateDateKey reports whether key is a well-formed DateKey.
func ValidateDateKey(key string) bool {
	_, err := time.Parse(constants.DateFormat, key)
	return err == nil
}

// SeedFromKey returns the integer seed of a DateKey: its digits read as a
// decimal number, so "2025-03-01" seeds 20250301.
func SeedFromKey(key string) (int64, error) {
	if !ValidateDateKey(key) {
		return 0, fmt.Errorf("invalid date key %q", key)
	}
	return strconv.ParseInt(strings.ReplaceAll(key, "-", ""), 10, 64)
}

// DaysBetween returns the number of calendar days from a to b.
func DaysBetween(a, b string) (int, error) {
	ta, err := time.Parse(constants.DateFormat, a)
	if err != nil {
		return 0, fmt.Errorf("invalid date key %q: %w", a, err)
	}
	tb, err := time.Parse(constants.DateFormat, b)
	if err != nil {
		return 0, fmt.Errorf("invalid date key %q: %w", b, err)
	}
	return int(tb.Sub(ta).Hours() / 24), nil
}
