package utils

import (
	"fmt"
	"time"
)

// TodayIn returns the DateKey of now in loc. A nil loc means the system zone.
func TodayIn(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return DateKey(now.In(loc))
}

// TodayInTimezone returns the DateKey of now in the named timezone, so that
// "today" follows the configured zone rather than the machine's.
func TodayInTimezone(now time.Time, timezone string) (string, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return "", fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return TodayIn(now, loc), nil
}

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	if timezone == "" || timezone == "Local" {
		return true
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}
