// Package dateutil provides day-key parsing and formatting utilities.
package dateutil

import (
	"errors"
	"strings"
	"time"
)

// DayLayout is the layout of a day key (YYYY-MM-DD).
const DayLayout = "2006-01-02"

// Validation errors.
var (
	ErrInvalidDateFormat = errors.New("date must be in YYYY-MM-DD format")
)

// weekdayMap maps weekday names to time.Weekday values.
var weekdayMap = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Key formats t as a day key in t's location.
func Key(t time.Time) string {
	return t.Format(DayLayout)
}

// Today returns the day key for now in the local timezone.
func Today(now time.Time) string {
	return Key(now.In(time.Local))
}

// ParseDay parses a day key and returns local midnight of that day.
func ParseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DayLayout, s, time.Local)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return t, nil
}

// ValidateKey returns ErrInvalidDateFormat unless s is a well-formed day key.
func ValidateKey(s string) error {
	if len(s) != len(DayLayout) {
		return ErrInvalidDateFormat
	}
	_, err := ParseDay(s)
	return err
}

// AddDays shifts a day key by n calendar days.
func AddDays(key string, n int) (string, error) {
	t, err := ParseDay(key)
	if err != nil {
		return "", err
	}
	return Key(t.AddDate(0, 0, n)), nil
}

// TruncateToDay returns t with time set to midnight.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ParseRelativeDay resolves user input into a day key. Accepted forms:
//   - Empty string or "today": the day of relativeTo
//   - "tomorrow", "yesterday"
//   - Weekday names: "monday" through "sunday" (next occurrence, always future)
//   - Absolute date: "2025-01-15" (YYYY-MM-DD)
//
// All inputs are case-insensitive. Past dates are allowed so old days can be reviewed.
func ParseRelativeDay(s string, relativeTo time.Time) (string, error) {
	today := TruncateToDay(relativeTo)
	input := strings.ToLower(strings.TrimSpace(s))

	switch input {
	case "", "today":
		return Key(today), nil
	case "tomorrow":
		return Key(today.AddDate(0, 0, 1)), nil
	case "yesterday":
		return Key(today.AddDate(0, 0, -1)), nil
	}

	if target, ok := weekdayMap[input]; ok {
		return Key(nextWeekday(today, target)), nil
	}

	if err := ValidateKey(input); err != nil {
		return "", err
	}
	return input, nil
}

// nextWeekday returns the next occurrence of the given weekday after today.
// If today is the target weekday, returns one week from today.
func nextWeekday(today time.Time, target time.Weekday) time.Time {
	daysUntil := int(target) - int(today.Weekday())
	if daysUntil <= 0 {
		daysUntil += 7
	}
	return today.AddDate(0, 0, daysUntil)
}
