// Package dateutil parses the day and half-day expressions accepted on the
// command line.
package dateutil

import (
	"errors"
	"strings"
	"time"
)

// Validation errors.
var (
	ErrInvalidDateFormat = errors.New("date must be in YYYY-MM-DD format, a weekday or today/tomorrow/yesterday")
	ErrInvalidPeriod     = errors.New("period must be am or pm")
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
	"sun":       time.Sunday,
	"mon":       time.Monday,
	"tue":       time.Tuesday,
	"wed":       time.Wednesday,
	"thu":       time.Thursday,
	"fri":       time.Friday,
	"sat":       time.Saturday,
}

// HalfDay is a day and the half of it a slot covers.
type HalfDay struct {
	Date time.Time // Midnight of the day
	PM   bool
}

// ParseDate parses a date string in YYYY-MM-DD format.
// If the string is empty, returns today's date.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return TruncateToDay(time.Now()), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return t, nil
}

// TruncateToDay returns t with time set to midnight.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ParseRelativeDate parses a date string that can be:
//   - Empty string or "today": returns relativeTo date
//   - "tomorrow" or "yesterday"
//   - Absolute date: "2025-01-15" (YYYY-MM-DD), in relativeTo's location
//   - Weekday names, full or short: the day of relativeTo's ISO week
//   - "next-" followed by a weekday: that day one week later
//
// All inputs are case-insensitive.
func ParseRelativeDate(s string, relativeTo time.Time) (time.Time, error) {
	today := TruncateToDay(relativeTo)
	input := strings.ToLower(strings.TrimSpace(s))

	switch input {
	case "", "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}

	if name, ok := strings.CutPrefix(input, "next-"); ok {
		if target, ok := weekdayMap[name]; ok {
			return weekday(today, target).AddDate(0, 0, 7), nil
		}
		return time.Time{}, ErrInvalidDateFormat
	}
	if target, ok := weekdayMap[input]; ok {
		return weekday(today, target), nil
	}

	result, err := time.ParseInLocation("2006-01-02", input, relativeTo.Location())
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return result, nil
}

// ParseHalfDay parses "<date> [am|pm]", for example "wed pm",
// "2025-08-13 am" or "tomorrow". The period defaults to the morning.
func ParseHalfDay(s string, relativeTo time.Time) (HalfDay, error) {
	fields := strings.Fields(strings.ToLower(s))
	var period string
	if n := len(fields); n > 0 && (fields[n-1] == "am" || fields[n-1] == "pm") {
		period = fields[n-1]
		fields = fields[:n-1]
	}
	if len(fields) > 1 {
		return HalfDay{}, ErrInvalidPeriod
	}

	date, err := ParseRelativeDate(strings.Join(fields, ""), relativeTo)
	if err != nil {
		return HalfDay{}, err
	}
	return HalfDay{Date: date, PM: period == "pm"}, nil
}

// weekday returns the day of today's ISO week (Monday first) that falls on target.
func weekday(today time.Time, target time.Weekday) time.Time {
	offset := isoDay(target) - isoDay(today.Weekday())
	return today.AddDate(0, 0, offset)
}

func isoDay(d time.Weekday) int {
	if d == time.Sunday {
		return 7
	}
	return int(d)
}
