package dateutil

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO layout used as the calendar key
const DateLayout = "2006-01-02"

// recordDateLayout matches the leading token of a punch-clock date cell, e.g. "2024/3/4"
const recordDateLayout = "2006/1/2"

// StartOfDay returns the start of the day (00:00:00) for the given date
func StartOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

// IsWeekday returns true if the date is Monday-Friday
func IsWeekday(date time.Time) bool {
	weekday := date.Weekday()
	return weekday >= time.Monday && weekday <= time.Friday
}

// IsWeekend returns true if the date is Saturday or Sunday
func IsWeekend(date time.Time) bool {
	weekday := date.Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

// IsSameDay returns true if two dates are on the same day
func IsSameDay(date1, date2 time.Time) bool {
	return date1.Year() == date2.Year() &&
		date1.Month() == date2.Month() &&
		date1.Day() == date2.Day()
}

// Key formats the date as the ISO calendar key
func Key(date time.Time) string {
	return date.Format(DateLayout)
}

// ParseRecordDate parses the leading "YYYY/M/D" token of a date cell.
// Anything after the first whitespace (weekday names etc.) is ignored.
func ParseRecordDate(token string) (time.Time, error) {
	fields := strings.Fields(token)
	if len(fields) == 0 {
		return time.Time{}, fmt.Errorf("empty date token")
	}

	date, err := time.ParseInLocation(recordDateLayout, fields[0], time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date token %q: %w", token, err)
	}
	return date, nil
}

// Clock supplies the current time
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same instant
type FixedClock struct {
	FixedNow time.Time
}

func (c FixedClock) Now() time.Time {
	return c.FixedNow
}

// Today returns the clock's current date (start of day)
func Today(clock Clock) time.Time {
	return StartOfDay(clock.Now())
}
