package dateutil

import (
	"fmt"
	"strings"
	"time"
)

const clockLayout = "15:04"

// NextDayMarker prefixes clock-outs recorded after local midnight, e.g. "次日00:30"
const NextDayMarker = "次日"

// ClockTime is a wall-clock time of day with minute precision
type ClockTime struct {
	Hour   int
	Minute int
}

// Minutes returns minutes since midnight
func (c ClockTime) Minutes() int {
	return c.Hour*60 + c.Minute
}

// After reports whether c is strictly later than other
func (c ClockTime) After(other ClockTime) bool {
	return c.Minutes() > other.Minutes()
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// ParseClockTime parses "HH:MM". ok is false for malformed input.
func ParseClockTime(s string) (ClockTime, bool) {
	t, err := time.Parse(clockLayout, strings.TrimSpace(s))
	if err != nil {
		return ClockTime{}, false
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, true
}

// MustClockTime parses "HH:MM" and panics on malformed input.
// Only for package-level constants.
func MustClockTime(s string) ClockTime {
	c, ok := ParseClockTime(s)
	if !ok {
		panic(fmt.Sprintf("invalid clock time %q", s))
	}
	return c
}

// HasNextDayMarker reports whether s carries the marker
func HasNextDayMarker(s, marker string) bool {
	return marker != "" && strings.Contains(s, marker)
}

// ParseNextDayOffset strips the marker and returns the remaining "HH:MM" as minutes since midnight
func ParseNextDayOffset(s, marker string) (int, error) {
	stripped := strings.ReplaceAll(s, marker, "")
	c, ok := ParseClockTime(stripped)
	if !ok {
		return 0, fmt.Errorf("invalid next-day time %q", s)
	}
	return c.Minutes(), nil
}

// MinutesBetween returns end - start in minutes, both parsed as same-day "HH:MM".
// Cross-midnight values must go through ParseNextDayOffset first.
func MinutesBetween(start, end string) (int, error) {
	s, ok := ParseClockTime(start)
	if !ok {
		return 0, fmt.Errorf("invalid start time %q", start)
	}
	e, ok := ParseClockTime(end)
	if !ok {
		return 0, fmt.Errorf("invalid end time %q", end)
	}
	return e.Minutes() - s.Minutes(), nil
}
