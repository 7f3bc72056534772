package calendar

import (
	"errors"
	"time"
)

// DayType represents the type of day
type DayType int

const (
	DayTypeWorkday DayType = iota + 1
	DayTypeWeekend
	DayTypeHoliday
	DayTypeCompensatory
)

func (t DayType) String() string {
	switch t {
	case DayTypeWorkday:
		return "workday"
	case DayTypeWeekend:
		return "weekend"
	case DayTypeHoliday:
		return "holiday"
	case DayTypeCompensatory:
		return "compensatory-workday"
	default:
		return "unknown"
	}
}

// CalendarDay represents the classification of a specific date
type CalendarDay struct {
	Date time.Time
	Type DayType
	Note string
}

// IsWorkday reports whether overtime and lateness accrue on the day
func (d CalendarDay) IsWorkday() bool {
	return d.Type == DayTypeWorkday || d.Type == DayTypeCompensatory
}

// Designation kinds as persisted in the store
const (
	KindHoliday = "holiday"
	KindWorkday = "workday"
)

// Designation is one stored calendar override: a holiday or a make-up workday
type Designation struct {
	Date time.Time
	Kind string
	Name string
	Year int
}

// HolidayInfo is a single entry of the upstream yearly payload
type HolidayInfo struct {
	Holiday bool   `json:"holiday"`
	Name    string `json:"name"`
	Date    string `json:"date,omitempty"`
}

// YearDesignations maps a date token ("MM-DD" or "YYYY-MM-DD") to its info
type YearDesignations map[string]HolidayInfo

var (
	// ErrRefresh wraps every failure reported by Oracle.Refresh
	ErrRefresh = errors.New("calendar refresh failed")

	// ErrSourceUnavailable is returned when the upstream calendar cannot be reached
	ErrSourceUnavailable = errors.New("calendar source unavailable")

	// ErrMalformedPayload is returned when the upstream calendar answers with unexpected data
	ErrMalformedPayload = errors.New("malformed calendar payload")
)
