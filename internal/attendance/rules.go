package attendance

import (
	"fmt"

	"github.com/username/attendance-overtime/pkg/dateutil"
)

// Rules holds the working-time thresholds used for lateness and overtime
type Rules struct {
	WorkStart      dateutil.ClockTime // arrivals after this are late...
	LateThreshold  dateutil.ClockTime // ...up to and including this
	WorkEnd        dateutil.ClockTime // clock-outs inside the dinner grace window are normalized to this
	DinnerGraceEnd dateutil.ClockTime
	// StandardMinutes is the baseline when leaving within the grace window
	StandardMinutes int
	// ExtendedMinutes is the baseline after the grace window or past midnight
	ExtendedMinutes int
	NextDayMarker   string
}

// DefaultRules returns the 08:30-18:00 schedule with a 18:00-18:30 dinner window
func DefaultRules() Rules {
	return Rules{
		WorkStart:       dateutil.MustClockTime("08:30"),
		LateThreshold:   dateutil.MustClockTime("09:30"),
		WorkEnd:         dateutil.MustClockTime("18:00"),
		DinnerGraceEnd:  dateutil.MustClockTime("18:30"),
		StandardMinutes: 570,
		ExtendedMinutes: 600,
		NextDayMarker:   dateutil.NextDayMarker,
	}
}

// Validate checks the rules are internally consistent
func (r Rules) Validate() error {
	if r.LateThreshold.Minutes() < r.WorkStart.Minutes() {
		return fmt.Errorf("late threshold %s is before work start %s", r.LateThreshold, r.WorkStart)
	}
	if r.DinnerGraceEnd.Minutes() < r.WorkEnd.Minutes() {
		return fmt.Errorf("dinner grace end %s is before work end %s", r.DinnerGraceEnd, r.WorkEnd)
	}
	if r.StandardMinutes <= 0 || r.ExtendedMinutes <= 0 {
		return fmt.Errorf("baseline minutes must be positive")
	}
	if r.NextDayMarker == "" {
		return fmt.Errorf("next day marker must not be empty")
	}
	return nil
}

// Labels are the exact source strings that mark a complete day
type Labels struct {
	TwoPunches   []string
	NormalStatus []string
}

// DefaultLabels returns the labels used by the punch-clock export
func DefaultLabels() Labels {
	return Labels{
		TwoPunches:   []string{"2次", "两次"},
		NormalStatus: []string{"正常"},
	}
}

func (l Labels) IsTwoPunches(label string) bool {
	return contains(l.TwoPunches, label)
}

func (l Labels) IsNormal(status string) bool {
	return contains(l.NormalStatus, status)
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
