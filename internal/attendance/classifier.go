package attendance

import (
	"fmt"
	"time"

	"github.com/username/attendance-overtime/pkg/dateutil"
)

// OutcomeKind tags the result of classifying one day
type OutcomeKind int

const (
	// OutcomeInProgress is a day still open (or today's incomplete record); it contributes nothing
	OutcomeInProgress OutcomeKind = iota + 1
	// OutcomeMissing is a past day with an abnormal or incomplete punch record
	OutcomeMissing
	// OutcomeNormal is a complete day with computed overtime and lateness
	OutcomeNormal
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeInProgress:
		return "in-progress"
	case OutcomeMissing:
		return "missing"
	case OutcomeNormal:
		return "normal"
	default:
		return "unknown"
	}
}

// DayOutcome is the classification of one PunchRecord.
// OvertimeMinutes and Late are only set for OutcomeNormal.
type DayOutcome struct {
	Kind            OutcomeKind
	Date            time.Time
	OvertimeMinutes int
	Late            bool
}

// Missing reports whether the day must be listed as a missing punch
func (o DayOutcome) Missing() bool {
	return o.Kind == OutcomeMissing
}

// Classifier applies the per-day rules to punch records
type Classifier struct {
	rules  Rules
	labels Labels
	clock  dateutil.Clock
}

// NewClassifier creates a Classifier
func NewClassifier(rules Rules, labels Labels, clock dateutil.Clock) *Classifier {
	return &Classifier{
		rules:  rules,
		labels: labels,
		clock:  clock,
	}
}

// Classify evaluates one record. The first matching rule wins:
// open day, abnormal status or punch count, absent punch, then normal computation.
func (c *Classifier) Classify(rec PunchRecord, isWorkday bool) (DayOutcome, error) {
	if rec.InProgress() {
		return DayOutcome{Kind: OutcomeInProgress, Date: rec.Date}, nil
	}

	if !c.labels.IsNormal(rec.Status) || (rec.PunchCount != "" && !c.labels.IsTwoPunches(rec.PunchCount)) {
		return c.missing(rec), nil
	}

	if !c.validPunches(rec) {
		return c.missing(rec), nil
	}

	overtime, err := c.CalculateOvertime(rec.FirstPunch, rec.LastPunch, isWorkday)
	if err != nil {
		return DayOutcome{}, fmt.Errorf("overtime for %s: %w", dateutil.Key(rec.Date), err)
	}

	return DayOutcome{
		Kind:            OutcomeNormal,
		Date:            rec.Date,
		OvertimeMinutes: overtime,
		Late:            isWorkday && c.IsLate(rec.FirstPunch),
	}, nil
}

// missing flags the date unless it is today, which is still in progress
func (c *Classifier) missing(rec PunchRecord) DayOutcome {
	if dateutil.IsSameDay(rec.Date, c.clock.Now()) {
		return DayOutcome{Kind: OutcomeInProgress, Date: rec.Date}
	}
	return DayOutcome{Kind: OutcomeMissing, Date: rec.Date}
}

func (c *Classifier) validPunches(rec PunchRecord) bool {
	if _, ok := dateutil.ParseClockTime(rec.FirstPunch); !ok {
		return false
	}
	if dateutil.HasNextDayMarker(rec.LastPunch, c.rules.NextDayMarker) {
		_, err := dateutil.ParseNextDayOffset(rec.LastPunch, c.rules.NextDayMarker)
		return err == nil
	}
	_, ok := dateutil.ParseClockTime(rec.LastPunch)
	return ok
}

// IsLate reports an arrival strictly after work start and at or before the late threshold.
// Later arrivals are not counted here.
func (c *Classifier) IsLate(clockIn string) bool {
	t, ok := dateutil.ParseClockTime(clockIn)
	if !ok {
		return false
	}
	return t.After(c.rules.WorkStart) && !t.After(c.rules.LateThreshold)
}

// CalculateOvertime returns signed overtime minutes for one workday.
// Non-workdays never accrue overtime.
func (c *Classifier) CalculateOvertime(start, end string, isWorkday bool) (int, error) {
	if !isWorkday {
		return 0, nil
	}

	if dateutil.HasNextDayMarker(end, c.rules.NextDayMarker) {
		afterMidnight, err := dateutil.ParseNextDayOffset(end, c.rules.NextDayMarker)
		if err != nil {
			return 0, err
		}
		// +1 bridges 23:59 to 00:00
		beforeMidnight, err := dateutil.MinutesBetween(start, "23:59")
		if err != nil {
			return 0, err
		}
		return afterMidnight + 1 + beforeMidnight - c.rules.ExtendedMinutes, nil
	}

	clockOut, ok := dateutil.ParseClockTime(end)
	if !ok {
		return 0, fmt.Errorf("invalid clock-out %q", end)
	}

	if !clockOut.After(c.rules.DinnerGraceEnd) {
		worked, err := dateutil.MinutesBetween(start, c.rules.WorkEnd.String())
		if err != nil {
			return 0, err
		}
		return worked - c.rules.StandardMinutes, nil
	}

	worked, err := dateutil.MinutesBetween(start, end)
	if err != nil {
		return 0, err
	}
	return worked - c.rules.ExtendedMinutes, nil
}
