package attendance

import (
	"fmt"
	"sort"
	"time"

	"github.com/username/attendance-overtime/pkg/dateutil"
	"go.uber.org/zap"
)

// WorkdayOracle answers whether a date is a designated working day
type WorkdayOracle interface {
	IsWorkday(date time.Time) bool
}

// DayReport is the per-day breakdown of a Result
type DayReport struct {
	Date       time.Time
	IsWorkday  bool
	FirstPunch string
	LastPunch  string
	Valid      bool
	Outcome    DayOutcome
}

// Result is the aggregate over one punch-clock export
type Result struct {
	Name            string
	Month           string
	OvertimeMinutes int
	OvertimeHours   float64
	MissingDates    []time.Time // newest first
	LateCount       int
	StartDate       time.Time // first record, not calendar-derived
	EndDate         time.Time // last record
	ValidDays       int
	Days            []DayReport
}

// Analyzer aggregates punch records into a Result
type Analyzer struct {
	oracle     WorkdayOracle
	classifier *Classifier
	labels     Labels
	logger     *zap.Logger
}

// NewAnalyzer creates a new Analyzer
func NewAnalyzer(oracle WorkdayOracle, rules Rules, labels Labels, clock dateutil.Clock, logger *zap.Logger) *Analyzer {
	return &Analyzer{
		oracle:     oracle,
		classifier: NewClassifier(rules, labels, clock),
		labels:     labels,
		logger:     logger,
	}
}

// Classifier returns the per-day classifier used by the analyzer
func (a *Analyzer) Classifier() *Classifier {
	return a.classifier
}

// Analyze evaluates rows sorted by ascending date. It either returns a
// complete Result or an error wrapping ErrAnalysis; malformed rows are
// reported as *RowError.
func (a *Analyzer) Analyze(rows []RawRow, name, month string) (*Result, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrAnalysis, ErrNoRecords)
	}

	records := make([]PunchRecord, len(rows))
	for i, row := range rows {
		rec, err := ParseRecord(row)
		if err != nil {
			a.logger.Error("Invalid attendance row",
				zap.Int("row", i+1),
				zap.String("date", row.DateToken),
				zap.Error(err))
			return nil, &RowError{Row: i, SourceLine: row.SourceLine, DateToken: row.DateToken, Err: err}
		}
		records[i] = rec
	}

	result := &Result{
		Name:         name,
		Month:        month,
		MissingDates: []time.Time{},
		StartDate:    records[0].Date,
		EndDate:      records[len(records)-1].Date,
		Days:         make([]DayReport, 0, len(records)),
	}

	for i, rec := range records {
		isWorkday := a.oracle.IsWorkday(rec.Date)

		valid := a.labels.IsTwoPunches(rec.PunchCount) && (isWorkday || rec.HasDistinctPunches())
		if valid {
			result.ValidDays++
			a.logger.Debug("Valid punch day",
				zap.String("date", dateutil.Key(rec.Date)),
				zap.Bool("workday", isWorkday))
		}

		outcome, err := a.classifier.Classify(rec, isWorkday)
		if err != nil {
			a.logger.Error("Failed to classify attendance row",
				zap.Int("row", i+1),
				zap.String("date", rows[i].DateToken),
				zap.Error(err))
			return nil, &RowError{Row: i, SourceLine: rows[i].SourceLine, DateToken: rows[i].DateToken, Err: err}
		}

		if isWorkday {
			result.OvertimeMinutes += outcome.OvertimeMinutes
			if outcome.Late {
				result.LateCount++
			}
		}
		if outcome.Missing() {
			result.MissingDates = append(result.MissingDates, outcome.Date)
		}

		result.Days = append(result.Days, DayReport{
			Date:       rec.Date,
			IsWorkday:  isWorkday,
			FirstPunch: rec.FirstPunch,
			LastPunch:  rec.LastPunch,
			Valid:      valid,
			Outcome:    outcome,
		})
	}

	sort.Slice(result.MissingDates, func(i, j int) bool {
		return result.MissingDates[i].After(result.MissingDates[j])
	})
	result.OvertimeHours = float64(result.OvertimeMinutes) / 60

	a.logger.Info("Attendance analyzed",
		zap.String("name", name),
		zap.String("month", month),
		zap.Int("records", len(records)),
		zap.Int("overtime_minutes", result.OvertimeMinutes),
		zap.Int("late_count", result.LateCount),
		zap.Int("missing", len(result.MissingDates)),
		zap.Int("valid_days", result.ValidDays))

	return result, nil
}
