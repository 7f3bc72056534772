package attendance

import (
	"fmt"
	"strings"
	"time"

	"github.com/username/attendance-overtime/pkg/dateutil"
)

// RawRow is one punch-clock row as delivered by the data source.
// Empty strings stand for absent cells.
type RawRow struct {
	DateToken  string // "YYYY/M/D", optionally followed by other text
	FirstPunch string
	LastPunch  string
	PunchCount string
	Status     string
	SourceLine int // 1-based line in the source sheet, 0 when unknown
}

// PunchRecord is a parsed punch-clock row
type PunchRecord struct {
	Date       time.Time
	FirstPunch string
	LastPunch  string
	PunchCount string
	Status     string
}

// ParseRecord validates the date token of the row
func ParseRecord(row RawRow) (PunchRecord, error) {
	date, err := dateutil.ParseRecordDate(row.DateToken)
	if err != nil {
		return PunchRecord{}, fmt.Errorf("%w: %v", ErrMalformedDate, err)
	}

	return PunchRecord{
		Date:       date,
		FirstPunch: strings.TrimSpace(row.FirstPunch),
		LastPunch:  strings.TrimSpace(row.LastPunch),
		PunchCount: strings.TrimSpace(row.PunchCount),
		Status:     strings.TrimSpace(row.Status),
	}, nil
}

// InProgress reports a record whose clock-out equals its clock-in,
// i.e. a day that has not been closed yet
func (r PunchRecord) InProgress() bool {
	return r.FirstPunch != "" && r.FirstPunch == r.LastPunch
}

// HasDistinctPunches reports genuine attendance: both punches present and different
func (r PunchRecord) HasDistinctPunches() bool {
	return r.FirstPunch != "" && r.LastPunch != "" && r.FirstPunch != r.LastPunch
}
