package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/attendance-overtime/pkg/dateutil"
)

var (
	monday   = time.Date(2024, 3, 4, 0, 0, 0, 0, time.Local)
	saturday = time.Date(2024, 3, 9, 0, 0, 0, 0, time.Local)
	clock    = dateutil.FixedClock{FixedNow: time.Date(2024, 3, 20, 12, 0, 0, 0, time.Local)}
)

func newTestClassifier() *Classifier {
	return NewClassifier(DefaultRules(), DefaultLabels(), clock)
}

func record(date time.Time, in, out, count, status string) PunchRecord {
	return PunchRecord{Date: date, FirstPunch: in, LastPunch: out, PunchCount: count, Status: status}
}

func TestClassifier_Classify(t *testing.T) {
	tests := []struct {
		name         string
		rec          PunchRecord
		isWorkday    bool
		wantKind     OutcomeKind
		wantOvertime int
		wantLate     bool
	}{
		{
			name:         "Late arrival, leaves at 18:00",
			rec:          record(monday, "08:40", "18:00", "两次", "正常"),
			isWorkday:    true,
			wantKind:     OutcomeNormal,
			wantOvertime: -10,
			wantLate:     true,
		},
		{
			name:         "Leaves after midnight",
			rec:          record(monday, "08:40", "次日00:30", "两次", "正常"),
			isWorkday:    true,
			wantKind:     OutcomeNormal,
			wantOvertime: 350,
			wantLate:     true,
		},
		{
			name:      "Single punch",
			rec:       record(monday, "08:40", "", "一次", "正常"),
			isWorkday: true,
			wantKind:  OutcomeMissing,
		},
		{
			name:      "Weekend work accrues no overtime",
			rec:       record(saturday, "09:00", "13:00", "两次", "正常"),
			isWorkday: false,
			wantKind:  OutcomeNormal,
		},
		{
			name:      "Open day",
			rec:       record(monday, "08:30", "08:30", "两次", "正常"),
			isWorkday: true,
			wantKind:  OutcomeInProgress,
		},
		{
			name:      "Abnormal status",
			rec:       record(monday, "08:20", "19:00", "2次", "缺卡"),
			isWorkday: true,
			wantKind:  OutcomeMissing,
		},
		{
			name:         "Punch count absent is accepted",
			rec:          record(monday, "08:00", "20:00", "", "正常"),
			isWorkday:    true,
			wantKind:     OutcomeNormal,
			wantOvertime: 120,
		},
		{
			name:      "Unparseable clock-out",
			rec:       record(monday, "08:00", "--", "2次", "正常"),
			isWorkday: true,
			wantKind:  OutcomeMissing,
		},
		{
			name:      "Both punches absent",
			rec:       record(monday, "", "", "", "正常"),
			isWorkday: true,
			wantKind:  OutcomeMissing,
		},
		{
			name:      "Late arrival on a non-workday is not late",
			rec:       record(saturday, "09:00", "18:00", "2次", "正常"),
			isWorkday: false,
			wantKind:  OutcomeNormal,
		},
	}

	c := newTestClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Classify(tt.rec, tt.isWorkday)
			require.NoError(t, err)

			assert.Equal(t, tt.wantKind, got.Kind)
			assert.Equal(t, tt.wantOvertime, got.OvertimeMinutes)
			assert.Equal(t, tt.wantLate, got.Late)
			assert.Equal(t, tt.wantKind == OutcomeMissing, got.Missing())
		})
	}
}

func TestClassifier_Classify_TodayIsNeverMissing(t *testing.T) {
	today := dateutil.Today(clock)
	c := newTestClassifier()

	got, err := c.Classify(record(today, "08:25", "", "1次", "缺卡"), true)
	require.NoError(t, err)
	assert.Equal(t, OutcomeInProgress, got.Kind)
	assert.False(t, got.Missing())

	got, err = c.Classify(record(today, "08:25", "", "", "正常"), true)
	require.NoError(t, err)
	assert.False(t, got.Missing())
}

func TestClassifier_IsLate(t *testing.T) {
	tests := []struct {
		clockIn string
		want    bool
	}{
		{"08:00", false},
		{"08:30", false},
		{"08:31", true},
		{"09:30", true},
		{"09:31", false},
		{"13:00", false},
		{"", false},
	}

	c := newTestClassifier()
	for _, tt := range tests {
		t.Run(tt.clockIn, func(t *testing.T) {
			assert.Equal(t, tt.want, c.IsLate(tt.clockIn))
		})
	}
}

func TestClassifier_CalculateOvertime(t *testing.T) {
	tests := []struct {
		name      string
		start     string
		end       string
		isWorkday bool
		want      int
	}{
		{"Non-workday", "08:00", "22:00", false, 0},
		{"Leaves early", "08:30", "17:00", true, 0},
		{"Leaves at 18:00", "08:30", "18:00", true, 0},
		{"Dinner window inclusive at 18:30", "08:30", "18:30", true, 0},
		{"One minute past dinner window", "08:30", "18:31", true, 1},
		{"Evening", "08:30", "20:30", true, 120},
		{"Early bird", "07:30", "18:10", true, 60},
		{"Midnight exactly", "08:30", "次日00:00", true, 330},
		{"Next day", "08:40", "次日00:30", true, 350},
	}

	c := newTestClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.CalculateOvertime(tt.start, tt.end, tt.isWorkday)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifier_CalculateOvertime_MonotonicWithinBranch(t *testing.T) {
	c := newTestClassifier()
	branches := [][]string{
		{"16:00", "17:30", "18:00", "18:15", "18:30"},
		{"18:31", "19:00", "21:45", "23:59"},
		{"次日00:00", "次日00:45", "次日03:10"},
	}

	for _, outs := range branches {
		prev := -1 << 31
		for _, out := range outs {
			got, err := c.CalculateOvertime("08:45", out, true)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, got, prev, "clock-out %s", out)
			prev = got
		}
	}
}

func TestClassifier_CalculateOvertime_Malformed(t *testing.T) {
	c := newTestClassifier()

	_, err := c.CalculateOvertime("xx", "19:00", true)
	assert.Error(t, err)

	_, err = c.CalculateOvertime("08:30", "次日??", true)
	assert.Error(t, err)
}
