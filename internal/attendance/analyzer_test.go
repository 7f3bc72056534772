package attendance

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/attendance-overtime/pkg/dateutil"
	"go.uber.org/zap"
)

// stubOracle treats weekdays as workdays except the listed overrides
type stubOracle struct {
	overrides map[string]bool
}

func (s stubOracle) IsWorkday(date time.Time) bool {
	if v, ok := s.overrides[dateutil.Key(date)]; ok {
		return v
	}
	return dateutil.IsWeekday(date)
}

func newTestAnalyzer(overrides map[string]bool) *Analyzer {
	return NewAnalyzer(stubOracle{overrides: overrides}, DefaultRules(), DefaultLabels(), clock, zap.NewNop())
}

func rawRow(date, in, out, count, status string) RawRow {
	return RawRow{DateToken: date, FirstPunch: in, LastPunch: out, PunchCount: count, Status: status}
}

func marchRows() []RawRow {
	return []RawRow{
		rawRow("2024/3/1 星期五", "08:20", "20:00", "2次", "正常"),   // +100
		rawRow("2024/3/2 星期六", "09:00", "13:00", "2次", "正常"),   // weekend work, valid
		rawRow("2024/3/3 星期日", "", "", "", "休息"),               // rest day, abnormal status
		rawRow("2024/3/4 星期一", "08:40", "18:00", "两次", "正常"),   // -10, late
		rawRow("2024/3/5 星期二", "08:40", "次日00:30", "2次", "正常"), // +350, late
		rawRow("2024/3/6 星期三", "08:31", "", "1次", "缺卡"),        // missing
		rawRow("2024/3/7 星期四", "08:00", "18:20", "2次", "正常"),   // +30
		rawRow("2024/3/8 星期五", "08:10", "18:30", "2次", "正常"),   // holiday override: no overtime
		rawRow("2024/3/9 星期六", "09:00", "09:00", "2次", "正常"),   // weekend, identical punches
		rawRow("2024/3/10 星期日", "08:30", "19:00", "2次", "正常"),  // compensatory workday: +30
	}
}

func TestAnalyzer_Analyze(t *testing.T) {
	analyzer := newTestAnalyzer(map[string]bool{
		"2024-03-08": false,
		"2024-03-10": true,
	})

	result, err := analyzer.Analyze(marchRows(), "张三", "03")
	require.NoError(t, err)

	assert.Equal(t, "张三", result.Name)
	assert.Equal(t, "03", result.Month)
	assert.Equal(t, 100-10+350+30+30, result.OvertimeMinutes)
	assert.InDelta(t, float64(500)/60, result.OvertimeHours, 1e-9)
	assert.Equal(t, 2, result.LateCount)

	require.Len(t, result.MissingDates, 2)
	assert.Equal(t, "2024-03-06", dateutil.Key(result.MissingDates[0]))
	assert.Equal(t, "2024-03-03", dateutil.Key(result.MissingDates[1]))

	assert.Equal(t, "2024-03-01", dateutil.Key(result.StartDate))
	assert.Equal(t, "2024-03-10", dateutil.Key(result.EndDate))

	// 1, 2, 4, 5, 7, 8 (holiday with distinct punches), 10; not 9 (identical punches on a rest day)
	assert.Equal(t, 7, result.ValidDays)
	assert.Len(t, result.Days, 10)
	assert.False(t, result.Days[8].Valid)
}

func TestAnalyzer_Analyze_Idempotent(t *testing.T) {
	analyzer := newTestAnalyzer(nil)
	rows := marchRows()

	first, err := analyzer.Analyze(rows, "张三", "03")
	require.NoError(t, err)
	second, err := analyzer.Analyze(rows, "张三", "03")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAnalyzer_Analyze_MissingExcludesToday(t *testing.T) {
	analyzer := newTestAnalyzer(nil)
	rows := []RawRow{
		rawRow("2024/3/19", "08:25", "18:00", "2次", "正常"),
		rawRow("2024/3/20", "08:25", "", "1次", "缺卡"), // today per the test clock
	}

	result, err := analyzer.Analyze(rows, "", "")
	require.NoError(t, err)
	assert.Empty(t, result.MissingDates)
}

func TestAnalyzer_Analyze_NoRows(t *testing.T) {
	analyzer := newTestAnalyzer(nil)

	_, err := analyzer.Analyze(nil, "张三", "03")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAnalysis)
	assert.ErrorIs(t, err, ErrNoRecords)
}

func TestAnalyzer_Analyze_MalformedDate(t *testing.T) {
	analyzer := newTestAnalyzer(nil)
	rows := marchRows()
	rows[4].DateToken = "合计"

	result, err := analyzer.Analyze(rows, "张三", "03")
	require.Error(t, err)
	assert.Nil(t, result, "no partial result on failure")
	assert.ErrorIs(t, err, ErrAnalysis)
	assert.ErrorIs(t, err, ErrMalformedDate)

	var rowErr *RowError
	require.True(t, errors.As(err, &rowErr))
	assert.Equal(t, 4, rowErr.Row)
	assert.Equal(t, "合计", rowErr.DateToken)
	assert.Contains(t, err.Error(), "row 5")
}

func TestAnalyzer_Analyze_DatelessRowReportsSheetLine(t *testing.T) {
	analyzer := newTestAnalyzer(nil)
	rows := marchRows()
	rows[2] = RawRow{FirstPunch: "08:40", LastPunch: "21:00", PunchCount: "2次", Status: "正常", SourceLine: 12}

	result, err := analyzer.Analyze(rows, "张三", "03")
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrMalformedDate)

	var rowErr *RowError
	require.True(t, errors.As(err, &rowErr))
	assert.Equal(t, 2, rowErr.Row)
	assert.Equal(t, 12, rowErr.SourceLine)
	assert.Contains(t, err.Error(), "sheet line 12")
}
