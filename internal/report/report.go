package report

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/username/attendance-overtime/internal/attendance"
	"github.com/username/attendance-overtime/pkg/dateutil"
)

// redeemableThresholds maps remaining overtime hours to days off, highest first
var redeemableThresholds = []struct {
	hours float64
	days  int
}{
	{45, 4},
	{35, 3},
	{28, 2},
	{22, 1},
}

// TruncateHours cuts hours to two decimals without rounding
func TruncateHours(hours float64) float64 {
	return math.Trunc(hours*100) / 100
}

// RedeemableDays converts remaining overtime hours into days that can be taken off
func RedeemableDays(hours float64) int {
	for _, t := range redeemableThresholds {
		if hours >= t.hours {
			return t.days
		}
	}
	return 0
}

// Render writes a human-readable summary of the result
func Render(w io.Writer, result *attendance.Result, detailed bool) error {
	var b strings.Builder

	fmt.Fprintf(&b, "\n📊 Attendance report\n")
	b.WriteString("═══════════════════════════════════════════════════════\n")
	fmt.Fprintf(&b, "  姓名 / Name:        %s\n", result.Name)
	fmt.Fprintf(&b, "  月份 / Month:       %s\n", result.Month)
	fmt.Fprintf(&b, "  加班时长 / Overtime: %.2fh (%d minutes)\n", TruncateHours(result.OvertimeHours), result.OvertimeMinutes)
	fmt.Fprintf(&b, "  可调休 / Redeemable: %d days\n", RedeemableDays(result.OvertimeHours))
	fmt.Fprintf(&b, "  有效打卡 / Valid:    %d days\n", result.ValidDays)
	fmt.Fprintf(&b, "  迟到 / Late:        %d\n", result.LateCount)
	fmt.Fprintf(&b, "  统计期间 / Period:   %s .. %s\n",
		result.StartDate.Format(dateutil.DateLayout),
		result.EndDate.Format(dateutil.DateLayout))

	if len(result.MissingDates) > 0 {
		fmt.Fprintf(&b, "  缺卡 / Missing:     %s\n", joinDates(result.MissingDates))
	} else {
		b.WriteString("  缺卡 / Missing:     none\n")
	}

	if detailed && len(result.Days) > 0 {
		b.WriteString("\n📅 Per-day breakdown:\n")
		b.WriteString("═══════════════════════════════════════════════════════\n")
		b.WriteString("  Date       | Workday | In    | Out       | Overtime | Status\n")
		b.WriteString("------------+---------+-------+-----------+----------+------------\n")
		for _, day := range result.Days {
			fmt.Fprintf(&b, "  %s | %-7s | %-5s | %-9s | %+8d | %s\n",
				day.Date.Format(dateutil.DateLayout),
				yesNo(day.IsWorkday),
				day.FirstPunch,
				day.LastPunch,
				day.Outcome.OvertimeMinutes,
				statusLabel(day))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func joinDates(dates []time.Time) string {
	parts := make([]string, len(dates))
	for i, d := range dates {
		parts[i] = d.Format(dateutil.DateLayout)
	}
	return strings.Join(parts, ", ")
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func statusLabel(day attendance.DayReport) string {
	label := day.Outcome.Kind.String()
	if day.Outcome.Late {
		label += ", late"
	}
	if day.Valid {
		label += ", valid"
	}
	return label
}
