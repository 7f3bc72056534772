package report

import (
	"fmt"

	"github.com/username/attendance-overtime/internal/attendance"
	"github.com/username/attendance-overtime/pkg/dateutil"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "汇总"
	daysSheet    = "明细"
)

// WriteXLSX exports the result as a workbook with a summary and a per-day sheet
func WriteXLSX(path string, result *attendance.Result) error {
	f, err := buildWorkbook(result)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

func buildWorkbook(result *attendance.Result) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name summary sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	summary := [][]interface{}{
		{"项目", "值"},
		{"姓名", result.Name},
		{"月份", result.Month},
		{"加班时长(小时)", TruncateHours(result.OvertimeHours)},
		{"加班时长(分钟)", result.OvertimeMinutes},
		{"有效打卡天数", result.ValidDays},
		{"迟到次数", result.LateCount},
		{"开始日期", result.StartDate.Format(dateutil.DateLayout)},
		{"结束日期", result.EndDate.Format(dateutil.DateLayout)},
		{"缺卡日期", joinDates(result.MissingDates)},
		{"可调休天数", RedeemableDays(result.OvertimeHours)},
	}
	if err := writeRows(f, summarySheet, summary); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetCellStyle(summarySheet, "A1", "B1", headerStyle); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to style summary header: %w", err)
	}
	_ = f.SetColWidth(summarySheet, "A", "A", 18)
	_ = f.SetColWidth(summarySheet, "B", "B", 40)

	if _, err := f.NewSheet(daysSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create day sheet: %w", err)
	}
	days := [][]interface{}{
		{"日期", "工作日", "上班", "下班", "加班(分钟)", "迟到", "状态", "有效"},
	}
	for _, day := range result.Days {
		days = append(days, []interface{}{
			day.Date.Format(dateutil.DateLayout),
			yesNo(day.IsWorkday),
			day.FirstPunch,
			day.LastPunch,
			day.Outcome.OvertimeMinutes,
			yesNo(day.Outcome.Late),
			day.Outcome.Kind.String(),
			yesNo(day.Valid),
		})
	}
	if err := writeRows(f, daysSheet, days); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetCellStyle(daysSheet, "A1", "H1", headerStyle); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to style day header: %w", err)
	}
	_ = f.SetColWidth(daysSheet, "A", "H", 12)

	return f, nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cellRef, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
