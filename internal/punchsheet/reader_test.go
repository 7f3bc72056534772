package punchsheet

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// exportRow builds a 15-column row of the punch-clock export
func exportRow(date, name, in, out, count, status string) []interface{} {
	row := make([]interface{}, 15)
	for i := range row {
		row[i] = ""
	}
	row[0] = date
	row[1] = name
	row[8] = in
	row[9] = out
	row[10] = count
	row[14] = status
	return row
}

func buildWorkbook(t *testing.T, rows [][]interface{}) *excelize.File {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	header := [][]interface{}{
		{"每日统计表"},
		{"统计时间: 2024-03-01 至 2024-03-05"},
		{"日期", "姓名"},
		{"", "", "", "", "", "", "", "", "上班", "下班", "打卡次数", "", "", "", "考勤结果"},
	}
	for i, row := range append(header, rows...) {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellRef, &row))
	}
	return f
}

func TestReader_Read(t *testing.T) {
	f := buildWorkbook(t, [][]interface{}{
		exportRow("2024/03/05 星期二", "张三", "08:40", "次日00:30", "2次", "正常"),
		exportRow("2024/03/04 星期一", "张三", "08:40", "18:00", "2次", "正常"),
		{"2024/03/03 星期日", "张三"},
		exportRow("", "", "", "", "", ""),
	})
	defer f.Close()

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	reader := NewReader(DefaultLayout(), zap.NewNop())
	sheet, err := reader.Read(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	assert.Equal(t, "张三", sheet.Name)
	assert.Equal(t, "03", sheet.Month)
	require.Len(t, sheet.Rows, 3)

	// ascending order after reversal
	assert.Equal(t, "2024/03/03 星期日", sheet.Rows[0].DateToken)
	assert.Empty(t, sheet.Rows[0].FirstPunch, "short rows are padded")
	assert.Empty(t, sheet.Rows[0].Status)

	assert.Equal(t, "2024/03/04 星期一", sheet.Rows[1].DateToken)
	assert.Equal(t, "08:40", sheet.Rows[1].FirstPunch)
	assert.Equal(t, "18:00", sheet.Rows[1].LastPunch)
	assert.Equal(t, "2次", sheet.Rows[1].PunchCount)
	assert.Equal(t, "正常", sheet.Rows[1].Status)

	assert.Equal(t, "次日00:30", sheet.Rows[2].LastPunch)
}

func TestReader_Read_KeepsDatelessRowWithPunches(t *testing.T) {
	f := buildWorkbook(t, [][]interface{}{
		exportRow("2024/03/05 星期二", "张三", "08:40", "18:00", "2次", "正常"),
		exportRow("", "", "08:40", "21:00", "2次", "正常"),
		exportRow("2024/03/03 星期日", "张三", "", "", "", ""),
		exportRow("", "", "", "", "", ""),
	})
	defer f.Close()

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	sheet, err := NewReader(DefaultLayout(), zap.NewNop()).Read(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, sheet.Rows, 3, "only the fully blank row is dropped")

	dateless := sheet.Rows[1]
	assert.Empty(t, dateless.DateToken)
	assert.Equal(t, "21:00", dateless.LastPunch)
	assert.Equal(t, 6, dateless.SourceLine)

	assert.Equal(t, 7, sheet.Rows[0].SourceLine)
	assert.Equal(t, 5, sheet.Rows[2].SourceLine)
}

func TestReader_ReadFile_HeaderOnly(t *testing.T) {
	f := buildWorkbook(t, nil)
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	sheet, err := NewReader(DefaultLayout(), zap.NewNop()).ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, sheet.Rows)
}

func TestReader_ReadFile_Missing(t *testing.T) {
	_, err := NewReader(DefaultLayout(), zap.NewNop()).ReadFile(filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.Error(t, err)
}
