package punchsheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/username/attendance-overtime/internal/attendance"
	"github.com/username/attendance-overtime/pkg/dateutil"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Layout describes where the punch-clock export keeps its data.
// Column indices are zero-based.
type Layout struct {
	HeaderRows    int
	NameColumn    int
	DateColumn    int
	FirstPunchCol int
	LastPunchCol  int
	PunchCountCol int
	StatusColumn  int
}

// DefaultLayout matches the monthly personal report of the punch clock
func DefaultLayout() Layout {
	return Layout{
		HeaderRows:    4,
		NameColumn:    1,
		DateColumn:    0,
		FirstPunchCol: 8,
		LastPunchCol:  9,
		PunchCountCol: 10,
		StatusColumn:  14,
	}
}

// Sheet is the content of one export
type Sheet struct {
	Name  string
	Month string // two-digit month of the newest row, "" when unknown
	Rows  []attendance.RawRow
}

// Reader extracts attendance rows from .xlsx exports
type Reader struct {
	layout Layout
	logger *zap.Logger
}

// NewReader creates a new Reader
func NewReader(layout Layout, logger *zap.Logger) *Reader {
	return &Reader{
		layout: layout,
		logger: logger,
	}
}

// ReadFile opens the workbook at path
func (r *Reader) ReadFile(path string) (*Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet, err := r.read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sheet, nil
}

// Read parses a workbook from a stream
func (r *Reader) Read(src io.Reader) (*Sheet, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return r.read(f)
}

func (r *Reader) read(f *excelize.File) (*Sheet, error) {
	sheetName := f.GetSheetName(f.GetActiveSheetIndex())
	if sheetName == "" {
		sheetName = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
	}

	if len(rows) <= r.layout.HeaderRows {
		return &Sheet{}, nil
	}
	data := rows[r.layout.HeaderRows:]

	sheet := &Sheet{
		Name:  cell(data[0], r.layout.NameColumn),
		Month: monthOf(cell(data[0], r.layout.DateColumn)),
	}

	// the export lists the newest day first
	for i := len(data) - 1; i >= 0; i-- {
		row := data[i]
		line := r.layout.HeaderRows + i + 1
		if blank(row) {
			r.logger.Debug("Skipping blank row", zap.Int("line", line))
			continue
		}

		// rows with content but no date are passed on so the analysis rejects them
		dateToken := cell(row, r.layout.DateColumn)
		if dateToken == "" {
			r.logger.Warn("Row without date", zap.Int("line", line))
		}

		sheet.Rows = append(sheet.Rows, attendance.RawRow{
			DateToken:  dateToken,
			FirstPunch: cell(row, r.layout.FirstPunchCol),
			LastPunch:  cell(row, r.layout.LastPunchCol),
			PunchCount: cell(row, r.layout.PunchCountCol),
			Status:     cell(row, r.layout.StatusColumn),
			SourceLine: line,
		})
	}

	r.logger.Info("Punch sheet read",
		zap.String("sheet", sheetName),
		zap.String("name", sheet.Name),
		zap.String("month", sheet.Month),
		zap.Int("rows", len(sheet.Rows)))

	return sheet, nil
}

// cell returns the trimmed value; GetRows drops trailing empty cells
func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func monthOf(dateToken string) string {
	date, err := dateutil.ParseRecordDate(dateToken)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%02d", int(date.Month()))
}
