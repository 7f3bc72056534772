package attendance

import (
	"errors"
	"fmt"
)

var (
	// ErrAnalysis wraps every failure returned by Analyzer.Analyze
	ErrAnalysis = errors.New("attendance analysis failed")

	ErrNoRecords     = errors.New("no attendance records")
	ErrMalformedDate = errors.New("malformed date token")
)

// RowError points at the source row that stopped the analysis
type RowError struct {
	Row        int // zero-based position in the input
	SourceLine int // line in the source sheet, 0 when unknown
	DateToken  string
	Err        error
}

func (e *RowError) Error() string {
	if e.SourceLine > 0 {
		return fmt.Sprintf("sheet line %d (%q): %v", e.SourceLine, e.DateToken, e.Err)
	}
	return fmt.Sprintf("row %d (%q): %v", e.Row+1, e.DateToken, e.Err)
}

func (e *RowError) Unwrap() []error {
	return []error{ErrAnalysis, e.Err}
}
