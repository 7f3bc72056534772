package calendar

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/username/attendance-overtime/pkg/dateutil"
	"go.uber.org/zap"
)

// CompleteDesignations converts an upstream payload into storable designations.
// Partial "MM-DD" tokens are completed with the given year; invalid tokens are skipped.
func CompleteDesignations(year int, data YearDesignations, logger *zap.Logger) []Designation {
	result := make([]Designation, 0, len(data))

	for token, info := range data {
		dateStr := strings.TrimSpace(token)
		if len(strings.Split(dateStr, "-")) == 2 {
			dateStr = fmt.Sprintf("%d-%s", year, dateStr)
		}

		date, err := time.ParseInLocation(dateutil.DateLayout, dateStr, time.Local)
		if err != nil {
			logger.Warn("Skipping invalid date token",
				zap.Int("year", year),
				zap.String("token", token),
				zap.Error(err))
			continue
		}

		kind := KindWorkday
		if info.Holiday {
			kind = KindHoliday
		}

		result = append(result, Designation{
			Date: date,
			Kind: kind,
			Name: info.Name,
			Year: year,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})

	return result
}
