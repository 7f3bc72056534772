package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultTimorURL    = "http://timor.tech/api/holiday/year/{year}"
	defaultHTTPTimeout = 5 * time.Second
	userAgent          = "attendance-overtime/1.0"
)

// Source fetches the designations of one calendar year
type Source interface {
	FetchYear(ctx context.Context, year int) (YearDesignations, error)
}

// TimorSource implements Source using the timor.tech holiday API
type TimorSource struct {
	urlTemplate string
	httpClient  *http.Client
	logger      *zap.Logger
}

// timorResponse represents timor.tech yearly response.
// Holiday entries are keyed by "MM-DD"; holiday=false marks a make-up workday.
type timorResponse struct {
	Code    int                    `json:"code"`
	Holiday map[string]HolidayInfo `json:"holiday"`
}

// NewTimorSource creates a new TimorSource instance.
// urlTemplate must contain the "{year}" placeholder.
func NewTimorSource(urlTemplate string, timeout time.Duration, logger *zap.Logger) *TimorSource {
	if urlTemplate == "" {
		urlTemplate = DefaultTimorURL
	}
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	return &TimorSource{
		urlTemplate: urlTemplate,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// FetchYear downloads the holiday and make-up workday designations for the year
func (s *TimorSource) FetchYear(ctx context.Context, year int) (YearDesignations, error) {
	url := strings.ReplaceAll(s.urlTemplate, "{year}", strconv.Itoa(year))

	s.logger.Debug("Fetching holiday designations",
		zap.String("url", url),
		zap.Int("year", year))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: API returned status %d", ErrSourceUnavailable, resp.StatusCode)
	}

	var apiResp timorResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	if apiResp.Code != 0 {
		return nil, fmt.Errorf("%w: API returned code %d", ErrMalformedPayload, apiResp.Code)
	}
	if apiResp.Holiday == nil {
		return nil, fmt.Errorf("%w: missing holiday section", ErrMalformedPayload)
	}

	s.logger.Info("Holiday designations fetched",
		zap.Int("year", year),
		zap.Int("entries", len(apiResp.Holiday)))

	return YearDesignations(apiResp.Holiday), nil
}
