package calendar

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// FileCache keeps the yearly designations maps as holiday_<year>.json files
type FileCache struct {
	dir    string
	logger *zap.Logger
}

// NewFileCache creates a new FileCache rooted at dir
func NewFileCache(dir string, logger *zap.Logger) *FileCache {
	return &FileCache{
		dir:    dir,
		logger: logger,
	}
}

func (fc *FileCache) path(year int) string {
	return filepath.Join(fc.dir, fmt.Sprintf("holiday_%d.json", year))
}

// Load returns the cached payload of the year; ok is false when nothing usable is cached
func (fc *FileCache) Load(year int) (YearDesignations, bool) {
	data, err := os.ReadFile(fc.path(year))
	if err != nil {
		if !os.IsNotExist(err) {
			fc.logger.Error("Failed to read cache file",
				zap.Int("year", year),
				zap.Error(err))
		}
		return nil, false
	}

	payload, err := decodeCache(data)
	if err != nil {
		fc.logger.Error("Failed to parse cache file",
			zap.Int("year", year),
			zap.Error(err))
		return nil, false
	}
	if len(payload) == 0 {
		return nil, false
	}

	return payload, true
}

// decodeCache accepts the bare designations map and the full API response
// ({"code":0,"holiday":{...}}) written by older versions.
func decodeCache(data []byte) (YearDesignations, error) {
	var envelope struct {
		Code    *int             `json:"code"`
		Holiday YearDesignations `json:"holiday"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Code != nil {
		if *envelope.Code != 0 {
			return nil, fmt.Errorf("%w: cached response code %d", ErrMalformedPayload, *envelope.Code)
		}
		return envelope.Holiday, nil
	}

	var payload YearDesignations
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Save writes the payload of the year
func (fc *FileCache) Save(year int, payload YearDesignations) error {
	if err := os.MkdirAll(fc.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	if err := os.WriteFile(fc.path(year), data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	fc.logger.Debug("Holiday cache saved",
		zap.Int("year", year),
		zap.String("file", fc.path(year)))

	return nil
}
