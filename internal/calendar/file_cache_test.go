package calendar

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFileCache_SaveLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "holiday_cache")
	cache := NewFileCache(dir, zap.NewNop())

	_, ok := cache.Load(2024)
	assert.False(t, ok, "empty cache should miss")

	payload := YearDesignations{"05-01": {Holiday: true, Name: "劳动节"}}
	require.NoError(t, cache.Save(2024, payload))

	assert.FileExists(t, filepath.Join(dir, "holiday_2024.json"))

	got, ok := cache.Load(2024)
	require.True(t, ok)
	assert.Equal(t, payload, got)
}

func TestFileCache_LoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "holiday_2024.json"), []byte("{not json"), 0o644))

	cache := NewFileCache(dir, zap.NewNop())

	_, ok := cache.Load(2024)
	assert.False(t, ok)
}

func TestFileCache_LoadFullResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
		ok   bool
	}{
		{"api response", `{"code":0,"holiday":{"10-01":{"holiday":true,"name":"国庆节","date":"2024-10-01"}}}`, true},
		{"bare map", `{"10-01":{"holiday":true,"name":"国庆节"}}`, true},
		{"error response", `{"code":-1,"holiday":{}}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "holiday_2024.json"), []byte(tt.body), 0o644))

			got, ok := NewFileCache(dir, zap.NewNop()).Load(2024)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, got["10-01"].Holiday)
				assert.Equal(t, "国庆节", got["10-01"].Name)
			}
		})
	}
}
