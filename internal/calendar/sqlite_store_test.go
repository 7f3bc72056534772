package calendar

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSQLiteStore_UpsertAndLoad(t *testing.T) {
	ctx := context.Background()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "holidays.db"), zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	designations := []Designation{
		{Date: time.Date(2024, 10, 1, 0, 0, 0, 0, time.Local), Kind: KindHoliday, Name: "国庆节", Year: 2024},
		{Date: time.Date(2024, 10, 12, 0, 0, 0, 0, time.Local), Kind: KindWorkday, Name: "补班", Year: 2024},
		{Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local), Kind: KindHoliday, Name: "元旦", Year: 2025},
	}
	require.NoError(t, store.UpsertDesignations(ctx, designations))

	got, err := store.LoadYear(ctx, 2024)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2024-10-01", got[0].Date.Format("2006-01-02"))
	assert.Equal(t, KindHoliday, got[0].Kind)
	assert.Equal(t, KindWorkday, got[1].Kind)

	// replacing a row changes its classification
	require.NoError(t, store.UpsertDesignations(ctx, []Designation{
		{Date: time.Date(2024, 10, 12, 0, 0, 0, 0, time.Local), Kind: KindHoliday, Name: "调整", Year: 2024},
	}))
	got, err = store.LoadYear(ctx, 2024)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, KindHoliday, got[1].Kind)
	assert.Equal(t, "调整", got[1].Name)

	empty, err := store.LoadYear(ctx, 2030)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
