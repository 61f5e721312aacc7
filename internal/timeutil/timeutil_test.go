package timeutil

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayUsesBusinessZone(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	// 01:30 UTC is still the previous evening in Sao Paulo.
	now := time.Date(2025, 6, 10, 1, 30, 0, 0, time.UTC)
	day := Day(now, loc)
	assert.Equal(t, time.Date(2025, 6, 9, 3, 0, 0, 0, time.UTC), day.Start)
	assert.Equal(t, time.Date(2025, 6, 10, 3, 0, 0, 0, time.UTC), day.End)
	assert.True(t, day.Contains(now))
	assert.False(t, day.Contains(day.End))
}

func TestMonth(t *testing.T) {
	month := Month(time.Date(2025, 12, 31, 12, 0, 0, 0, time.UTC), time.UTC)
	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), month.Start)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), month.End)
}

func TestOptionalRange(t *testing.T) {
	r, err := OptionalRange("2025-01-01", "", time.UTC)
	require.NoError(t, err)
	assert.Nil(t, r)

	r, err = OptionalRange("2025-01-01", "2025-01-31", time.UTC)
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), r.End)

	r, err = OptionalRange("2025-01-01T10:00:00Z", "2025-01-01T12:00:00Z", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, r.End.Sub(r.Start))

	_, err = OptionalRange("ontem", "hoje", time.UTC)
	assert.ErrorIs(t, err, ErrInvalidTime)
}
