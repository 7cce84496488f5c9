package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartCurrentDay(t *testing.T) {
	moment := time.Date(2026, 3, 2, 14, 35, 12, 999, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), StartCurrentDay(moment))
}

func TestStartNextDay(t *testing.T) {
	moment := time.Date(2026, 3, 2, 14, 35, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), StartNextDay(moment))

	// Переход через конец месяца
	endOfMonth := time.Date(2026, 2, 28, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), StartNextDay(endOfMonth))
}

func TestDaysBetween(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, DaysBetween(day, day))
	assert.Equal(t, 1, DaysBetween(day, day.AddDate(0, 0, 1)))
	assert.Equal(t, 90, DaysBetween(day, day.AddDate(0, 0, 90)))

	// Время внутри дня не влияет на количество календарных дней
	assert.Equal(t, 1, DaysBetween(day.Add(23*time.Hour), day.AddDate(0, 0, 1)))
}

func TestParseDate(t *testing.T) {
	loc := time.UTC

	parsed, err := ParseDate("2026-03-02T14:00:00Z", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC), parsed)

	parsed, err = ParseDate("2026-03-02T14:00:00", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC), parsed)

	parsed, err = ParseDate("2026-03-02", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), parsed)

	_, err = ParseDate("02.03.2026", loc)
	assert.Error(t, err)
}
