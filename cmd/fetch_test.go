package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultDateRange(t *testing.T) {
	now := time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC)
	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	// Neither bound given: stays unfiltered.
	from, to := defaultDateRange(time.Time{}, time.Time{}, now)
	assert.True(t, from.IsZero())
	assert.True(t, to.IsZero())

	// Only --from: --to defaults to today+30d.
	from, to = defaultDateRange(day(2024, 1, 1), time.Time{}, now)
	assert.Equal(t, day(2024, 1, 1), from)
	assert.Equal(t, day(2024, 7, 15), to)

	// Only --to: --from defaults to today-30d.
	from, to = defaultDateRange(time.Time{}, day(2024, 8, 1), now)
	assert.Equal(t, day(2024, 5, 16), from)
	assert.Equal(t, day(2024, 8, 1), to)

	// Both given: untouched.
	from, to = defaultDateRange(day(2024, 1, 1), day(2024, 2, 1), now)
	assert.Equal(t, day(2024, 1, 1), from)
	assert.Equal(t, day(2024, 2, 1), to)
}
