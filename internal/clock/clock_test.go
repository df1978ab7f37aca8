package clock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/recallflash/internal/clock"
)

func TestDate_KeepsCalendarDayOfLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	at := time.Date(2024, 3, 9, 22, 30, 0, 0, loc) // already March 10 in UTC

	d := clock.Date(at)

	assert.Equal(t, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), d)
}

func TestAddDays_CrossesMonthAndYear(t *testing.T) {
	d := time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "2025-01-01", clock.Format(clock.AddDays(d, 2)))
	assert.Equal(t, "2025-01-29", clock.Format(clock.AddDays(d, 30)))
}

func TestFormatParse_RoundTrip(t *testing.T) {
	d, err := clock.Parse("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", clock.Format(d))
}

func TestFixed_Today(t *testing.T) {
	c := clock.Fixed{At: time.Date(2024, 5, 1, 18, 45, 0, 0, time.UTC)}

	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), c.Today())
}

func TestNewSystem_InvalidZone(t *testing.T) {
	_, err := clock.NewSystem("Not/AZone")
	assert.Error(t, err)
}

func TestNewSystem_DefaultsToUTC(t *testing.T) {
	c, err := clock.NewSystem("")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, c.Today().Location())
}
