package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWorkingDaysBetween(t *testing.T) {
	monday := date(2025, time.June, 2)

	t.Run("counts full working week", func(t *testing.T) {
		friday := date(2025, time.June, 6)
		assert.Equal(t, 4, WorkingDaysBetween(monday, friday, NewHolidaySet()))
	})

	t.Run("skips weekends", func(t *testing.T) {
		friday := date(2025, time.June, 6)
		nextMonday := date(2025, time.June, 9)
		assert.Equal(t, 1, WorkingDaysBetween(friday, nextMonday, NewHolidaySet()))
	})

	t.Run("skips holidays", func(t *testing.T) {
		wednesday := date(2025, time.June, 4)
		holidays := NewHolidaySet(date(2025, time.June, 3))
		assert.Equal(t, 1, WorkingDaysBetween(monday, wednesday, holidays))
	})

	t.Run("returns zero for same day", func(t *testing.T) {
		assert.Equal(t, 0, WorkingDaysBetween(monday, monday, NewHolidaySet()))
	})

	t.Run("returns zero when to precedes from", func(t *testing.T) {
		earlier := date(2025, time.May, 26)
		assert.Equal(t, 0, WorkingDaysBetween(monday, earlier, NewHolidaySet()))
	})

	t.Run("ignores time of day", func(t *testing.T) {
		lateMonday := time.Date(2025, time.June, 2, 23, 45, 0, 0, time.UTC)
		earlyTuesday := time.Date(2025, time.June, 3, 1, 0, 0, 0, time.UTC)
		assert.Equal(t, 1, WorkingDaysBetween(lateMonday, earlyTuesday, NewHolidaySet()))
	})
}

func TestIsWorkingDay(t *testing.T) {
	holidays := NewHolidaySet(date(2025, time.December, 25))

	assert.True(t, IsWorkingDay(date(2025, time.June, 2), holidays))   // Monday
	assert.False(t, IsWorkingDay(date(2025, time.June, 7), holidays))  // Saturday
	assert.False(t, IsWorkingDay(date(2025, time.June, 8), holidays))  // Sunday
	assert.False(t, IsWorkingDay(date(2025, time.December, 25), holidays))   // holiday
}

func TestHolidaySet(t *testing.T) {
	t.Run("contains added dates regardless of time", func(t *testing.T) {
		set := NewHolidaySet(time.Date(2025, time.January, 1, 15, 4, 5, 0, time.UTC))
		assert.True(t, set.Contains(date(2025, time.January, 1)))
		assert.False(t, set.Contains(date(2025, time.January, 2)))
		assert.Equal(t, 1, set.Len())
	})

	t.Run("empty set contains nothing", func(t *testing.T) {
		set := NewHolidaySet()
		assert.False(t, set.Contains(date(2025, time.January, 1)))
		assert.Equal(t, 0, set.Len())
	})
}
