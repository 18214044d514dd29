package holidays

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCalendar = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//Test//Holidays//EN
BEGIN:VEVENT
UID:independence-day@example.com
DTSTAMP:20250101T000000Z
DTSTART;VALUE=DATE:20250704
SUMMARY:Independence Day
END:VEVENT
BEGIN:VEVENT
UID:christmas@example.com
DTSTAMP:20250101T000000Z
DTSTART;VALUE=DATE:20251225
SUMMARY:Christmas Day
END:VEVENT
END:VCALENDAR
`

func crlf(s string) string {
	return strings.ReplaceAll(s, "\n", "\r\n")
}

func TestParse(t *testing.T) {
	t.Run("collects event start dates", func(t *testing.T) {
		set, err := Parse(strings.NewReader(crlf(sampleCalendar)))

		require.NoError(t, err)
		assert.Equal(t, 2, set.Len())
		assert.True(t, set.Contains(time.Date(2025, time.July, 4, 0, 0, 0, 0, time.UTC)))
		assert.True(t, set.Contains(time.Date(2025, time.December, 25, 0, 0, 0, 0, time.UTC)))
		assert.False(t, set.Contains(time.Date(2025, time.July, 5, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("empty calendar yields empty set", func(t *testing.T) {
		empty := crlf(`BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//Test//Holidays//EN
END:VCALENDAR
`)
		set, err := Parse(strings.NewReader(empty))

		require.NoError(t, err)
		assert.Equal(t, 0, set.Len())
	})

	t.Run("garbage input is an error", func(t *testing.T) {
		_, err := Parse(strings.NewReader("not a calendar"))
		assert.Error(t, err)
	})
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile("/nonexistent/holidays.ics")
	assert.Error(t, err)
}
