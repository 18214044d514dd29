// Package holidays loads non-working days from iCalendar files, the
// format public holiday feeds are published in.
package holidays

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/emersion/go-ical"
	"github.com/felixgeelhaar/taskrank/internal/prioritization/domain/scoring"
)

// LoadFile reads an .ics file and collects the start date of every
// VEVENT into a holiday set.
func LoadFile(path string) (scoring.HolidaySet, error) {
	f, err := os.Open(path)
	if err != nil {
		return scoring.HolidaySet{}, fmt.Errorf("failed to open holiday calendar: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Parse(f)
}

// Parse decodes iCalendar data into a holiday set. All-day events and
// timed events both contribute their start date.
func Parse(r io.Reader) (scoring.HolidaySet, error) {
	dec := ical.NewDecoder(r)

	var dates []time.Time
	for {
		cal, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return scoring.HolidaySet{}, fmt.Errorf("failed to parse holiday calendar: %w", err)
		}

		for _, child := range cal.Children {
			if child.Name != ical.CompEvent {
				continue
			}
			prop := child.Props.Get(ical.PropDateTimeStart)
			if prop == nil {
				continue
			}
			start, err := prop.DateTime(time.UTC)
			if err != nil {
				return scoring.HolidaySet{}, fmt.Errorf("invalid event start: %w", err)
			}
			dates = append(dates, start)
		}
	}

	return scoring.NewHolidaySet(dates...), nil
}
