package deadline

import (
	"fmt"
	"strings"
	"time"

	"github.com/scrypster/caseflow/internal/storage"
)

const dateLayout = "2006-01-02"

// ParseDate accepts a calendar date (YYYY-MM-DD, midnight UTC) or an
// RFC 3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q is neither YYYY-MM-DD nor RFC 3339", storage.ErrInvalidInput, s)
	}
	return t, nil
}

// HolidayCalendar reports whether a calendar day is a court holiday.
type HolidayCalendar interface {
	IsHoliday(day time.Time) bool
}

// FixedHolidays is a HolidayCalendar over an explicit set of dates. Dates are
// compared in the location of the day being checked.
type FixedHolidays map[string]struct{}

// NewFixedHolidays builds a calendar from YYYY-MM-DD strings. Malformed
// entries are ignored.
func NewFixedHolidays(dates ...string) FixedHolidays {
	h := make(FixedHolidays, len(dates))
	for _, d := range dates {
		if _, err := time.Parse(dateLayout, d); err != nil {
			continue
		}
		h[d] = struct{}{}
	}
	return h
}

// IsHoliday implements HolidayCalendar.
func (h FixedHolidays) IsHoliday(day time.Time) bool {
	_, ok := h[day.Format(dateLayout)]
	return ok
}

// Holidays2025 is the default calendar: the 2025 US federal court holidays.
var Holidays2025 = NewFixedHolidays(
	"2025-01-01", // New Year's Day
	"2025-01-20", // Martin Luther King Jr. Day
	"2025-02-17", // Washington's Birthday
	"2025-05-26", // Memorial Day
	"2025-06-19", // Juneteenth
	"2025-07-04", // Independence Day
	"2025-09-01", // Labor Day
	"2025-10-13", // Columbus Day
	"2025-11-11", // Veterans Day
	"2025-11-27", // Thanksgiving
	"2025-12-25", // Christmas
)

func isWeekend(day time.Time) bool {
	wd := day.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
