package slots

import (
	"fmt"
	"time"
)

// DateLayout is the civil date format stored on bookings. Dates are compared
// as strings, never as instants, so no time zone conversion can shift them.
const DateLayout = "2006-01-02"

func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return d, nil
}

// DateOf returns the civil date of t in loc.
func DateOf(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// TimeOfDayOf returns the wall-clock time of t in loc, truncated to minutes.
func TimeOfDayOf(t time.Time, loc *time.Location) TimeOfDay {
	local := t.In(loc)
	return TimeOfDay(local.Hour()*60 + local.Minute())
}

// IsBeforeToday reports whether the civil date is strictly before the date of
// now in loc. date must already be in DateLayout form.
func IsBeforeToday(date string, now time.Time, loc *time.Location) bool {
	return date < DateOf(now, loc)
}

// IsPast reports whether slot on date has started by now. Only today is
// decided here; dates before today are rejected by date validation.
func IsPast(date string, slot TimeOfDay, now time.Time, loc *time.Location) bool {
	if date != DateOf(now, loc) {
		return false
	}
	return slot <= TimeOfDayOf(now, loc)
}
