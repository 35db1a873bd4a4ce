// Package slots defines the bookable times of a clinic day and the civil
// date/time-of-day values bookings are keyed on.
package slots

import (
	"fmt"
	"time"
)

const minutesPerDay = 24 * 60

// TimeOfDay is a wall-clock time expressed as minutes after midnight.
type TimeOfDay int

// ParseTimeOfDay parses "HH:MM" (24h clock). "24:00" is accepted only as an
// end-of-day bound.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if len(s) != 5 || s[2] != ':' || !isDigits(s[:2]) || !isDigits(s[3:]) {
		return 0, fmt.Errorf("invalid time of day %q: want HH:MM", s)
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if m > 59 || h > 24 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("invalid time of day %q: out of range", s)
	}
	return TimeOfDay(h*60 + m), nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(b []byte) error {
	parsed, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Catalog is the fixed, ordered set of slot start times for one day.
type Catalog struct {
	slots       []TimeOfDay
	index       map[TimeOfDay]struct{}
	granularity time.Duration
}

// NewCatalog builds slots from dayStart in granularity steps; the last slot
// must end no later than dayEnd.
func NewCatalog(dayStart, dayEnd string, granularityMin int) (*Catalog, error) {
	start, err := ParseTimeOfDay(dayStart)
	if err != nil {
		return nil, fmt.Errorf("day start: %w", err)
	}
	end, err := ParseTimeOfDay(dayEnd)
	if err != nil {
		return nil, fmt.Errorf("day end: %w", err)
	}
	if granularityMin <= 0 {
		return nil, fmt.Errorf("granularity must be positive, got %d", granularityMin)
	}
	if start >= end || int(end) > minutesPerDay {
		return nil, fmt.Errorf("day start %s must be before day end %s", dayStart, dayEnd)
	}

	c := &Catalog{
		index:       make(map[TimeOfDay]struct{}),
		granularity: time.Duration(granularityMin) * time.Minute,
	}
	for t := start; t+TimeOfDay(granularityMin) <= end; t += TimeOfDay(granularityMin) {
		c.slots = append(c.slots, t)
		c.index[t] = struct{}{}
	}
	if len(c.slots) == 0 {
		return nil, fmt.Errorf("no %d-minute slot fits between %s and %s", granularityMin, dayStart, dayEnd)
	}
	return c, nil
}

// MustCatalog panics on invalid input; for tests and static defaults.
func MustCatalog(dayStart, dayEnd string, granularityMin int) *Catalog {
	c, err := NewCatalog(dayStart, dayEnd, granularityMin)
	if err != nil {
		panic(err)
	}
	return c
}

// AllSlots returns the slots in catalog order. The slice is a copy.
func (c *Catalog) AllSlots() []TimeOfDay {
	out := make([]TimeOfDay, len(c.slots))
	copy(out, c.slots)
	return out
}

func (c *Catalog) Contains(t TimeOfDay) bool {
	_, ok := c.index[t]
	return ok
}

// Lookup parses s and reports whether it is one of the catalog's slots.
func (c *Catalog) Lookup(s string) (TimeOfDay, bool) {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		return 0, false
	}
	return t, c.Contains(t)
}

func (c *Catalog) Granularity() time.Duration {
	return c.granularity
}

// Strings renders the catalog as "HH:MM" values.
func (c *Catalog) Strings() []string {
	return Format(c.slots)
}

func Format(ts []TimeOfDay) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.String()
	}
	return out
}
