package slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalog_HourlyDefault(t *testing.T) {
	c, err := NewCatalog("09:00", "21:00", 60)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"09:00", "10:00", "11:00", "12:00", "13:00", "14:00",
		"15:00", "16:00", "17:00", "18:00", "19:00", "20:00",
	}, c.Strings())
	assert.Equal(t, time.Hour, c.Granularity())
}

func TestNewCatalog_HalfHour(t *testing.T) {
	c := MustCatalog("09:00", "11:00", 30)
	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30"}, c.Strings())
}

func TestNewCatalog_LastSlotMustFit(t *testing.T) {
	c := MustCatalog("09:00", "10:45", 30)
	assert.Equal(t, []string{"09:00", "09:30", "10:00"}, c.Strings())
}

func TestNewCatalog_Invalid(t *testing.T) {
	tests := []struct {
		name        string
		start, end  string
		granularity int
	}{
		{"bad start", "9am", "17:00", 60},
		{"bad end", "09:00", "25:00", 60},
		{"start after end", "18:00", "09:00", 60},
		{"zero granularity", "09:00", "17:00", 0},
		{"no slot fits", "09:00", "09:20", 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.start, tt.end, tt.granularity)
			assert.Error(t, err)
		})
	}
}

func TestAllSlots_ReturnsCopy(t *testing.T) {
	c := MustCatalog("09:00", "12:00", 60)
	first := c.AllSlots()
	first[0] = 0

	assert.Equal(t, "09:00", c.AllSlots()[0].String())
}

func TestLookup(t *testing.T) {
	c := MustCatalog("09:00", "12:00", 60)

	slot, ok := c.Lookup("10:00")
	assert.True(t, ok)
	assert.Equal(t, TimeOfDay(600), slot)

	_, ok = c.Lookup("10:30")
	assert.False(t, ok, "off-grid time must not be a slot")

	_, ok = c.Lookup("garbage")
	assert.False(t, ok)
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"24:00", 1440, false},
		{"24:01", 0, true},
		{"9:30", 0, true},
		{"09:60", 0, true},
		{"+1:00", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
