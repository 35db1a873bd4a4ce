package slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsPast(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		date string
		slot string
		want bool
	}{
		{"earlier slot today", "2025-06-10", "09:00", true},
		{"slot starting this minute", "2025-06-10", "09:30", true},
		{"later slot today", "2025-06-10", "10:00", false},
		{"tomorrow", "2025-06-11", "09:00", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot, err := ParseTimeOfDay(tt.slot)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, IsPast(tt.date, slot, now, time.UTC))
		})
	}
}

func TestIsPast_UsesClinicZone(t *testing.T) {
	bangkok := time.FixedZone("ICT", 7*60*60)
	// 2025-06-10 02:30 UTC is 09:30 in the clinic.
	now := time.Date(2025, 6, 10, 2, 30, 0, 0, time.UTC)

	assert.True(t, IsPast("2025-06-10", 9*60, now, bangkok))
	assert.False(t, IsPast("2025-06-10", 10*60, now, bangkok))
}

func TestIsBeforeToday(t *testing.T) {
	now := time.Date(2025, 6, 10, 23, 0, 0, 0, time.UTC)

	assert.True(t, IsBeforeToday("2025-06-09", now, time.UTC))
	assert.False(t, IsBeforeToday("2025-06-10", now, time.UTC))
	assert.False(t, IsBeforeToday("2025-06-11", now, time.UTC))
}

func TestParseDate(t *testing.T) {
	_, err := ParseDate("2025-06-10")
	assert.NoError(t, err)

	for _, bad := range []string{"2025-6-10", "10/06/2025", "2025-02-30", ""} {
		_, err := ParseDate(bad)
		assert.Error(t, err, bad)
	}
}
