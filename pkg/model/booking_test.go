package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from BookingStatus
		to   BookingStatus
		want bool
	}{
		{BookingScheduled, BookingCompleted, true},
		{BookingScheduled, BookingCancelled, true},
		{BookingScheduled, BookingScheduled, false},
		{BookingCompleted, BookingCancelled, false},
		{BookingCompleted, BookingScheduled, false},
		{BookingCancelled, BookingCompleted, false},
		{BookingCancelled, BookingScheduled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestNewBookingEvent(t *testing.T) {
	at := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	b := &Booking{
		ID:             "665f1f77bcf86cd799439011",
		RequesterName:  "Jane Doe",
		RequesterPhone: "+12015550123",
		ProviderID:     "665f1f77bcf86cd799439012",
		Date:           "2025-06-11",
		TimeSlot:       "10:00",
		Status:         BookingCancelled,
	}

	ev := NewBookingEvent(BookingCancelledEvent, b, at)

	assert.Equal(t, BookingEvent{
		Type:       BookingCancelledEvent,
		BookingID:  b.ID,
		ProviderID: b.ProviderID,
		Date:       "2025-06-11",
		TimeSlot:   "10:00",
		Status:     BookingCancelled,
		Requester:  "Jane Doe",
		Phone:      "+12015550123",
		OccurredAt: at,
	}, ev)
}

func TestUser_PasswordHashNotSerialized(t *testing.T) {
	u := User{Email: "jane@clinic.test", PasswordHash: "secret-hash", Role: RoleUser}

	data, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret-hash")
	assert.NotContains(t, string(data), "password")
}
