package validator

import (
	"testing"

	"clinic/internal/bookings/slots"
	"clinic/pkg/logger"
	"clinic/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestValidator() *BookingValidator {
	return NewBookingValidator(logger.Discard(), slots.MustCatalog("09:00", "21:00", 60), "US")
}

func validBooking() *model.Booking {
	return &model.Booking{
		RequesterName:   "Jane Doe",
		RequesterPhone:  "+12015550123",
		ProviderID:      "665f1f77bcf86cd799439012",
		Date:            "2025-06-11",
		TimeSlot:        "10:00",
		CaseDescription: "Annual check-up",
		Status:          model.BookingScheduled,
	}
}

func TestValidate_Valid(t *testing.T) {
	assert.NoError(t, newTestValidator().Validate(validBooking()))
}

func TestValidate_FieldErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(b *model.Booking)
		field  string
	}{
		{"missing name", func(b *model.Booking) { b.RequesterName = "" }, "requester_name"},
		{"missing phone", func(b *model.Booking) { b.RequesterPhone = "" }, "requester_phone"},
		{"bad phone", func(b *model.Booking) { b.RequesterPhone = "12345" }, "requester_phone"},
		{"bad provider id", func(b *model.Booking) { b.ProviderID = "doctor-1" }, "provider_id"},
		{"bad date", func(b *model.Booking) { b.Date = "11/06/2025" }, "date"},
		{"impossible date", func(b *model.Booking) { b.Date = "2025-02-30" }, "date"},
		{"off-grid slot", func(b *model.Booking) { b.TimeSlot = "10:30" }, "time_slot"},
		{"slot outside day", func(b *model.Booking) { b.TimeSlot = "08:00" }, "time_slot"},
		{"missing case description", func(b *model.Booking) { b.CaseDescription = "" }, "case_description"},
		{"unknown status", func(b *model.Booking) { b.Status = "pending" }, "status"},
	}

	v := newTestValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBooking()
			tt.mutate(b)

			err := v.Validate(b)
			require.Error(t, err)

			var verrs ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs.Details(), tt.field)
		})
	}
}

func TestValidateFilter(t *testing.T) {
	v := newTestValidator()

	assert.NoError(t, v.ValidateFilter(&model.BookingFilter{}))
	assert.NoError(t, v.ValidateFilter(&model.BookingFilter{
		ProviderID: "665f1f77bcf86cd799439012",
		Date:       "2025-06-11",
		Status:     model.BookingCancelled,
	}))

	err := v.ValidateFilter(&model.BookingFilter{ProviderID: "x", Date: "tomorrow", Status: "done"})
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 3)
}
