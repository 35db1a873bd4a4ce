package service

import (
	"context"
	"testing"
	"time"

	"clinic/internal/bookings/slots"
	apperrors "clinic/pkg/errors"
	"clinic/pkg/logger"
	"clinic/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailableSlots_ExcludesScheduledOnly(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.repo.put(&model.Booking{ProviderID: providerA, Date: "2025-06-11", TimeSlot: "10:00", Status: model.BookingScheduled})
	f.repo.put(&model.Booking{ProviderID: providerA, Date: "2025-06-11", TimeSlot: "11:00", Status: model.BookingCancelled})
	f.repo.put(&model.Booking{ProviderID: providerA, Date: "2025-06-11", TimeSlot: "12:00", Status: model.BookingCompleted})
	f.repo.put(&model.Booking{ProviderID: providerB, Date: "2025-06-11", TimeSlot: "13:00", Status: model.BookingScheduled})
	f.repo.put(&model.Booking{ProviderID: providerA, Date: "2025-06-12", TimeSlot: "14:00", Status: model.BookingScheduled})

	available, err := f.svc.AvailableSlots(ctx, providerA, "2025-06-11")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"09:00", "11:00", "12:00", "13:00", "14:00", "15:00",
		"16:00", "17:00", "18:00", "19:00", "20:00",
	}, slots.Format(available))
}

func TestAvailableSlots_TodayDropsElapsed(t *testing.T) {
	f := newFixture() // 2025-06-10T09:30

	available, err := f.svc.AvailableSlots(context.Background(), providerA, "2025-06-10")
	require.NoError(t, err)
	require.NotEmpty(t, available)
	assert.Equal(t, "10:00", available[0].String())
	assert.Len(t, available, 11)
}

func TestAvailableSlots_EndOfDayIsEmpty(t *testing.T) {
	f := newFixture()
	f.clock.Set(time.Date(2025, 6, 10, 20, 0, 0, 0, time.UTC))

	available, err := f.svc.AvailableSlots(context.Background(), providerA, "2025-06-10")
	require.NoError(t, err)
	assert.Empty(t, available)
}

func TestAvailableSlots_ThenCreateIsConsistent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	before, err := f.svc.AvailableSlots(ctx, providerA, "2025-06-11")
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, candidate(providerA, "2025-06-11", before[0].String()), "")
	require.NoError(t, err)

	after, err := f.svc.AvailableSlots(ctx, providerA, "2025-06-11")
	require.NoError(t, err)
	assert.Equal(t, before[1:], after)
}

func TestAvailableSlots_InvalidQuery(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tests := []struct {
		name       string
		providerID string
		date       string
	}{
		{"missing provider", "", "2025-06-11"},
		{"malformed date", providerA, "June 11"},
		{"past date", providerA, "2025-06-09"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.AvailableSlots(ctx, tt.providerID, tt.date)
			assertCode(t, err, apperrors.CodeValidation)
		})
	}
}

func TestAvailableSlots_StoreDown(t *testing.T) {
	f := newFixture()
	f.repo.findErr = context.DeadlineExceeded

	_, err := f.svc.AvailableSlots(context.Background(), providerA, "2025-06-11")
	assertCode(t, err, apperrors.CodeUnavailable)
}

func TestIsPast(t *testing.T) {
	f := newFixture()
	checker := NewConflictChecker(f.repo, slots.MustCatalog("09:00", "21:00", 60), f.clock, time.UTC, logger.Discard())
	now := time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC)

	assert.True(t, checker.IsPast("2025-06-10", 9*60, now))
	assert.False(t, checker.IsPast("2025-06-10", 10*60, now))
	assert.False(t, checker.IsPast("2025-06-11", 9*60, now))
	assert.False(t, checker.IsPast("2025-06-09", 20*60, now), "earlier dates are rejected by date validation, not here")
}

func TestBookedSlots_IgnoresOffCatalogValues(t *testing.T) {
	f := newFixture()
	f.repo.put(&model.Booking{ProviderID: providerA, Date: "2025-06-11", TimeSlot: "10:00", Status: model.BookingScheduled})
	f.repo.put(&model.Booking{ProviderID: providerA, Date: "2025-06-11", TimeSlot: "07:45", Status: model.BookingScheduled})

	checker := NewConflictChecker(f.repo, slots.MustCatalog("09:00", "21:00", 60), f.clock, time.UTC, logger.Discard())
	booked, err := checker.BookedSlots(context.Background(), providerA, "2025-06-11")
	require.NoError(t, err)
	assert.Equal(t, map[slots.TimeOfDay]struct{}{600: {}}, booked)
}
