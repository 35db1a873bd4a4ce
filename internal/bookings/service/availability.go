package service

import (
	"context"
	"time"

	"clinic/internal/bookings/repository"
	"clinic/internal/bookings/slots"
	"clinic/pkg/clock"
	mongotx "clinic/pkg/db/mongo"
	apperrors "clinic/pkg/errors"
	"clinic/pkg/logger"
)

// ConflictChecker answers which catalog slots of a provider's day are still
// bookable. It never writes.
type ConflictChecker struct {
	repo    repository.BookingRepository
	catalog *slots.Catalog
	clock   clock.Clock
	loc     *time.Location
	log     *logger.Logger
}

func NewConflictChecker(repo repository.BookingRepository, catalog *slots.Catalog, clk clock.Clock, loc *time.Location, log *logger.Logger) *ConflictChecker {
	return &ConflictChecker{
		repo:    repo,
		catalog: catalog,
		clock:   clk,
		loc:     loc,
		log:     log,
	}
}

func (c *ConflictChecker) Catalog() *slots.Catalog {
	return c.catalog
}

// BookedSlots returns the slots held by scheduled bookings of providerID on
// date. Values that are not catalog slots are ignored.
func (c *ConflictChecker) BookedSlots(ctx context.Context, providerID, date string) (map[slots.TimeOfDay]struct{}, error) {
	bookings, err := c.repo.FindByProviderAndDate(ctx, providerID, date)
	if err != nil {
		c.log.Error("Failed to load booked slots",
			"provider_id", providerID,
			"date", date,
			"error", err,
		)
		return nil, mongotx.StoreError("Failed to load booked slots", err)
	}

	booked := make(map[slots.TimeOfDay]struct{}, len(bookings))
	for _, b := range bookings {
		if slot, ok := c.catalog.Lookup(b.TimeSlot); ok {
			booked[slot] = struct{}{}
		}
	}
	return booked, nil
}

// IsPast reports whether slot on date has already started at now, in the
// clinic time zone.
func (c *ConflictChecker) IsPast(date string, slot slots.TimeOfDay, now time.Time) bool {
	return slots.IsPast(date, slot, now, c.loc)
}

// AvailableSlots is the catalog minus booked and elapsed slots, in catalog
// order.
func (c *ConflictChecker) AvailableSlots(ctx context.Context, providerID, date string) ([]slots.TimeOfDay, error) {
	if providerID == "" {
		return nil, apperrors.Validation("Invalid availability query", map[string]any{
			"provider_id": "provider_id is required",
		})
	}
	if _, err := slots.ParseDate(date); err != nil {
		return nil, apperrors.Validation("Invalid availability query", map[string]any{
			"date": "date must be in YYYY-MM-DD format",
		})
	}
	now := c.clock.Now()
	if slots.IsBeforeToday(date, now, c.loc) {
		return nil, apperrors.Validation("Invalid availability query", map[string]any{
			"date": "date cannot be in the past",
		})
	}

	booked, err := c.BookedSlots(ctx, providerID, date)
	if err != nil {
		return nil, err
	}

	available := make([]slots.TimeOfDay, 0, len(c.catalog.AllSlots()))
	for _, slot := range c.catalog.AllSlots() {
		if _, taken := booked[slot]; taken {
			continue
		}
		if c.IsPast(date, slot, now) {
			continue
		}
		available = append(available, slot)
	}
	return available, nil
}
