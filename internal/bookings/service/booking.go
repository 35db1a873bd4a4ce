package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "clinic/internal/bookings/errors"
	"clinic/internal/bookings/repository"
	"clinic/internal/bookings/slots"
	"clinic/internal/bookings/validator"
	"clinic/pkg/clock"
	"clinic/pkg/config"
	mongotx "clinic/pkg/db/mongo"
	apperrors "clinic/pkg/errors"
	"clinic/pkg/events"
	"clinic/pkg/model"
	"clinic/pkg/sanitizer"
	"clinic/pkg/validation"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

// ProviderChecker reports whether a provider exists. The doctors repository
// implements it.
type ProviderChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type BookingService interface {
	Create(ctx context.Context, candidate *model.BookingCandidate, requesterID string) (*model.Booking, error)
	Read(ctx context.Context, id string) (*model.Booking, error)
	List(ctx context.Context, filter *model.BookingFilter) ([]*model.Booking, int64, error)
	Complete(ctx context.Context, id string) (*model.Booking, error)
	Cancel(ctx context.Context, id string) (*model.Booking, error)
	Remove(ctx context.Context, id string) error
	AvailableSlots(ctx context.Context, providerID, date string) ([]slots.TimeOfDay, error)
	Catalog() *slots.Catalog
}

type Dependencies struct {
	Repo      repository.BookingRepository
	LockRepo  repository.SlotLockRepository
	Providers ProviderChecker
	Validator *validator.BookingValidator
	Catalog   *slots.Catalog
	Publisher events.Publisher
	Clock     clock.Clock
	Config    *config.Config
}

type bookingService struct {
	*ConflictChecker

	repo      repository.BookingRepository
	lockRepo  repository.SlotLockRepository
	providers ProviderChecker
	validator *validator.BookingValidator
	publisher events.Publisher
	clock     clock.Clock
	cfg       *config.Config
}

func NewBookingService(deps Dependencies) BookingService {
	if deps.Publisher == nil {
		deps.Publisher = events.Nop{}
	}
	if deps.Clock == nil {
		deps.Clock = clock.System
	}
	return &bookingService{
		ConflictChecker: NewConflictChecker(deps.Repo, deps.Catalog, deps.Clock, deps.Config.Location(), deps.Config.Log),
		repo:            deps.Repo,
		lockRepo:        deps.LockRepo,
		providers:       deps.Providers,
		validator:       deps.Validator,
		publisher:       deps.Publisher,
		clock:           deps.Clock,
		cfg:             deps.Config,
	}
}

func (s *bookingService) Create(ctx context.Context, candidate *model.BookingCandidate, requesterID string) (*model.Booking, error) {
	if candidate == nil {
		return nil, apperrors.InvalidInput("Booking cannot be empty")
	}

	booking := s.fromCandidate(candidate, requesterID)
	if err := s.validate(booking); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if slots.IsBeforeToday(booking.Date, now, s.loc) {
		s.cfg.Log.Warn("Booking date is in the past", "date", booking.Date)
		return nil, apperrors.Validation("Booking validation failed", map[string]any{
			"date": "date cannot be in the past",
		})
	}
	slot, _ := s.catalog.Lookup(booking.TimeSlot)
	if s.IsPast(booking.Date, slot, now) {
		s.cfg.Log.Warn("Booking slot has already passed", "date", booking.Date, "time_slot", booking.TimeSlot)
		return nil, apperrors.PastSlot(booking.Date, booking.TimeSlot)
	}

	if err := s.verifyProvider(ctx, booking); err != nil {
		return nil, err
	}

	release, err := s.acquireSlotLock(ctx, booking, now)
	if err != nil {
		return nil, err
	}
	defer release()

	booking.CreatedAt = now.UTC().Truncate(time.Millisecond)
	booking.UpdatedAt = booking.CreatedAt

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		// The driver may rerun this callback on a transient commit error.
		booking.ID = ""

		booked, err := s.BookedSlots(sessCtx, booking.ProviderID, booking.Date)
		if err != nil {
			return err
		}
		if _, taken := booked[slot]; taken {
			return apperrors.SlotConflict(booking.ProviderID, booking.Date, booking.TimeSlot)
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			if errors.Is(err, bookingserrors.ErrSlotTaken) {
				return apperrors.SlotConflict(booking.ProviderID, booking.Date, booking.TimeSlot)
			}
			return mongotx.StoreError("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeSlotConflict) {
			s.cfg.Log.Warn("Booking slot conflict",
				"provider_id", booking.ProviderID,
				"date", booking.Date,
				"time_slot", booking.TimeSlot,
			)
		} else {
			s.cfg.Log.Error("Failed to create booking", "error", err)
		}
		return nil, mongotx.StoreError("Failed to create booking", err)
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"provider_id", booking.ProviderID,
		"date", booking.Date,
		"time_slot", booking.TimeSlot,
		"provider_unverified", booking.ProviderUnverified,
	)
	s.publish(ctx, model.BookingCreatedEvent, booking)
	return booking, nil
}

func (s *bookingService) Read(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(id, err, "Failed to retrieve booking")
	}
	return booking, nil
}

func (s *bookingService) List(ctx context.Context, filter *model.BookingFilter) ([]*model.Booking, int64, error) {
	if filter == nil {
		filter = &model.BookingFilter{}
	}
	if err := s.validator.ValidateFilter(filter); err != nil {
		return nil, 0, validationError("Invalid booking filter", err)
	}
	filter.Limit = config.NormalizePaginationLimit(filter.Limit)
	filter.Offset = config.NormalizeOffset(filter.Offset)

	var count int64
	var bookings []*model.Booking

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		count, err = s.repo.Count(gctx, filter)
		if err != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", err)
			return mongotx.StoreError("Failed to count bookings", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		bookings, err = s.repo.Query(gctx, filter)
		if err != nil {
			s.cfg.Log.Error("Failed to list bookings",
				"limit", filter.Limit,
				"offset", filter.Offset,
				"error", err,
			)
			return mongotx.StoreError("Failed to retrieve bookings", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	if bookings == nil {
		bookings = []*model.Booking{}
	}
	s.cfg.Log.Debug("Booking list completed",
		"provider_id", filter.ProviderID,
		"date", filter.Date,
		"count", len(bookings),
		"total_count", count,
	)
	return bookings, count, nil
}

func (s *bookingService) Complete(ctx context.Context, id string) (*model.Booking, error) {
	return s.transition(ctx, id, model.BookingCompleted, model.BookingCompletedEvent)
}

func (s *bookingService) Cancel(ctx context.Context, id string) (*model.Booking, error) {
	return s.transition(ctx, id, model.BookingCancelled, model.BookingCancelledEvent)
}

// transition moves a scheduled booking to a terminal status with one
// conditional update, so of two concurrent transitions only one can win.
func (s *bookingService) transition(ctx context.Context, id string, to model.BookingStatus, eventType model.BookingEventType) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	updated, err := s.repo.UpdateStatus(ctx, id, model.BookingScheduled, to, s.clock.Now().UTC().Truncate(time.Millisecond))
	if err != nil {
		if !errors.Is(err, bookingserrors.ErrStatusChanged) {
			return nil, s.mapLookupError(id, err, "Failed to update booking status")
		}

		current, findErr := s.repo.FindByID(ctx, id)
		if findErr != nil {
			return nil, s.mapLookupError(id, findErr, "Failed to update booking status")
		}
		if current.Status.CanTransitionTo(to) {
			s.cfg.Log.Warn("Booking changed during status update", "id", id, "to", to)
			return nil, apperrors.Conflict("Booking was modified concurrently, retry the request")
		}
		s.cfg.Log.Warn("Invalid booking status transition",
			"id", id,
			"from", current.Status,
			"to", to,
		)
		return nil, apperrors.InvalidTransition("Booking", id, string(current.Status), string(to))
	}

	s.cfg.Log.Info("Booking status updated", "id", id, "status", to)
	s.publish(ctx, eventType, updated)
	return updated, nil
}

func (s *bookingService) Remove(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return s.mapLookupError(id, err, "Failed to delete booking")
	}

	s.cfg.Log.Info("Booking deleted successfully", "id", id)
	s.publish(ctx, model.BookingRemovedEvent, removed)
	return nil
}

// --- Helpers ---

func (s *bookingService) fromCandidate(c *model.BookingCandidate, requesterID string) *model.Booking {
	return &model.Booking{
		RequesterID:     requesterID,
		RequesterName:   sanitizer.NormalizeName(c.RequesterName),
		RequesterPhone:  sanitizer.NormalizePhone(c.RequesterPhone, s.cfg.PhoneRegion),
		ProviderID:      sanitizer.TrimAndNormalize(c.ProviderID),
		Date:            sanitizer.TrimAndNormalize(c.Date),
		TimeSlot:        sanitizer.TrimAndNormalize(c.TimeSlot),
		CaseDescription: sanitizer.NormalizeText(c.CaseDescription),
		Notes:           sanitizer.NormalizeText(c.Notes),
		Status:          model.BookingScheduled,
	}
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return validationError("Booking validation failed", err)
	}
	return nil
}

func validationError(message string, err error) error {
	return validation.AppError(message, err)
}

// verifyProvider rejects unknown providers. When the provider store cannot
// answer, the booking proceeds flagged as unverified.
func (s *bookingService) verifyProvider(ctx context.Context, booking *model.Booking) error {
	exists, err := s.providers.Exists(ctx, booking.ProviderID)
	if err != nil {
		s.cfg.Log.Warn("Provider check unavailable, accepting booking as unverified",
			"provider_id", booking.ProviderID,
			"error", err,
		)
		booking.ProviderUnverified = true
		return nil
	}
	if !exists {
		s.cfg.Log.Warn("Booking references unknown provider", "provider_id", booking.ProviderID)
		return apperrors.Validation("Booking validation failed", map[string]any{
			"provider_id": "provider does not exist",
		})
	}
	return nil
}

func slotLockID(providerID, date, timeSlot string) string {
	return fmt.Sprintf("slot:%s:%s:%s", providerID, date, timeSlot)
}

// acquireSlotLock takes the advisory lock for the booking's slot and returns
// the function that releases it.
func (s *bookingService) acquireSlotLock(ctx context.Context, booking *model.Booking, now time.Time) (func(), error) {
	lock := &model.SlotLock{
		ID:        slotLockID(booking.ProviderID, booking.Date, booking.TimeSlot),
		Owner:     uuid.New().String(),
		ExpiresAt: now.Add(s.cfg.SlotLockTTL),
		CreatedAt: now,
	}

	if err := s.lockRepo.Create(ctx, lock); err != nil {
		if errors.Is(err, bookingserrors.ErrLockHeld) {
			s.cfg.Log.Warn("Booking slot is locked by a concurrent request", "lock_id", lock.ID)
			return nil, apperrors.SlotConflict(booking.ProviderID, booking.Date, booking.TimeSlot)
		}
		s.cfg.Log.Error("Failed to acquire slot lock", "lock_id", lock.ID, "error", err)
		return nil, mongotx.StoreError("Failed to acquire slot lock", err)
	}

	return func() {
		if err := s.lockRepo.Delete(context.WithoutCancel(ctx), lock.ID, lock.Owner); err != nil {
			s.cfg.Log.Warn("Failed to release slot lock", "lock_id", lock.ID, "error", err)
		}
	}, nil
}

func (s *bookingService) mapLookupError(id string, err error, message string) error {
	switch {
	case errors.Is(err, bookingserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Booking", id)
	case errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid booking ID format")
	default:
		s.cfg.Log.Error(message, "id", id, "error", err)
		return mongotx.StoreError(message, err)
	}
}

// publish is best-effort; the lifecycle change is already committed.
func (s *bookingService) publish(ctx context.Context, eventType model.BookingEventType, booking *model.Booking) {
	event := model.NewBookingEvent(eventType, booking, s.clock.Now().UTC())
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.cfg.Log.Warn("Failed to publish booking event",
			"event_type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
	}
}
