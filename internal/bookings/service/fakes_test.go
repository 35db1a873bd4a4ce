package service

import (
	"context"
	"sort"
	"sync"
	"time"

	bookingserrors "clinic/internal/bookings/errors"
	"clinic/internal/bookings/slots"
	"clinic/internal/bookings/validator"
	"clinic/pkg/clock"
	"clinic/pkg/config"
	mongotx "clinic/pkg/db/mongo"
	"clinic/pkg/logger"
	"clinic/pkg/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// memoryBookingRepository keeps bookings in a map. With uniqueSlots set it
// rejects a second scheduled booking for the same slot, like the unique
// partial index does.
type memoryBookingRepository struct {
	mu          sync.Mutex
	bookings    map[string]*model.Booking
	uniqueSlots bool

	findDelay time.Duration
	findErr   error
	createErr error
	countErr  error
	updateErr error
}

func newMemoryBookingRepository() *memoryBookingRepository {
	return &memoryBookingRepository{bookings: make(map[string]*model.Booking), uniqueSlots: true}
}

func (r *memoryBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		return r.createErr
	}
	if r.uniqueSlots && booking.Status == model.BookingScheduled {
		for _, b := range r.bookings {
			if b.Status == model.BookingScheduled && b.ProviderID == booking.ProviderID &&
				b.Date == booking.Date && b.TimeSlot == booking.TimeSlot {
				return bookingserrors.ErrSlotTaken
			}
		}
	}
	booking.ID = primitive.NewObjectID().Hex()
	stored := *booking
	r.bookings[booking.ID] = &stored
	return nil
}

func (r *memoryBookingRepository) put(b *model.Booking) *model.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.ID == "" {
		b.ID = primitive.NewObjectID().Hex()
	}
	stored := *b
	r.bookings[b.ID] = &stored
	return b
}

func (r *memoryBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, bookingserrors.ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingserrors.ErrNotFound
	}
	out := *b
	return &out, nil
}

func (r *memoryBookingRepository) FindByProviderAndDate(ctx context.Context, providerID, date string) ([]*model.Booking, error) {
	if r.findDelay > 0 {
		time.Sleep(r.findDelay)
	}
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.Query(ctx, &model.BookingFilter{ProviderID: providerID, Date: date, Status: model.BookingScheduled})
}

func (r *memoryBookingRepository) UpdateStatus(ctx context.Context, id string, from, to model.BookingStatus, at time.Time) (*model.Booking, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, bookingserrors.ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	b, ok := r.bookings[id]
	if !ok || b.Status != from {
		return nil, bookingserrors.ErrStatusChanged
	}
	b.Status = to
	b.UpdatedAt = at
	out := *b
	return &out, nil
}

func (r *memoryBookingRepository) Delete(ctx context.Context, id string) (*model.Booking, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, bookingserrors.ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingserrors.ErrNotFound
	}
	delete(r.bookings, id)
	return b, nil
}

func (r *memoryBookingRepository) match(filter *model.BookingFilter) []*model.Booking {
	var out []*model.Booking
	for _, b := range r.bookings {
		if filter.ProviderID != "" && b.ProviderID != filter.ProviderID {
			continue
		}
		if filter.Date != "" && b.Date != filter.Date {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if filter.RequesterID != "" && b.RequesterID != filter.RequesterID {
			continue
		}
		c := *b
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].TimeSlot < out[j].TimeSlot
	})
	return out
}

func (r *memoryBookingRepository) Query(ctx context.Context, filter *model.BookingFilter) ([]*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.match(filter)
	start := min(int(filter.Offset), len(all))
	end := len(all)
	if filter.Limit > 0 {
		end = min(start+filter.Limit, len(all))
	}
	return all[start:end], nil
}

func (r *memoryBookingRepository) Count(ctx context.Context, filter *model.BookingFilter) (int64, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.match(filter))), nil
}

// ExecuteTransaction does not isolate anything; concurrency safety under
// test comes from the lock and the unique slot check.
func (r *memoryBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.NewSessionContext(ctx, nil))
}

type memoryLockRepository struct {
	mu       sync.Mutex
	locks    map[string]string
	noop     bool
	released []string
}

func newMemoryLockRepository() *memoryLockRepository {
	return &memoryLockRepository{locks: make(map[string]string)}
}

func (r *memoryLockRepository) Create(ctx context.Context, lock *model.SlotLock) error {
	if r.noop {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, held := r.locks[lock.ID]; held {
		return bookingserrors.ErrLockHeld
	}
	r.locks[lock.ID] = lock.Owner
	return nil
}

func (r *memoryLockRepository) Delete(ctx context.Context, lockID, owner string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.locks[lockID] == owner {
		delete(r.locks, lockID)
	}
	r.released = append(r.released, lockID)
	return nil
}

func (r *memoryLockRepository) held() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.locks)
}

type stubProviders struct {
	known map[string]bool
	err   error
}

func (p *stubProviders) Exists(ctx context.Context, id string) (bool, error) {
	if p.err != nil {
		return false, p.err
	}
	return p.known[id], nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []model.BookingEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event model.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) types() []model.BookingEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []model.BookingEventType
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

const (
	providerA = "665f1f77bcf86cd799439012"
	providerB = "665f1f77bcf86cd799439013"
)

type fixture struct {
	svc       BookingService
	repo      *memoryBookingRepository
	locks     *memoryLockRepository
	providers *stubProviders
	publisher *recordingPublisher
	clock     *clock.Fixed
}

// now is 2025-06-10T09:30 in the clinic zone (UTC).
func newFixture() *fixture {
	cfg := &config.Config{
		Log:            logger.Discard(),
		ClinicTimeZone: "UTC",
		SlotLockTTL:    10 * time.Second,
		PhoneRegion:    "US",
	}
	catalog := slots.MustCatalog("09:00", "21:00", 60)

	f := &fixture{
		repo:      newMemoryBookingRepository(),
		locks:     newMemoryLockRepository(),
		providers: &stubProviders{known: map[string]bool{providerA: true, providerB: true}},
		publisher: &recordingPublisher{},
		clock:     clock.NewFixed(time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC)),
	}
	f.svc = NewBookingService(Dependencies{
		Repo:      f.repo,
		LockRepo:  f.locks,
		Providers: f.providers,
		Validator: validator.NewBookingValidator(cfg.Log, catalog, cfg.PhoneRegion),
		Catalog:   catalog,
		Publisher: f.publisher,
		Clock:     f.clock,
		Config:    cfg,
	})
	return f
}

func candidate(providerID, date, slot string) *model.BookingCandidate {
	return &model.BookingCandidate{
		RequesterName:   "Jane Doe",
		RequesterPhone:  "+12015550123",
		ProviderID:      providerID,
		Date:            date,
		TimeSlot:        slot,
		CaseDescription: "Persistent cough",
	}
}
