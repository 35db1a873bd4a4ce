package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrSlotTaken is returned by the store when a scheduled booking already
	// holds the provider, date and time slot.
	ErrSlotTaken = errors.New("time slot already booked")

	// ErrLockHeld means another request is inside the critical section for
	// the same slot.
	ErrLockHeld = errors.New("slot lock already held")

	// ErrStatusChanged means a conditional status update matched nothing
	// because the booking left the expected status.
	ErrStatusChanged = errors.New("booking status changed")
)
