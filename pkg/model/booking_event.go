package model

import "time"

type BookingEventType string

const (
	BookingCreatedEvent   BookingEventType = "booking.created"
	BookingCompletedEvent BookingEventType = "booking.completed"
	BookingCancelledEvent BookingEventType = "booking.cancelled"
	BookingRemovedEvent   BookingEventType = "booking.removed"
)

// BookingEvent is the payload published after a lifecycle change.
type BookingEvent struct {
	Type       BookingEventType `json:"type"`
	BookingID  string           `json:"booking_id"`
	ProviderID string           `json:"provider_id"`
	Date       string           `json:"date"`
	TimeSlot   string           `json:"time_slot"`
	Status     BookingStatus    `json:"status"`
	Requester  string           `json:"requester_name,omitempty"`
	Phone      string           `json:"requester_phone,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

func NewBookingEvent(eventType BookingEventType, b *Booking, at time.Time) BookingEvent {
	return BookingEvent{
		Type:       eventType,
		BookingID:  b.ID,
		ProviderID: b.ProviderID,
		Date:       b.Date,
		TimeSlot:   b.TimeSlot,
		Status:     b.Status,
		Requester:  b.RequesterName,
		Phone:      b.RequesterPhone,
		OccurredAt: at,
	}
}
