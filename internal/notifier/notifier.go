// Package notifier turns booking events into patient notifications.
package notifier

import (
	"context"
	"fmt"

	"clinic/pkg/kafka"
	"clinic/pkg/logger"
	"clinic/pkg/model"
)

type Notification struct {
	BookingID string
	Phone     string
	Text      string
}

// Sender delivers a notification to the patient.
type Sender interface {
	Send(ctx context.Context, n Notification) error
}

// LogSender writes notifications to the log instead of a messaging gateway.
type LogSender struct {
	Log *logger.Logger
}

func (s LogSender) Send(_ context.Context, n Notification) error {
	s.Log.Info("Patient notification",
		"booking_id", n.BookingID,
		"phone", n.Phone,
		"text", n.Text,
	)
	return nil
}

type Notifier struct {
	sender Sender
	log    *logger.Logger
}

func New(sender Sender, log *logger.Logger) *Notifier {
	return &Notifier{sender: sender, log: log}
}

// Handle is a kafka.MessageHandler for the booking events topic.
func (n *Notifier) Handle(ctx context.Context, msg kafka.Message) error {
	var event model.BookingEvent
	if err := msg.DecodeValue(&event); err != nil {
		return err
	}

	text, ok := render(event)
	if !ok {
		n.log.Debug("No notification for event", "type", event.Type, "booking_id", event.BookingID)
		return nil
	}
	if event.Phone == "" {
		n.log.Warn("Booking event without phone, skipping notification", "booking_id", event.BookingID)
		return nil
	}

	if err := n.sender.Send(ctx, Notification{BookingID: event.BookingID, Phone: event.Phone, Text: text}); err != nil {
		return kafka.NewTransientError("send notification", err)
	}
	return nil
}

func render(e model.BookingEvent) (string, bool) {
	switch e.Type {
	case model.BookingCreatedEvent:
		return fmt.Sprintf("Hi %s, your appointment on %s at %s is confirmed.", e.Requester, e.Date, e.TimeSlot), true
	case model.BookingCancelledEvent:
		return fmt.Sprintf("Hi %s, your appointment on %s at %s was cancelled.", e.Requester, e.Date, e.TimeSlot), true
	case model.BookingCompletedEvent:
		return fmt.Sprintf("Thank you for visiting us on %s, %s.", e.Date, e.Requester), true
	}
	return "", false
}
