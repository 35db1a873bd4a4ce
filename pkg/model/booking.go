package model

import (
	"time"
)

type BookingStatus string

const (
	BookingScheduled BookingStatus = "scheduled"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// CanTransitionTo reports whether the lifecycle allows moving to next.
// Completed and cancelled are terminal.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	return s == BookingScheduled && (next == BookingCompleted || next == BookingCancelled)
}

type Booking struct {
	ID                 string        `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	RequesterID        string        `json:"requester_id,omitempty" bson:"requester_id,omitempty" validate:"omitempty,max=64"`
	RequesterName      string        `json:"requester_name" bson:"requester_name" validate:"required,min=2,max=100"`
	RequesterPhone     string        `json:"requester_phone" bson:"requester_phone" validate:"required,phone"`
	ProviderID         string        `json:"provider_id" bson:"provider_id" validate:"required,mongodb"`
	ProviderUnverified bool          `json:"provider_unverified,omitempty" bson:"provider_unverified,omitempty"`
	Date               string        `json:"date" bson:"date" validate:"required,civil_date"`
	TimeSlot           string        `json:"time_slot" bson:"time_slot" validate:"required,time_slot"`
	CaseDescription    string        `json:"case_description" bson:"case_description" validate:"required,min=2,max=200"`
	Notes              string        `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=2000"`
	Status             BookingStatus `json:"status" bson:"status" validate:"required,oneof=scheduled completed cancelled"`
	CreatedAt          time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

// BookingCandidate is what a caller submits to create a booking. Identity,
// status and timestamps are assigned by the service.
type BookingCandidate struct {
	RequesterName   string `json:"requester_name"`
	RequesterPhone  string `json:"requester_phone"`
	ProviderID      string `json:"provider_id"`
	Date            string `json:"date"`
	TimeSlot        string `json:"time_slot"`
	CaseDescription string `json:"case_description"`
	Notes           string `json:"notes,omitempty"`
}

type BookingFilter struct {
	ProviderID  string        `json:"provider_id,omitempty"`
	Date        string        `json:"date,omitempty"`
	Status      BookingStatus `json:"status,omitempty"`
	RequesterID string        `json:"requester_id,omitempty"`
	Limit       int           `json:"limit,omitempty"`
	Offset      int64         `json:"offset,omitempty"`
}
