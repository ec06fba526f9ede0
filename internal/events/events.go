package events

import (
	"context"
	"time"
)

// Event types published by this service. Consumers (notification service,
// analytics) route on these.
const (
	EventRegistrationCreated       = "registration.created"
	EventRegistrationStatusChanged = "registration.status_changed"
	EventRegistrationRoleChanged   = "registration.role_changed"
	EventRegistrationCancelled     = "registration.cancelled"
	EventDonationRecorded          = "donation.recorded"
	EventDonationStatusChanged     = "donation.status_changed"
	EventEventCreated              = "event.created"
	EventEventDeleted              = "event.deleted"
)

// EventSource identifies this service in the envelope
const EventSource = "event-service"

// EventVersion is the envelope schema version
const EventVersion = "1.0"

// Event is the envelope every published message carries
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// EventPublisher publishes domain events to the message broker
type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}

// ===== EVENT PAYLOADS =====

// RegistrationEventData is carried by all registration.* events
type RegistrationEventData struct {
	RegistrationID uint    `json:"registration_id"`
	UserID         uint    `json:"user_id"`
	EventID        uint    `json:"event_id"`
	RoleID         *uint   `json:"role_id,omitempty"`
	Status         string  `json:"status"`
	PreviousStatus *string `json:"previous_status,omitempty"`
}

// DonationEventData is carried by all donation.* events
type DonationEventData struct {
	DonationID     uint     `json:"donation_id"`
	EventID        uint     `json:"event_id"`
	UserID         *uint    `json:"user_id,omitempty"`
	DonationTypeID uint     `json:"donation_type_id"`
	Amount         *float64 `json:"amount,omitempty"`
	Quantity       *int     `json:"quantity,omitempty"`
	Status         string   `json:"status"`
}

// EventLifecycleData is carried by event.created and event.deleted
type EventLifecycleData struct {
	EventID   uint   `json:"event_id"`
	Name      string `json:"name"`
	EventType string `json:"event_type"`
}
