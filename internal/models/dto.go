package models

import (
	"math"
	"time"
)

// ===== RESPONSE ENVELOPES =====

type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ===== EVENT VIEWS =====

// EventDetail is the combined event view: the event itself, its roles with
// derived occupancy, and a donation summary for donation/mixed events.
type EventDetail struct {
	Event
	RolesWithOccupancy []EventRole      `json:"roles"`
	DonationSummary    *DonationSummary `json:"donation_summary"`
}

// ===== REGISTRATION VIEWS =====

// RegisteredEvent is an event joined with the user's registration row.
type RegisteredEvent struct {
	Event
	RegistrationID     uint               `json:"registration_id"`
	RegistrationStatus RegistrationStatus `json:"registration_status"`
	RegistrationDate   time.Time          `json:"registration_date"`
	RoleID             *uint              `json:"role_id"`
	RoleName           *string            `json:"role_name"`
}

// EventRegistrant is a user joined with their registration for an event.
type EventRegistrant struct {
	UserID           uint               `json:"id"`
	Username         string             `json:"username"`
	Email            string             `json:"email"`
	FullName         string             `json:"full_name"`
	Status           RegistrationStatus `json:"status"`
	RoleID           *uint              `json:"role_id"`
	RoleName         *string            `json:"role_name"`
	RegistrationDate time.Time          `json:"registration_date"`
}

// FreedRole describes the role slot released by a cancellation, merged with
// the occupancy recomputed after the delete. Nil when the registrant held no
// specific role.
type FreedRole struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	Capacity       int    `json:"capacity"`
	FilledSpots    int    `json:"filled_spots"`
	AvailableSpots int    `json:"available_spots"`
}

// ===== DONATION VIEWS =====

// DonationSummary is the aggregate donation picture for one event.
type DonationSummary struct {
	Goal               float64             `json:"goal"`
	TotalAmount        float64             `json:"total_amount"`
	ProgressPercentage int                 `json:"progress_percentage"`
	DonationCounts     []DonationTypeCount `json:"donation_counts,omitempty"`
}

// DonationTypeCount aggregates confirmed donations of one type.
type DonationTypeCount struct {
	Name          string  `json:"name"`
	UnitOfMeasure *string `json:"unit_of_measure,omitempty"`
	TotalAmount   float64 `json:"total_amount"`
	TotalQuantity int     `json:"total_quantity"`
	DonationCount int     `json:"donation_count"`
}

// DonationProgress computes the percentage of a monetary goal covered by the
// confirmed total, rounded to the nearest integer and clamped to [0, 100].
// A zero or missing goal always yields 0.
func DonationProgress(goal, total float64) int {
	if goal <= 0 {
		return 0
	}
	pct := int(math.Round(total / goal * 100))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
