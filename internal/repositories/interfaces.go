package repositories

import (
	"time"

	"github.com/volunteerhub/event-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type EventFilters struct {
	EventType  *models.EventType `json:"event_type"`
	Category   *string           `json:"category"`
	ActiveOnly bool              `json:"active_only"`
	DateFrom   *time.Time        `json:"date_from"`
	DateTo     *time.Time        `json:"date_to"`
	Limit      int               `json:"limit"`
	Offset     int               `json:"offset"`
	SortBy     string            `json:"sort_by"`    // "start_date", "name", "created_at"
	SortOrder  string            `json:"sort_order"` // "asc", "desc"
}

type UserFilters struct {
	Role   *models.UserRole `json:"role"`
	Query  string           `json:"query"` // matches username, email or full name
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

type RegistrationFilters struct {
	Status  *models.RegistrationStatus `json:"status"`
	EventID *uint                      `json:"event_id"`
	UserID  *uint                      `json:"user_id"`
	RoleID  *uint                      `json:"role_id"`
	Limit   int                        `json:"limit"`
	Offset  int                        `json:"offset"`
}

type DonationFilters struct {
	Status         *models.DonationStatus `json:"status"`
	EventID        *uint                  `json:"event_id"`
	UserID         *uint                  `json:"user_id"`
	DonationTypeID *uint                  `json:"donation_type_id"`
	Limit          int                    `json:"limit"`
	Offset         int                    `json:"offset"`
}

// ===== SHARED STATISTICS STRUCTS =====

// EventStats summarizes participation for one event.
type EventStats struct {
	TotalRegistrations int                               `json:"total_registrations"`
	StatusBreakdown    map[models.RegistrationStatus]int `json:"status_breakdown"`
	TotalCapacity      int                               `json:"total_capacity"`
	FilledSpots        int                               `json:"filled_spots"`
	RoleCount          int                               `json:"role_count"`
}

// DonationTotals carries the confirmed monetary total for an event together
// with the number of contributing donations.
type DonationTotals struct {
	TotalAmount   float64 `json:"total_amount"`
	DonationCount int     `json:"donation_count"`
}
