package models

import (
	"time"
)

type EventType string

const (
	EventVolunteer EventType = "volunteer"
	EventDonation  EventType = "donation"
	EventTeaching  EventType = "teaching"
	EventMixed     EventType = "mixed"
)

// AcceptsDonations reports whether donation tracking applies to the event type.
func (t EventType) AcceptsDonations() bool {
	return t == EventDonation || t == EventMixed
}

type Event struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Host        string    `json:"host" gorm:"not null;size:200" validate:"required,max=200"`
	Category    string    `json:"category" gorm:"not null;size:100" validate:"required,max=100"`
	Description string    `json:"description" gorm:"type:text" validate:"omitempty,max=2000"`
	StartDate   time.Time `json:"start_date" gorm:"not null;index" validate:"required"`
	EndDate     time.Time `json:"end_date" gorm:"not null" validate:"required"`
	EventType   EventType `json:"event_type" gorm:"not null;default:volunteer;index;size:20" validate:"omitempty,event_type"`

	// Donation tracking, only meaningful for donation/mixed events.
	DonationGoal            *float64 `json:"donation_goal" validate:"omitempty,gt=0"`
	DonationGoalDescription *string  `json:"donation_goal_description" gorm:"size:500" validate:"omitempty,max=500"`

	IsActive bool `json:"is_active" gorm:"not null;default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Roles         []EventRole    `json:"roles,omitempty" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
	Registrations []Registration `json:"-" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
	Donations     []Donation     `json:"-" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
}

type EventRole struct {
	ID             uint    `json:"id" gorm:"primaryKey"`
	EventID        uint    `json:"event_id" gorm:"not null;index"`
	Name           string  `json:"name" gorm:"not null;size:100" validate:"required,max=100"`
	Description    string  `json:"description" gorm:"type:text" validate:"omitempty,max=1000"`
	Capacity       int     `json:"capacity" gorm:"not null" validate:"required,min=1"`
	SkillsRequired *string `json:"skills_required" gorm:"size:500" validate:"omitempty,max=500"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Derived occupancy, never stored.
	FilledSpots    int `json:"filled_spots" gorm:"-"`
	AvailableSpots int `json:"available_spots" gorm:"-"`
}

func (Event) TableName() string {
	return "events"
}

func (EventRole) TableName() string {
	return "event_roles"
}

// SetOccupancy fills the derived spots from an active-registration count.
// Available spots never go below zero even if capacity was lowered after
// signups were taken.
func (r *EventRole) SetOccupancy(filled int) {
	if filled < 0 {
		filled = 0
	}
	r.FilledSpots = filled
	r.AvailableSpots = r.Capacity - filled
	if r.AvailableSpots < 0 {
		r.AvailableSpots = 0
	}
}
