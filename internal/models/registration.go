package models

import (
	"time"
)

type RegistrationStatus string

const (
	RegistrationPending   RegistrationStatus = "pending"
	RegistrationApproved  RegistrationStatus = "approved"
	RegistrationDeclined  RegistrationStatus = "declined"
	RegistrationCompleted RegistrationStatus = "completed"
)

// ActiveStatuses are the statuses that count against role capacity.
var ActiveStatuses = []RegistrationStatus{RegistrationPending, RegistrationApproved}

// registrationTransitions is the allowed status transition table. A declined
// signup may be reopened to pending; completed is terminal.
var registrationTransitions = map[RegistrationStatus][]RegistrationStatus{
	RegistrationPending:   {RegistrationApproved, RegistrationDeclined},
	RegistrationApproved:  {RegistrationCompleted, RegistrationDeclined},
	RegistrationDeclined:  {RegistrationPending},
	RegistrationCompleted: {},
}

// CanTransitionTo reports whether a registration may move from s to next.
func (s RegistrationStatus) CanTransitionTo(next RegistrationStatus) bool {
	for _, allowed := range registrationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsActive reports whether the status counts against role capacity.
func (s RegistrationStatus) IsActive() bool {
	for _, st := range ActiveStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// Registration is the single signup aggregate: one row per (user, event),
// with an optional role. A nil RoleID means a general attendee.
type Registration struct {
	ID      uint  `json:"id" gorm:"primaryKey"`
	UserID  uint  `json:"user_id" gorm:"not null;uniqueIndex:idx_registrations_user_event"`
	EventID uint  `json:"event_id" gorm:"not null;uniqueIndex:idx_registrations_user_event;index"`
	RoleID  *uint `json:"role_id" gorm:"index"`

	Status           RegistrationStatus `json:"status" gorm:"not null;default:pending;size:20" validate:"omitempty,registration_status"`
	RegistrationDate time.Time          `json:"registration_date" gorm:"autoCreateTime"`

	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User  User       `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Event Event      `json:"-" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
	Role  *EventRole `json:"-" gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE"`
}

func (Registration) TableName() string {
	return "registrations"
}
