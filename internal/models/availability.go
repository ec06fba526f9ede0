package models

import (
	"time"

	"gorm.io/datatypes"
)

// UserAvailability is one declared time slot for a user within an event's
// window. Submissions replace all existing slots for the (user, event) pair.
type UserAvailability struct {
	ID      uint `json:"id" gorm:"primaryKey"`
	UserID  uint `json:"user_id" gorm:"not null;index:idx_availability_user_event"`
	EventID uint `json:"event_id" gorm:"not null;index:idx_availability_user_event"`

	AvailabilityDate datatypes.Date `json:"availability_date" gorm:"not null"`
	StartTime        datatypes.Time `json:"start_time" gorm:"not null"`
	EndTime          datatypes.Time `json:"end_time" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	User  User  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Event Event `json:"-" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`

	// Joined display fields for admin event views.
	Username string `json:"username,omitempty" gorm:"-"`
	FullName string `json:"full_name,omitempty" gorm:"-"`
}

func (UserAvailability) TableName() string {
	return "user_availability"
}
