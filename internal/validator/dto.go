package validator

import (
	"time"

	"github.com/volunteerhub/event-service/internal/models"
)

// EventCreateRequest represents the request structure for creating events.
type EventCreateRequest struct {
	Name                    string           `json:"name" validate:"required,min=1,max=200"`
	Host                    string           `json:"host" validate:"required,max=200"`
	Category                string           `json:"category" validate:"required,max=100"`
	Description             string           `json:"description" validate:"omitempty,max=2000"`
	StartDate               time.Time        `json:"start_date" validate:"required"`
	EndDate                 time.Time        `json:"end_date" validate:"required"`
	EventType               models.EventType `json:"event_type" validate:"omitempty,event_type"`
	DonationGoal            *float64         `json:"donation_goal" validate:"omitempty,gt=0"`
	DonationGoalDescription *string          `json:"donation_goal_description" validate:"omitempty,max=500"`
	IsActive                *bool            `json:"is_active"`
}

// EventUpdateRequest mirrors the create payload; the original API requires
// the full document on update.
type EventUpdateRequest = EventCreateRequest

// EventRoleRequest represents the request structure for creating or
// replacing an event role.
type EventRoleRequest struct {
	Name           string  `json:"name" validate:"required,max=100"`
	Description    string  `json:"description" validate:"omitempty,max=1000"`
	Capacity       int     `json:"capacity" validate:"required,min=1"`
	SkillsRequired *string `json:"skills_required" validate:"omitempty,max=500"`
}

// ===== USER DTOs =====

type UserRegisterRequest struct {
	Username string          `json:"username" validate:"required,min=3,max=50"`
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=8,max=72"`
	FullName string          `json:"full_name" validate:"required,max=100"`
	Role     models.UserRole `json:"role" validate:"omitempty,user_role"`
}

type UserLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UserRoleUpdateRequest struct {
	Role models.UserRole `json:"role" validate:"required,user_role"`
}

// ===== REGISTRATION DTOs =====

// RegisterRequest signs a user up for an event, optionally into a role.
type RegisterRequest struct {
	EventID uint  `json:"event_id" validate:"required"`
	RoleID  *uint `json:"role_id"`
}

// RoleChangeRequest moves an existing registration to another role.
type RoleChangeRequest struct {
	EventID uint `json:"event_id" validate:"required"`
	RoleID  uint `json:"role_id" validate:"required"`
}

// RoleSignupRequest is the role-first signup path; the role is mandatory.
type RoleSignupRequest struct {
	EventID uint `json:"event_id" validate:"required"`
	RoleID  uint `json:"role_id" validate:"required"`
}

type RegistrationStatusRequest struct {
	Status models.RegistrationStatus `json:"status" validate:"required,registration_status"`
}

// ===== DONATION DTOs =====

type DonationCreateRequest struct {
	EventID         uint     `json:"event_id" validate:"required"`
	UserID          *uint    `json:"user_id"`
	DonationTypeID  uint     `json:"donation_type_id" validate:"required"`
	Amount          *float64 `json:"amount"`
	Quantity        *int     `json:"quantity"`
	ItemDescription *string  `json:"item_description" validate:"omitempty,max=500"`
}

type DonationStatusRequest struct {
	Status models.DonationStatus `json:"status" validate:"required,donation_status"`
}

// ===== AVAILABILITY DTOs =====

// AvailabilitySlot is one declared window; date is "2006-01-02", times are
// "15:04" or "15:04:05".
type AvailabilitySlot struct {
	AvailabilityDate string `json:"availability_date" validate:"required,date_format"`
	StartTime        string `json:"start_time" validate:"required,time_format"`
	EndTime          string `json:"end_time" validate:"required,time_format"`
}

type AvailabilityRequest struct {
	EventID           uint               `json:"event_id" validate:"required"`
	AvailabilitySlots []AvailabilitySlot `json:"availability_slots" validate:"required,min=1,dive"`
}
