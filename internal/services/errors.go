package services

import (
	"errors"
	"fmt"
)

// ===== SENTINEL ERRORS =====

var (
	// Generic
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrValidationFailed = errors.New("validation failed")

	// User domain
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid username or password")

	// Event domain
	ErrEventNotFound   = errors.New("event not found")
	ErrEventInactive   = errors.New("event is not active")
	ErrRoleNotFound    = errors.New("event role not found")
	ErrRoleHasSignups  = errors.New("role has active registrants")
	ErrRoleWrongEvent  = errors.New("role does not belong to this event")
	ErrEventNoDonation = errors.New("event does not accept donations")

	// Registration domain
	ErrAlreadyRegistered     = errors.New("user already registered for this event")
	ErrRegistrationNotFound  = errors.New("registration not found")
	ErrRoleFull              = errors.New("role has no available spots")
	ErrInvalidTransition     = errors.New("status transition not allowed")
	ErrRegistrationNotActive = errors.New("registration is not active")

	// Donation domain
	ErrDonationNotFound     = errors.New("donation not found")
	ErrDonationTypeNotFound = errors.New("donation type not found")

	// Availability domain
	ErrAvailabilityNotFound = errors.New("no availability declared")
)

// ===== TYPED ERRORS =====

// PermissionError carries the who/what/why of a denied operation
type PermissionError struct {
	UserID     uint
	ResourceID uint
	Resource   string
	Action     string
	Reason     string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %d cannot %s %s %d: %s",
		e.UserID, e.Action, e.Resource, e.ResourceID, e.Reason)
}

func (e *PermissionError) Unwrap() error {
	return ErrForbidden
}

// NewPermissionError creates a permission error
func NewPermissionError(userID, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

// ConflictError wraps a sentinel conflict with context for the response body
type ConflictError struct {
	Sentinel error
	Detail   string
}

func (e *ConflictError) Error() string {
	if e.Detail == "" {
		return e.Sentinel.Error()
	}
	return fmt.Sprintf("%s: %s", e.Sentinel.Error(), e.Detail)
}

func (e *ConflictError) Unwrap() error {
	return e.Sentinel
}

// NewConflictError creates a conflict error around a sentinel
func NewConflictError(sentinel error, detail string) *ConflictError {
	return &ConflictError{Sentinel: sentinel, Detail: detail}
}
