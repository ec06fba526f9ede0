package services

import (
	"context"

	"github.com/volunteerhub/event-service/internal/models"
	"github.com/volunteerhub/event-service/internal/repositories"
	"github.com/volunteerhub/event-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type RegisterUserRequest = validator.UserRegisterRequest
type LoginRequest = validator.UserLoginRequest
type UpdateEventRequest = validator.EventUpdateRequest
type EventRoleRequest = validator.EventRoleRequest
type RegisterRequest = validator.RegisterRequest
type RoleChangeRequest = validator.RoleChangeRequest
type RoleSignupRequest = validator.RoleSignupRequest
type RegistrationStatusRequest = validator.RegistrationStatusRequest
type DonationCreateRequest = validator.DonationCreateRequest
type DonationStatusRequest = validator.DonationStatusRequest
type AvailabilityRequest = validator.AvailabilityRequest

// CreateEventRequest extends the validated event payload with roles created
// alongside the event
type CreateEventRequest struct {
	validator.EventCreateRequest
	Roles []EventRoleRequest `json:"roles" validate:"omitempty,dive"`
}

type EventListResponse struct {
	Events []*models.Event `json:"events"`
	Total  int64           `json:"total"`
	Page   int             `json:"page"`
	Size   int             `json:"size"`
}

type RegistrantListResponse struct {
	Registrants []*models.EventRegistrant `json:"registrants"`
	Total       int64                     `json:"total"`
}

type DonationListResponse struct {
	Donations []*models.Donation `json:"donations"`
	Total     int64              `json:"total"`
	Page      int                `json:"page"`
	Size      int                `json:"size"`
}

type UserListResponse struct {
	Users []*models.User `json:"users"`
	Total int64          `json:"total"`
}

// CancelResult is the outcome of a cancellation: the occupancy of the role
// the user held, recomputed after the row was removed. Nil FreedRole when
// the user was a general attendee.
type CancelResult struct {
	FreedRole *models.FreedRole `json:"freed_role"`
}

// RegistrationResult pairs the stored registration with the recomputed
// occupancy of the affected roles. Role is nil for general attendance;
// FreedRole is set by role changes that vacated a previously held role.
type RegistrationResult struct {
	Registration *models.Registration `json:"registration"`
	Role         *models.EventRole    `json:"role,omitempty"`
	FreedRole    *models.FreedRole    `json:"freed_role,omitempty"`
}

// ===== SERVICE INTERFACES =====

type UserService interface {
	// Register creates an account. A nil actor is a self-signup and is
	// always stored as a member regardless of the requested role.
	Register(ctx context.Context, req *RegisterUserRequest, actor *models.User) (*models.User, error)

	// Authenticate verifies a username/password pair against the stored hash
	Authenticate(ctx context.Context, username, password string) (*models.User, error)

	GetByID(ctx context.Context, id uint) (*models.User, error)
	List(ctx context.Context, filters repositories.UserFilters) (*UserListResponse, error)
	UpdateRole(ctx context.Context, id uint, role models.UserRole, actor *models.User) error
	Delete(ctx context.Context, id uint, actor *models.User) error
}

type EventService interface {
	// Core CRUD operations
	Create(ctx context.Context, req *CreateEventRequest) (*models.Event, error)
	GetByID(ctx context.Context, id uint) (*models.Event, error)
	GetDetail(ctx context.Context, id uint) (*models.EventDetail, error)
	Update(ctx context.Context, id uint, req *UpdateEventRequest) (*models.Event, error)
	Delete(ctx context.Context, id uint) error

	// List and search operations
	List(ctx context.Context, filters repositories.EventFilters) (*EventListResponse, error)
	Search(ctx context.Context, query string, filters repositories.EventFilters) (*EventListResponse, error)

	// Role management
	ListRoles(ctx context.Context, eventID uint) ([]*models.EventRole, error)
	AddRole(ctx context.Context, eventID uint, req *EventRoleRequest) (*models.EventRole, error)
	UpdateRole(ctx context.Context, eventID, roleID uint, req *EventRoleRequest) (*models.EventRole, error)
	DeleteRole(ctx context.Context, eventID, roleID uint) error

	// Statistics
	GetStats(ctx context.Context, id uint) (*repositories.EventStats, error)
}

type RegistrationService interface {
	// Signup paths; each returns the registration plus the affected role's
	// recomputed occupancy
	Register(ctx context.Context, userID uint, req *RegisterRequest) (*RegistrationResult, error)
	SignupForRole(ctx context.Context, userID uint, req *RoleSignupRequest) (*RegistrationResult, error)
	ChangeRole(ctx context.Context, userID uint, req *RoleChangeRequest) (*RegistrationResult, error)
	Cancel(ctx context.Context, userID, eventID uint) (*CancelResult, error)

	// CancelRole cancels only when the registration holds the given role
	CancelRole(ctx context.Context, userID, eventID, roleID uint) (*CancelResult, error)

	// Status management (admin)
	UpdateStatus(ctx context.Context, registrationID uint, req *RegistrationStatusRequest, actor *models.User) (*models.Registration, error)

	// Views
	ListUserEvents(ctx context.Context, userID uint) ([]*models.RegisteredEvent, error)
	ListEventRegistrants(ctx context.Context, eventID uint, filters repositories.RegistrationFilters) (*RegistrantListResponse, error)
}

type DonationService interface {
	Create(ctx context.Context, req *DonationCreateRequest) (*models.Donation, error)
	UpdateStatus(ctx context.Context, id uint, req *DonationStatusRequest) (*models.Donation, error)
	Delete(ctx context.Context, id uint) error

	List(ctx context.Context, filters repositories.DonationFilters) (*DonationListResponse, error)
	ListByUser(ctx context.Context, userID uint) ([]*models.Donation, error)

	// GetEventSummary aggregates confirmed donations against the goal
	GetEventSummary(ctx context.Context, eventID uint) (*models.DonationSummary, error)

	ListTypes(ctx context.Context) ([]*models.DonationType, error)
	CreateType(ctx context.Context, name string, unitOfMeasure *string) (*models.DonationType, error)
}

type AvailabilityService interface {
	// Submit replaces all slots the user declared for the event
	Submit(ctx context.Context, userID uint, req *AvailabilityRequest) ([]*models.UserAvailability, error)

	GetForUser(ctx context.Context, userID, eventID uint) ([]*models.UserAvailability, error)
	ListForEvent(ctx context.Context, eventID uint) ([]*models.UserAvailability, error)
	Delete(ctx context.Context, userID, eventID uint) error
}

type ExportService interface {
	// ExportEventRegistrants renders the registrant list of an event as an
	// xlsx workbook; returns the file contents and a suggested filename.
	ExportEventRegistrants(ctx context.Context, eventID uint) ([]byte, string, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	// Core service getters
	User() UserService
	Event() EventService
	Registration() RegistrationService
	Donation() DonationService
	Availability() AvailabilityService
	Export() ExportService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
