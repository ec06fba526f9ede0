package repositories

import (
	"context"

	"github.com/volunteerhub/event-service/internal/models"
)

// RegistrationRepository interface for the signup aggregate. One row per
// (user, event); the role is optional.
type RegistrationRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, registration *models.Registration) error
	GetByID(ctx context.Context, id uint) (*models.Registration, error)
	GetByUserAndEvent(ctx context.Context, userID, eventID uint) (*models.Registration, error)
	UpdateStatus(ctx context.Context, id uint, status models.RegistrationStatus) error
	UpdateRole(ctx context.Context, id uint, roleID *uint) error
	Delete(ctx context.Context, id uint) error

	// View queries
	ListByUser(ctx context.Context, userID uint) ([]*models.RegisteredEvent, error)
	ListByEvent(ctx context.Context, eventID uint, filters RegistrationFilters) ([]*models.EventRegistrant, int64, error)

	// Occupancy queries; active means pending or approved
	CountActiveByRole(ctx context.Context, roleID uint) (int64, error)
	CountActiveByRoles(ctx context.Context, roleIDs []uint) (map[uint]int64, error)

	// Validation and checks
	ExistsActiveForRole(ctx context.Context, roleID uint) (bool, error)
}
