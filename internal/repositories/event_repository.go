package repositories

import (
	"context"

	"github.com/volunteerhub/event-service/internal/models"
)

// EventRepository interface for event operations
type EventRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id uint) (*models.Event, error)
	GetByIDWithRoles(ctx context.Context, id uint) (*models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id uint) error

	// List and search operations
	List(ctx context.Context, filters EventFilters) ([]*models.Event, int64, error)
	Search(ctx context.Context, query string, filters EventFilters) ([]*models.Event, int64, error)

	// Validation and checks
	Exists(ctx context.Context, id uint) (bool, error)

	// Statistics
	GetStats(ctx context.Context, id uint) (*EventStats, error)
}

// EventRoleRepository interface for event role operations
type EventRoleRepository interface {
	Create(ctx context.Context, role *models.EventRole) error
	GetByID(ctx context.Context, id uint) (*models.EventRole, error)
	Update(ctx context.Context, role *models.EventRole) error
	Delete(ctx context.Context, id uint) error

	ListByEvent(ctx context.Context, eventID uint) ([]*models.EventRole, error)

	// GetForUpdate loads a role under a row lock. Only valid inside a
	// transaction; the lock serializes concurrent capacity checks against
	// the same role.
	GetForUpdate(ctx context.Context, id uint) (*models.EventRole, error)
}
