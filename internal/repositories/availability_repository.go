package repositories

import (
	"context"

	"github.com/volunteerhub/event-service/internal/models"
)

// AvailabilityRepository interface for declared time slots
type AvailabilityRepository interface {
	// ReplaceForUserEvent swaps all slots the user declared for the event
	// with the given set. Delete and insert run in one transaction so a
	// failed submission never leaves the user slotless.
	ReplaceForUserEvent(ctx context.Context, userID, eventID uint, slots []*models.UserAvailability) error

	ListByUserAndEvent(ctx context.Context, userID, eventID uint) ([]*models.UserAvailability, error)
	ListByEvent(ctx context.Context, eventID uint) ([]*models.UserAvailability, error)

	DeleteByUserAndEvent(ctx context.Context, userID, eventID uint) error
}
