package repositories

import (
	"context"

	"github.com/volunteerhub/event-service/internal/models"
)

// DonationRepository interface for donation and donation type operations
type DonationRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, donation *models.Donation) error
	GetByID(ctx context.Context, id uint) (*models.Donation, error)
	UpdateStatus(ctx context.Context, id uint, status models.DonationStatus) error
	Delete(ctx context.Context, id uint) error

	// List operations with joined display fields
	List(ctx context.Context, filters DonationFilters) ([]*models.Donation, int64, error)
	ListByUser(ctx context.Context, userID uint) ([]*models.Donation, error)

	// Aggregates over confirmed donations (received or distributed)
	GetMonetaryTotals(ctx context.Context, eventID uint) (*DonationTotals, error)
	GetCountsByType(ctx context.Context, eventID uint) ([]models.DonationTypeCount, error)

	// Donation types
	ListTypes(ctx context.Context) ([]*models.DonationType, error)
	GetTypeByID(ctx context.Context, id uint) (*models.DonationType, error)
	CreateType(ctx context.Context, donationType *models.DonationType) error
}
