package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/volunteerhub/event-service/internal/cache"
	"github.com/volunteerhub/event-service/internal/models"
	"github.com/volunteerhub/event-service/internal/repositories"
)

type DonationPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewDonationPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.DonationRepository {
	return &DonationPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// Create records a new donation and invalidates the event's aggregates
func (d *DonationPostgreSQL) Create(ctx context.Context, donation *models.Donation) error {
	if err := d.db.WithContext(ctx).Create(donation).Error; err != nil {
		return fmt.Errorf("failed to create donation: %w", err)
	}

	cache.InvalidateDonationCache(ctx, d.cacheManager, donation.EventID)

	return nil
}

// GetByID retrieves a donation by ID
func (d *DonationPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Donation, error) {
	var donation models.Donation
	if err := d.db.WithContext(ctx).First(&donation, id).Error; err != nil {
		return nil, err
	}
	return &donation, nil
}

// UpdateStatus updates the status of a donation. Totals change when a
// donation crosses into or out of the confirmed statuses, so the event's
// aggregates are dropped either way.
func (d *DonationPostgreSQL) UpdateStatus(ctx context.Context, id uint, status models.DonationStatus) error {
	donation, err := d.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := d.db.WithContext(ctx).
		Model(&models.Donation{}).
		Where("id = ?", id).
		Update("status", status).Error; err != nil {
		return fmt.Errorf("failed to update donation status: %w", err)
	}

	cache.InvalidateDonationCache(ctx, d.cacheManager, donation.EventID)

	return nil
}

// Delete removes a donation
func (d *DonationPostgreSQL) Delete(ctx context.Context, id uint) error {
	donation, err := d.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := d.db.WithContext(ctx).Delete(&models.Donation{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete donation: %w", err)
	}

	cache.InvalidateDonationCache(ctx, d.cacheManager, donation.EventID)

	return nil
}

// List retrieves donations with joined display fields
func (d *DonationPostgreSQL) List(ctx context.Context, filters repositories.DonationFilters) ([]*models.Donation, int64, error) {
	base := d.db.WithContext(ctx).
		Table("donations").
		Joins("JOIN donation_types ON donation_types.id = donations.donation_type_id").
		Joins("JOIN events ON events.id = donations.event_id").
		Joins("LEFT JOIN users ON users.id = donations.user_id")
	base = d.helpers.ApplyDonationFilters(base, filters)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := base.Select(`donations.*,
		donation_types.name AS donation_type_name,
		donation_types.unit_of_measure,
		events.name AS event_name,
		users.username,
		users.full_name AS donor_name`).
		Order("donations.donation_date DESC")

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var donations []*models.Donation
	if err := query.Scan(&donations).Error; err != nil {
		return nil, 0, err
	}

	return donations, total, nil
}

// ListByUser retrieves the donation history of a user
func (d *DonationPostgreSQL) ListByUser(ctx context.Context, userID uint) ([]*models.Donation, error) {
	donations, _, err := d.List(ctx, repositories.DonationFilters{UserID: &userID})
	return donations, err
}

// GetMonetaryTotals sums confirmed monetary donations for an event, cached
// with the short donation TTL
func (d *DonationPostgreSQL) GetMonetaryTotals(ctx context.Context, eventID uint) (*repositories.DonationTotals, error) {
	cacheKey := fmt.Sprintf("event:%d:totals", eventID)
	var totals repositories.DonationTotals

	err := d.cacheManager.Donation.CacheOrExecute(ctx, cacheKey, &totals, cache.DonationCacheConfig.TTL, func() (interface{}, error) {
		var result repositories.DonationTotals
		err := d.db.WithContext(ctx).
			Model(&models.Donation{}).
			Select("COALESCE(SUM(amount), 0) AS total_amount, COUNT(*) AS donation_count").
			Where("event_id = ? AND donation_type_id = ? AND status IN ?",
				eventID, models.MonetaryDonationTypeID,
				[]models.DonationStatus{models.DonationReceived, models.DonationDistributed}).
			Scan(&result).Error
		if err != nil {
			return nil, err
		}
		return &result, nil
	})

	if err != nil {
		return nil, err
	}

	return &totals, nil
}

// GetCountsByType aggregates confirmed donations of an event per type
func (d *DonationPostgreSQL) GetCountsByType(ctx context.Context, eventID uint) ([]models.DonationTypeCount, error) {
	cacheKey := fmt.Sprintf("event:%d:by_type", eventID)
	var counts []models.DonationTypeCount

	err := d.cacheManager.Donation.CacheOrExecute(ctx, cacheKey, &counts, cache.DonationCacheConfig.TTL, func() (interface{}, error) {
		var rows []models.DonationTypeCount
		err := d.db.WithContext(ctx).
			Table("donations").
			Select(`donation_types.name,
				donation_types.unit_of_measure,
				COALESCE(SUM(donations.amount), 0) AS total_amount,
				COALESCE(SUM(donations.quantity), 0) AS total_quantity,
				COUNT(*) AS donation_count`).
			Joins("JOIN donation_types ON donation_types.id = donations.donation_type_id").
			Where("donations.event_id = ? AND donations.status IN ?",
				eventID, []models.DonationStatus{models.DonationReceived, models.DonationDistributed}).
			Group("donation_types.id, donation_types.name, donation_types.unit_of_measure").
			Order("donation_types.name ASC").
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}
		return rows, nil
	})

	if err != nil {
		return nil, err
	}

	return counts, nil
}

// ListTypes retrieves all donation types
func (d *DonationPostgreSQL) ListTypes(ctx context.Context) ([]*models.DonationType, error) {
	var types []*models.DonationType
	err := d.db.WithContext(ctx).
		Order("id ASC").
		Find(&types).Error
	if err != nil {
		return nil, err
	}
	return types, nil
}

// GetTypeByID retrieves a donation type by ID
func (d *DonationPostgreSQL) GetTypeByID(ctx context.Context, id uint) (*models.DonationType, error) {
	var donationType models.DonationType
	if err := d.db.WithContext(ctx).First(&donationType, id).Error; err != nil {
		return nil, err
	}
	return &donationType, nil
}

// CreateType creates a new donation type
func (d *DonationPostgreSQL) CreateType(ctx context.Context, donationType *models.DonationType) error {
	if err := d.db.WithContext(ctx).Create(donationType).Error; err != nil {
		return fmt.Errorf("failed to create donation type: %w", err)
	}
	return nil
}
