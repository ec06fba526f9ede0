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

type RegistrationPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewRegistrationPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.RegistrationRepository {
	return &RegistrationPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// Create inserts a new registration. The unique index on (user_id, event_id)
// rejects a second signup for the same event.
func (r *RegistrationPostgreSQL) Create(ctx context.Context, registration *models.Registration) error {
	if err := r.db.WithContext(ctx).Create(registration).Error; err != nil {
		return fmt.Errorf("failed to create registration: %w", err)
	}

	cache.InvalidateEventCache(ctx, r.cacheManager, registration.EventID)

	return nil
}

// GetByID retrieves a registration by ID
func (r *RegistrationPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Registration, error) {
	var registration models.Registration
	if err := r.db.WithContext(ctx).First(&registration, id).Error; err != nil {
		return nil, err
	}
	return &registration, nil
}

// GetByUserAndEvent retrieves the registration row for a (user, event) pair
func (r *RegistrationPostgreSQL) GetByUserAndEvent(ctx context.Context, userID, eventID uint) (*models.Registration, error) {
	var registration models.Registration
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		First(&registration).Error
	if err != nil {
		return nil, err
	}
	return &registration, nil
}

// UpdateStatus updates the status of a registration
func (r *RegistrationPostgreSQL) UpdateStatus(ctx context.Context, id uint, status models.RegistrationStatus) error {
	registration, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).
		Model(&models.Registration{}).
		Where("id = ?", id).
		Update("status", status).Error; err != nil {
		return fmt.Errorf("failed to update registration status: %w", err)
	}

	cache.InvalidateEventCache(ctx, r.cacheManager, registration.EventID)

	return nil
}

// UpdateRole moves a registration to another role, or clears it with nil
func (r *RegistrationPostgreSQL) UpdateRole(ctx context.Context, id uint, roleID *uint) error {
	registration, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).
		Model(&models.Registration{}).
		Where("id = ?", id).
		Update("role_id", roleID).Error; err != nil {
		return fmt.Errorf("failed to update registration role: %w", err)
	}

	cache.InvalidateEventCache(ctx, r.cacheManager, registration.EventID)

	return nil
}

// Delete removes a registration
func (r *RegistrationPostgreSQL) Delete(ctx context.Context, id uint) error {
	registration, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Delete(&models.Registration{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete registration: %w", err)
	}

	cache.InvalidateEventCache(ctx, r.cacheManager, registration.EventID)

	return nil
}

// ListByUser retrieves all events a user is registered for, joined with the
// registration row and the role name
func (r *RegistrationPostgreSQL) ListByUser(ctx context.Context, userID uint) ([]*models.RegisteredEvent, error) {
	var results []*models.RegisteredEvent
	err := r.db.WithContext(ctx).
		Table("registrations").
		Select(`events.*,
			registrations.id AS registration_id,
			registrations.status AS registration_status,
			registrations.registration_date,
			registrations.role_id,
			event_roles.name AS role_name`).
		Joins("JOIN events ON events.id = registrations.event_id").
		Joins("LEFT JOIN event_roles ON event_roles.id = registrations.role_id").
		Where("registrations.user_id = ?", userID).
		Order("events.start_date ASC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// ListByEvent retrieves the registrants of an event with user details
func (r *RegistrationPostgreSQL) ListByEvent(ctx context.Context, eventID uint, filters repositories.RegistrationFilters) ([]*models.EventRegistrant, int64, error) {
	filters.EventID = &eventID

	base := r.db.WithContext(ctx).
		Table("registrations").
		Joins("JOIN users ON users.id = registrations.user_id").
		Joins("LEFT JOIN event_roles ON event_roles.id = registrations.role_id")
	base = r.helpers.ApplyRegistrationFilters(base, filters)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := base.Select(`users.id AS user_id,
		users.username,
		users.email,
		users.full_name,
		registrations.status,
		registrations.role_id,
		event_roles.name AS role_name,
		registrations.registration_date`).
		Order("registrations.registration_date ASC")

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var registrants []*models.EventRegistrant
	if err := query.Scan(&registrants).Error; err != nil {
		return nil, 0, err
	}

	return registrants, total, nil
}

// CountActiveByRole counts pending and approved registrations holding a role
func (r *RegistrationPostgreSQL) CountActiveByRole(ctx context.Context, roleID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Registration{}).
		Where("role_id = ? AND status IN ?", roleID, models.ActiveStatuses).
		Count(&count).Error
	return count, err
}

// CountActiveByRoles counts active registrations for a set of roles in one
// query; roles with no registrants are absent from the result map
func (r *RegistrationPostgreSQL) CountActiveByRoles(ctx context.Context, roleIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(roleIDs))
	if len(roleIDs) == 0 {
		return counts, nil
	}

	type countRow struct {
		RoleID uint
		Count  int64
	}
	var rows []countRow
	err := r.db.WithContext(ctx).
		Model(&models.Registration{}).
		Select("role_id, COUNT(*) as count").
		Where("role_id IN ? AND status IN ?", roleIDs, models.ActiveStatuses).
		Group("role_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.RoleID] = row.Count
	}

	return counts, nil
}

// ExistsActiveForRole checks whether any active registrant holds the role
func (r *RegistrationPostgreSQL) ExistsActiveForRole(ctx context.Context, roleID uint) (bool, error) {
	count, err := r.CountActiveByRole(ctx, roleID)
	return count > 0, err
}
