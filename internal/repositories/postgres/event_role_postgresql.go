package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/volunteerhub/event-service/internal/cache"
	"github.com/volunteerhub/event-service/internal/models"
	"github.com/volunteerhub/event-service/internal/repositories"
)

type EventRolePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewEventRolePostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.EventRoleRepository {
	return &EventRolePostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// Create creates a new event role
func (r *EventRolePostgreSQL) Create(ctx context.Context, role *models.EventRole) error {
	if err := r.db.WithContext(ctx).Create(role).Error; err != nil {
		return fmt.Errorf("failed to create event role: %w", err)
	}

	cache.InvalidateEventCache(ctx, r.cacheManager, role.EventID)

	return nil
}

// GetByID retrieves an event role by ID
func (r *EventRolePostgreSQL) GetByID(ctx context.Context, id uint) (*models.EventRole, error) {
	var role models.EventRole
	if err := r.db.WithContext(ctx).First(&role, id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// GetForUpdate loads a role with a FOR UPDATE row lock. Concurrent signups
// for the same role serialize on this lock, so the capacity check and the
// following insert are atomic. Must run inside WithTransaction.
func (r *EventRolePostgreSQL) GetForUpdate(ctx context.Context, id uint) (*models.EventRole, error) {
	var role models.EventRole
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&role, id).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// Update replaces the mutable fields of a role
func (r *EventRolePostgreSQL) Update(ctx context.Context, role *models.EventRole) error {
	err := r.db.WithContext(ctx).
		Model(&models.EventRole{}).
		Where("id = ?", role.ID).
		Updates(map[string]interface{}{
			"name":            role.Name,
			"description":     role.Description,
			"capacity":        role.Capacity,
			"skills_required": role.SkillsRequired,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update event role: %w", err)
	}

	cache.InvalidateEventCache(ctx, r.cacheManager, role.EventID)

	return nil
}

// Delete removes an event role. Callers must refuse the delete while active
// registrants hold the role.
func (r *EventRolePostgreSQL) Delete(ctx context.Context, id uint) error {
	var role models.EventRole
	if err := r.db.WithContext(ctx).Select("id, event_id").First(&role, id).Error; err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Delete(&models.EventRole{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete event role: %w", err)
	}

	cache.InvalidateEventCache(ctx, r.cacheManager, role.EventID)

	return nil
}

// ListByEvent retrieves all roles of an event
func (r *EventRolePostgreSQL) ListByEvent(ctx context.Context, eventID uint) ([]*models.EventRole, error) {
	var roles []*models.EventRole
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("id ASC").
		Find(&roles).Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}
