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

var eventSortColumns = map[string]bool{
	"start_date": true,
	"name":       true,
	"created_at": true,
}

type EventPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewEventPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.EventRepository {
	return &EventPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// Create creates a new event together with its roles and invalidates listings
func (e *EventPostgreSQL) Create(ctx context.Context, event *models.Event) error {
	if err := e.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	cache.SafeInvalidatePattern(ctx, e.cacheManager.Event, "list:*")

	return nil
}

// GetByID retrieves an event by ID with caching
func (e *EventPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Event, error) {
	cacheKey := fmt.Sprintf("id:%d", id)
	var event models.Event

	err := e.cacheManager.Event.CacheOrExecute(ctx, cacheKey, &event, cache.EventCacheConfig.TTL, func() (interface{}, error) {
		var dbEvent models.Event
		if err := e.db.WithContext(ctx).First(&dbEvent, id).Error; err != nil {
			return nil, err
		}
		return &dbEvent, nil
	})

	if err != nil {
		return nil, err
	}

	return &event, nil
}

// GetByIDWithRoles retrieves an event with its roles preloaded. Occupancy is
// left to the caller; counts depend on live registrations and are not cached
// with the event.
func (e *EventPostgreSQL) GetByIDWithRoles(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	err := e.db.WithContext(ctx).
		Preload("Roles", func(db *gorm.DB) *gorm.DB {
			return db.Order("event_roles.id ASC")
		}).
		First(&event, id).Error
	if err != nil {
		return nil, err
	}

	return &event, nil
}

// Update replaces the mutable fields of an event and invalidates cache
func (e *EventPostgreSQL) Update(ctx context.Context, event *models.Event) error {
	err := e.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("id = ?", event.ID).
		Updates(map[string]interface{}{
			"name":                      event.Name,
			"host":                      event.Host,
			"category":                  event.Category,
			"description":               event.Description,
			"start_date":                event.StartDate,
			"end_date":                  event.EndDate,
			"event_type":                event.EventType,
			"donation_goal":             event.DonationGoal,
			"donation_goal_description": event.DonationGoalDescription,
			"is_active":                 event.IsActive,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}

	cache.InvalidateEventCache(ctx, e.cacheManager, event.ID)

	return nil
}

// Delete hard deletes an event; roles, registrations, donations and
// availability cascade at the database level
func (e *EventPostgreSQL) Delete(ctx context.Context, id uint) error {
	if err := e.db.WithContext(ctx).Delete(&models.Event{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	cache.InvalidateEventCache(ctx, e.cacheManager, id)
	cache.InvalidateDonationCache(ctx, e.cacheManager, id)

	return nil
}

// List retrieves events with filters and pagination
func (e *EventPostgreSQL) List(ctx context.Context, filters repositories.EventFilters) ([]*models.Event, int64, error) {
	query := e.db.WithContext(ctx).Model(&models.Event{})
	query = e.helpers.ApplyEventFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = e.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder,
		eventSortColumns, "start_date ASC", filters.Limit, filters.Offset)

	var events []*models.Event
	if err := query.Find(&events).Error; err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

// Search performs a case-insensitive search on event name, host and category
func (e *EventPostgreSQL) Search(ctx context.Context, query string, filters repositories.EventFilters) ([]*models.Event, int64, error) {
	db := e.db.WithContext(ctx).Model(&models.Event{})

	if query != "" {
		like := fmt.Sprintf("%%%s%%", query)
		db = db.Where("name ILIKE ? OR host ILIKE ? OR category ILIKE ?", like, like, like)
	}

	db = e.helpers.ApplyEventFilters(db, filters)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	db = e.helpers.ApplyPaginationAndSort(db, filters.SortBy, filters.SortOrder,
		eventSortColumns, "start_date ASC", filters.Limit, filters.Offset)

	var events []*models.Event
	if err := db.Find(&events).Error; err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

// Exists checks whether an event exists
func (e *EventPostgreSQL) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := e.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

// GetStats retrieves participation statistics for an event
func (e *EventPostgreSQL) GetStats(ctx context.Context, id uint) (*repositories.EventStats, error) {
	stats := &repositories.EventStats{
		StatusBreakdown: make(map[models.RegistrationStatus]int),
	}

	type statusRow struct {
		Status models.RegistrationStatus
		Count  int
	}
	var rows []statusRow
	err := e.db.WithContext(ctx).
		Model(&models.Registration{}).
		Select("status, COUNT(*) as count").
		Where("event_id = ?", id).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		stats.StatusBreakdown[row.Status] = row.Count
		stats.TotalRegistrations += row.Count
	}

	var roleCount, totalCapacity int64
	err = e.db.WithContext(ctx).
		Model(&models.EventRole{}).
		Select("COUNT(*), COALESCE(SUM(capacity), 0)").
		Where("event_id = ?", id).
		Row().
		Scan(&roleCount, &totalCapacity)
	if err != nil {
		return nil, err
	}

	var filled int64
	err = e.db.WithContext(ctx).
		Model(&models.Registration{}).
		Where("event_id = ? AND role_id IS NOT NULL AND status IN ?", id, models.ActiveStatuses).
		Count(&filled).Error
	if err != nil {
		return nil, err
	}

	stats.RoleCount = int(roleCount)
	stats.TotalCapacity = int(totalCapacity)
	stats.FilledSpots = int(filled)

	return stats, nil
}
