package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/volunteerhub/event-service/internal/models"
	"github.com/volunteerhub/event-service/internal/repositories"
)

type AvailabilityPostgreSQL struct {
	db *gorm.DB
}

func NewAvailabilityPostgreSQL(db *gorm.DB) repositories.AvailabilityRepository {
	return &AvailabilityPostgreSQL{db: db}
}

// ReplaceForUserEvent deletes all slots the user declared for the event and
// inserts the new set in one transaction
func (a *AvailabilityPostgreSQL) ReplaceForUserEvent(ctx context.Context, userID, eventID uint, slots []*models.UserAvailability) error {
	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND event_id = ?", userID, eventID).
			Delete(&models.UserAvailability{}).Error
		if err != nil {
			return fmt.Errorf("failed to clear availability: %w", err)
		}

		if len(slots) == 0 {
			return nil
		}

		for _, slot := range slots {
			slot.UserID = userID
			slot.EventID = eventID
		}

		if err := tx.Create(&slots).Error; err != nil {
			return fmt.Errorf("failed to insert availability slots: %w", err)
		}

		return nil
	})
}

// ListByUserAndEvent retrieves the slots a user declared for an event
func (a *AvailabilityPostgreSQL) ListByUserAndEvent(ctx context.Context, userID, eventID uint) ([]*models.UserAvailability, error) {
	var slots []*models.UserAvailability
	err := a.db.WithContext(ctx).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Order("availability_date ASC, start_time ASC").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

// ListByEvent retrieves all declared slots for an event with user details,
// for the admin scheduling view
func (a *AvailabilityPostgreSQL) ListByEvent(ctx context.Context, eventID uint) ([]*models.UserAvailability, error) {
	var slots []*models.UserAvailability
	err := a.db.WithContext(ctx).
		Table("user_availability").
		Select("user_availability.*, users.username, users.full_name").
		Joins("JOIN users ON users.id = user_availability.user_id").
		Where("user_availability.event_id = ?", eventID).
		Order("user_availability.availability_date ASC, user_availability.start_time ASC").
		Scan(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

// DeleteByUserAndEvent removes all slots a user declared for an event
func (a *AvailabilityPostgreSQL) DeleteByUserAndEvent(ctx context.Context, userID, eventID uint) error {
	err := a.db.WithContext(ctx).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Delete(&models.UserAvailability{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete availability: %w", err)
	}
	return nil
}
