package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/volunteerhub/event-service/internal/models"
	"github.com/volunteerhub/event-service/internal/repositories"
	"github.com/volunteerhub/event-service/internal/validator"
)

type availabilityService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewAvailabilityService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) AvailabilityService {
	return &availabilityService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
	}
}

// Submit validates the declared slots against the event window and replaces
// whatever the user previously declared
func (s *availabilityService) Submit(ctx context.Context, userID uint, req *AvailabilityRequest) ([]*models.UserAvailability, error) {
	s.logger.Info("Submitting availability", "user_id", userID, "event_id", req.EventID, "slots", len(req.AvailabilitySlots))

	event, err := s.repo.Event().GetByID(ctx, req.EventID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	if errs := s.validator.GetBusinessValidator().ValidateAvailability(req, event); len(errs) > 0 {
		return nil, errs
	}

	slots := make([]*models.UserAvailability, 0, len(req.AvailabilitySlots))
	for _, slotReq := range req.AvailabilitySlots {
		slot, err := s.buildSlot(slotReq)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}

	if err := s.repo.Availability().ReplaceForUserEvent(ctx, userID, req.EventID, slots); err != nil {
		return nil, fmt.Errorf("failed to store availability: %w", err)
	}

	s.logger.Info("Availability stored", "user_id", userID, "event_id", req.EventID, "slots", len(slots))

	return slots, nil
}

func (s *availabilityService) GetForUser(ctx context.Context, userID, eventID uint) ([]*models.UserAvailability, error) {
	slots, err := s.repo.Availability().ListByUserAndEvent(ctx, userID, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list availability: %w", err)
	}
	return slots, nil
}

func (s *availabilityService) ListForEvent(ctx context.Context, eventID uint) ([]*models.UserAvailability, error) {
	exists, err := s.repo.Event().Exists(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to check event: %w", err)
	}
	if !exists {
		return nil, ErrEventNotFound
	}

	slots, err := s.repo.Availability().ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list availability: %w", err)
	}
	return slots, nil
}

func (s *availabilityService) Delete(ctx context.Context, userID, eventID uint) error {
	existing, err := s.repo.Availability().ListByUserAndEvent(ctx, userID, eventID)
	if err != nil {
		return fmt.Errorf("failed to list availability: %w", err)
	}
	if len(existing) == 0 {
		return ErrAvailabilityNotFound
	}

	if err := s.repo.Availability().DeleteByUserAndEvent(ctx, userID, eventID); err != nil {
		return fmt.Errorf("failed to delete availability: %w", err)
	}

	s.logger.Info("Availability deleted", "user_id", userID, "event_id", eventID)

	return nil
}

// buildSlot converts a validated request slot into a model row. Parse errors
// cannot happen after validation, but are handled anyway.
func (s *availabilityService) buildSlot(req validator.AvailabilitySlot) (*models.UserAvailability, error) {
	day, err := time.Parse("2006-01-02", req.AvailabilityDate)
	if err != nil {
		return nil, ErrValidationFailed
	}

	start, err := parseTimeOfDay(req.StartTime)
	if err != nil {
		return nil, ErrValidationFailed
	}
	end, err := parseTimeOfDay(req.EndTime)
	if err != nil {
		return nil, ErrValidationFailed
	}

	return &models.UserAvailability{
		AvailabilityDate: datatypes.Date(day),
		StartTime:        start,
		EndTime:          end,
	}, nil
}

func parseTimeOfDay(v string) (datatypes.Time, error) {
	t, err := time.Parse("15:04:05", v)
	if err != nil {
		t, err = time.Parse("15:04", v)
		if err != nil {
			return datatypes.Time(0), err
		}
	}
	return datatypes.NewTime(t.Hour(), t.Minute(), t.Second(), 0), nil
}
