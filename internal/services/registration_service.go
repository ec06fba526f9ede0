package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/volunteerhub/event-service/internal/events"
	"github.com/volunteerhub/event-service/internal/models"
	"github.com/volunteerhub/event-service/internal/repositories"
	"github.com/volunteerhub/event-service/internal/validator"
)

type registrationService struct {
	repo           repositories.Repository
	db             *gorm.DB
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher
}

func NewRegistrationService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) RegistrationService {
	return &registrationService{
		repo:           repo,
		db:             db,
		logger:         logger,
		validator:      validator,
		eventPublisher: publisher,
	}
}

// ===== SIGNUP PATHS =====

// Register signs a user up for an event, optionally into a role. When a role
// is requested, the capacity check and the insert run in one transaction
// under a row lock on the role, so two concurrent signups for the last spot
// cannot both succeed.
func (s *registrationService) Register(ctx context.Context, userID uint, req *RegisterRequest) (*RegistrationResult, error) {
	s.logger.Info("Registering for event", "user_id", userID, "event_id", req.EventID, "role_id", req.RoleID)

	if errs := s.validator.GetBusinessValidator().Validate(req); len(errs) > 0 {
		return nil, errs
	}

	// An admin acting through the header gate may name any user ID, so the
	// account must be verified before anything is inserted.
	if _, err := s.repo.User().GetByID(ctx, userID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	event, err := s.loadActiveEvent(ctx, req.EventID)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.Registration().GetByUserAndEvent(ctx, userID, req.EventID); err == nil {
		return nil, NewConflictError(ErrAlreadyRegistered, fmt.Sprintf("event %d", req.EventID))
	} else if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check existing registration: %w", err)
	}

	registration := &models.Registration{
		UserID:  userID,
		EventID: event.ID,
		RoleID:  req.RoleID,
		Status:  models.RegistrationPending,
	}

	result := &RegistrationResult{Registration: registration}

	if req.RoleID == nil {
		// General attendance, no capacity involved
		if err := s.repo.Registration().Create(ctx, registration); err != nil {
			if repositories.IsDuplicateKeyError(err) {
				return nil, NewConflictError(ErrAlreadyRegistered, fmt.Sprintf("event %d", req.EventID))
			}
			return nil, fmt.Errorf("failed to create registration: %w", err)
		}
	} else {
		role, err := s.registerWithRole(ctx, registration, event.ID, *req.RoleID)
		if err != nil {
			return nil, err
		}
		result.Role = role
	}

	s.publish(ctx, events.NewEvent(events.EventRegistrationCreated, events.RegistrationEventData{
		RegistrationID: registration.ID,
		UserID:         userID,
		EventID:        event.ID,
		RoleID:         registration.RoleID,
		Status:         string(registration.Status),
	}))

	s.logger.Info("Registration created", "registration_id", registration.ID)

	return result, nil
}

// SignupForRole is the role-first path; identical to Register except the
// role is mandatory
func (s *registrationService) SignupForRole(ctx context.Context, userID uint, req *RoleSignupRequest) (*RegistrationResult, error) {
	if errs := s.validator.GetBusinessValidator().Validate(req); len(errs) > 0 {
		return nil, errs
	}

	roleID := req.RoleID
	return s.Register(ctx, userID, &RegisterRequest{EventID: req.EventID, RoleID: &roleID})
}

// ChangeRole moves an existing registration to another role of the same
// event, checking the target role's capacity under the same row lock
func (s *registrationService) ChangeRole(ctx context.Context, userID uint, req *RoleChangeRequest) (*RegistrationResult, error) {
	s.logger.Info("Changing registration role", "user_id", userID, "event_id", req.EventID, "role_id", req.RoleID)

	if errs := s.validator.GetBusinessValidator().Validate(req); len(errs) > 0 {
		return nil, errs
	}

	registration, err := s.repo.Registration().GetByUserAndEvent(ctx, userID, req.EventID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}

	if !registration.Status.IsActive() {
		return nil, ErrRegistrationNotActive
	}

	if registration.RoleID != nil && *registration.RoleID == req.RoleID {
		return &RegistrationResult{Registration: registration}, nil
	}

	previousRoleID := registration.RoleID

	var newRole *models.EventRole
	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		role, err := tx.EventRole().GetForUpdate(ctx, req.RoleID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrRoleNotFound
			}
			return fmt.Errorf("failed to lock role: %w", err)
		}
		if role.EventID != req.EventID {
			return ErrRoleWrongEvent
		}

		filled, err := tx.Registration().CountActiveByRole(ctx, role.ID)
		if err != nil {
			return fmt.Errorf("failed to count registrations: %w", err)
		}
		if int(filled) >= role.Capacity {
			return NewConflictError(ErrRoleFull, role.Name)
		}

		if err := tx.Registration().UpdateRole(ctx, registration.ID, &req.RoleID); err != nil {
			return err
		}

		role.SetOccupancy(int(filled) + 1)
		newRole = role
		return nil
	})
	if err != nil {
		return nil, err
	}

	registration.RoleID = &req.RoleID

	result := &RegistrationResult{Registration: registration, Role: newRole}
	if previousRoleID != nil {
		result.FreedRole = s.freedRoleOccupancy(ctx, *previousRoleID)
	}

	s.publish(ctx, events.NewEvent(events.EventRegistrationRoleChanged, events.RegistrationEventData{
		RegistrationID: registration.ID,
		UserID:         userID,
		EventID:        req.EventID,
		RoleID:         registration.RoleID,
		Status:         string(registration.Status),
	}))

	return result, nil
}

// Cancel removes the user's registration and reports the freed role's
// occupancy, recomputed after the delete
func (s *registrationService) Cancel(ctx context.Context, userID, eventID uint) (*CancelResult, error) {
	s.logger.Info("Cancelling registration", "user_id", userID, "event_id", eventID)

	registration, err := s.repo.Registration().GetByUserAndEvent(ctx, userID, eventID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}

	if err := s.repo.Registration().Delete(ctx, registration.ID); err != nil {
		return nil, fmt.Errorf("failed to delete registration: %w", err)
	}

	result := &CancelResult{}
	if registration.RoleID != nil {
		result.FreedRole = s.freedRoleOccupancy(ctx, *registration.RoleID)
	}

	s.publish(ctx, events.NewEvent(events.EventRegistrationCancelled, events.RegistrationEventData{
		RegistrationID: registration.ID,
		UserID:         userID,
		EventID:        eventID,
		RoleID:         registration.RoleID,
		Status:         string(registration.Status),
	}))

	s.logger.Info("Registration cancelled", "registration_id", registration.ID)

	return result, nil
}

// CancelRole is the role-scoped unregister path. It refuses when the user's
// registration does not hold the given role.
func (s *registrationService) CancelRole(ctx context.Context, userID, eventID, roleID uint) (*CancelResult, error) {
	registration, err := s.repo.Registration().GetByUserAndEvent(ctx, userID, eventID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}

	if registration.RoleID == nil || *registration.RoleID != roleID {
		return nil, ErrRegistrationNotFound
	}

	return s.Cancel(ctx, userID, eventID)
}

// ===== STATUS MANAGEMENT =====

// UpdateStatus moves a registration along the transition table. Admin only.
func (s *registrationService) UpdateStatus(ctx context.Context, registrationID uint, req *RegistrationStatusRequest, actor *models.User) (*models.Registration, error) {
	if actor == nil || !actor.IsAdmin() {
		actorID := uint(0)
		if actor != nil {
			actorID = actor.ID
		}
		return nil, NewPermissionError(actorID, registrationID, "registration", "update_status", "admin role required")
	}

	if errs := s.validator.GetBusinessValidator().Validate(req); len(errs) > 0 {
		return nil, errs
	}

	registration, err := s.repo.Registration().GetByID(ctx, registrationID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}

	if errs := s.validator.GetBusinessValidator().ValidateStatusTransition(registration.Status, req.Status); len(errs) > 0 {
		return nil, NewConflictError(ErrInvalidTransition,
			fmt.Sprintf("%s to %s", registration.Status, req.Status))
	}

	previous := registration.Status

	// Reopening a declined signup competes for capacity again, so the role
	// must be re-checked under the lock.
	if registration.RoleID != nil && !previous.IsActive() && req.Status.IsActive() {
		err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
			role, err := tx.EventRole().GetForUpdate(ctx, *registration.RoleID)
			if err != nil {
				return fmt.Errorf("failed to lock role: %w", err)
			}

			filled, err := tx.Registration().CountActiveByRole(ctx, role.ID)
			if err != nil {
				return fmt.Errorf("failed to count registrations: %w", err)
			}
			if int(filled) >= role.Capacity {
				return NewConflictError(ErrRoleFull, role.Name)
			}

			return tx.Registration().UpdateStatus(ctx, registrationID, req.Status)
		})
	} else {
		err = s.repo.Registration().UpdateStatus(ctx, registrationID, req.Status)
	}
	if err != nil {
		return nil, err
	}

	registration.Status = req.Status

	prevStr := string(previous)
	s.publish(ctx, events.NewEvent(events.EventRegistrationStatusChanged, events.RegistrationEventData{
		RegistrationID: registration.ID,
		UserID:         registration.UserID,
		EventID:        registration.EventID,
		RoleID:         registration.RoleID,
		Status:         string(req.Status),
		PreviousStatus: &prevStr,
	}))

	s.logger.Info("Registration status updated",
		"registration_id", registrationID,
		"from", previous,
		"to", req.Status,
		"actor_id", actor.ID)

	return registration, nil
}

// ===== VIEWS =====

func (s *registrationService) ListUserEvents(ctx context.Context, userID uint) ([]*models.RegisteredEvent, error) {
	registered, err := s.repo.Registration().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	return registered, nil
}

func (s *registrationService) ListEventRegistrants(ctx context.Context, eventID uint, filters repositories.RegistrationFilters) (*RegistrantListResponse, error) {
	exists, err := s.repo.Event().Exists(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to check event: %w", err)
	}
	if !exists {
		return nil, ErrEventNotFound
	}

	registrants, total, err := s.repo.Registration().ListByEvent(ctx, eventID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrants: %w", err)
	}

	return &RegistrantListResponse{Registrants: registrants, Total: total}, nil
}

// ===== HELPERS =====

func (s *registrationService) loadActiveEvent(ctx context.Context, eventID uint) (*models.Event, error) {
	event, err := s.repo.Event().GetByID(ctx, eventID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if !event.IsActive {
		return nil, ErrEventInactive
	}
	return event, nil
}

// registerWithRole locks the role, verifies capacity and inserts, all in one
// transaction. Returns the role with its post-insert occupancy.
func (s *registrationService) registerWithRole(ctx context.Context, registration *models.Registration, eventID, roleID uint) (*models.EventRole, error) {
	var locked *models.EventRole
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		role, err := tx.EventRole().GetForUpdate(ctx, roleID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrRoleNotFound
			}
			return fmt.Errorf("failed to lock role: %w", err)
		}
		if role.EventID != eventID {
			return ErrRoleWrongEvent
		}

		filled, err := tx.Registration().CountActiveByRole(ctx, role.ID)
		if err != nil {
			return fmt.Errorf("failed to count registrations: %w", err)
		}
		if int(filled) >= role.Capacity {
			return NewConflictError(ErrRoleFull, role.Name)
		}

		if err := tx.Registration().Create(ctx, registration); err != nil {
			if repositories.IsDuplicateKeyError(err) {
				return NewConflictError(ErrAlreadyRegistered, fmt.Sprintf("event %d", eventID))
			}
			return fmt.Errorf("failed to create registration: %w", err)
		}

		role.SetOccupancy(int(filled) + 1)
		locked = role
		return nil
	})
	if err != nil {
		return nil, err
	}
	return locked, nil
}

// freedRoleOccupancy recounts a role after its holder left. The occupancy is
// informational, so failures are logged rather than failing the operation.
func (s *registrationService) freedRoleOccupancy(ctx context.Context, roleID uint) *models.FreedRole {
	role, err := s.repo.EventRole().GetByID(ctx, roleID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load freed role", "error", err, "role_id", roleID)
		return nil
	}

	filled, err := s.repo.Registration().CountActiveByRole(ctx, role.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to recount freed role", "error", err, "role_id", roleID)
		return nil
	}

	role.SetOccupancy(int(filled))
	return &models.FreedRole{
		ID:             role.ID,
		Name:           role.Name,
		Capacity:       role.Capacity,
		FilledSpots:    role.FilledSpots,
		AvailableSpots: role.AvailableSpots,
	}
}

func (s *registrationService) publish(ctx context.Context, event *events.Event) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish event", "error", err, "event_type", event.Type)
	}
}
