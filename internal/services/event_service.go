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

type eventService struct {
	repo           repositories.Repository
	db             *gorm.DB
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher
}

func NewEventService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) EventService {
	return &eventService{
		repo:           repo,
		db:             db,
		logger:         logger,
		validator:      validator,
		eventPublisher: publisher,
	}
}

// ===== CORE CRUD OPERATIONS =====

// Create creates an event together with its roles in one transaction
func (s *eventService) Create(ctx context.Context, req *CreateEventRequest) (*models.Event, error) {
	s.logger.Info("Creating event", "name", req.Name, "event_type", req.EventType)

	if errs := s.validator.GetBusinessValidator().ValidateEventCreate(&req.EventCreateRequest); len(errs) > 0 {
		return nil, errs
	}
	for _, role := range req.Roles {
		if errs := s.validator.GetBusinessValidator().Validate(&role); len(errs) > 0 {
			return nil, errs
		}
	}

	event := s.buildEvent(req)
	for _, roleReq := range req.Roles {
		event.Roles = append(event.Roles, models.EventRole{
			Name:           roleReq.Name,
			Description:    roleReq.Description,
			Capacity:       roleReq.Capacity,
			SkillsRequired: roleReq.SkillsRequired,
		})
	}

	if err := s.repo.Event().Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.publish(ctx, events.NewEvent(events.EventEventCreated, events.EventLifecycleData{
		EventID:   event.ID,
		Name:      event.Name,
		EventType: string(event.EventType),
	}))

	s.logger.Info("Event created", "event_id", event.ID, "roles", len(event.Roles))

	return event, nil
}

func (s *eventService) GetByID(ctx context.Context, id uint) (*models.Event, error) {
	event, err := s.repo.Event().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

// GetDetail returns the event with occupancy-filled roles and, for events
// that accept donations, the donation summary
func (s *eventService) GetDetail(ctx context.Context, id uint) (*models.EventDetail, error) {
	event, err := s.repo.Event().GetByIDWithRoles(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	roles, err := s.fillOccupancy(ctx, event.Roles)
	if err != nil {
		return nil, err
	}

	detail := &models.EventDetail{
		Event:              *event,
		RolesWithOccupancy: roles,
	}
	detail.Event.Roles = nil

	if event.EventType.AcceptsDonations() {
		summary, err := s.donationSummary(ctx, event)
		if err != nil {
			return nil, err
		}
		detail.DonationSummary = summary
	}

	return detail, nil
}

func (s *eventService) Update(ctx context.Context, id uint, req *UpdateEventRequest) (*models.Event, error) {
	if errs := s.validator.GetBusinessValidator().ValidateEventCreate(req); len(errs) > 0 {
		return nil, errs
	}

	existing, err := s.repo.Event().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	event := s.buildEvent(&CreateEventRequest{EventCreateRequest: *req})
	event.ID = existing.ID
	if req.IsActive == nil {
		// An omitted flag keeps the current activation state; only an
		// explicit value may reactivate a deactivated event.
		event.IsActive = existing.IsActive
	}

	if err := s.repo.Event().Update(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	s.logger.Info("Event updated", "event_id", id)

	return s.repo.Event().GetByID(ctx, id)
}

func (s *eventService) Delete(ctx context.Context, id uint) error {
	event, err := s.repo.Event().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to get event: %w", err)
	}

	if err := s.repo.Event().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	s.publish(ctx, events.NewEvent(events.EventEventDeleted, events.EventLifecycleData{
		EventID:   event.ID,
		Name:      event.Name,
		EventType: string(event.EventType),
	}))

	s.logger.Info("Event deleted", "event_id", id)

	return nil
}

// ===== LIST AND SEARCH =====

func (s *eventService) List(ctx context.Context, filters repositories.EventFilters) (*EventListResponse, error) {
	eventList, total, err := s.repo.Event().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return s.buildListResponse(eventList, total, filters), nil
}

func (s *eventService) Search(ctx context.Context, query string, filters repositories.EventFilters) (*EventListResponse, error) {
	eventList, total, err := s.repo.Event().Search(ctx, query, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to search events: %w", err)
	}
	return s.buildListResponse(eventList, total, filters), nil
}

// ===== ROLE MANAGEMENT =====

func (s *eventService) ListRoles(ctx context.Context, eventID uint) ([]*models.EventRole, error) {
	exists, err := s.repo.Event().Exists(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to check event: %w", err)
	}
	if !exists {
		return nil, ErrEventNotFound
	}

	roles, err := s.repo.EventRole().ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}

	roleValues := make([]models.EventRole, len(roles))
	for i, r := range roles {
		roleValues[i] = *r
	}
	filled, err := s.fillOccupancy(ctx, roleValues)
	if err != nil {
		return nil, err
	}

	out := make([]*models.EventRole, len(filled))
	for i := range filled {
		out[i] = &filled[i]
	}
	return out, nil
}

func (s *eventService) AddRole(ctx context.Context, eventID uint, req *EventRoleRequest) (*models.EventRole, error) {
	if errs := s.validator.GetBusinessValidator().Validate(req); len(errs) > 0 {
		return nil, errs
	}

	exists, err := s.repo.Event().Exists(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to check event: %w", err)
	}
	if !exists {
		return nil, ErrEventNotFound
	}

	role := &models.EventRole{
		EventID:        eventID,
		Name:           req.Name,
		Description:    req.Description,
		Capacity:       req.Capacity,
		SkillsRequired: req.SkillsRequired,
	}

	if err := s.repo.EventRole().Create(ctx, role); err != nil {
		return nil, fmt.Errorf("failed to create role: %w", err)
	}

	role.SetOccupancy(0)

	s.logger.Info("Event role created", "event_id", eventID, "role_id", role.ID)

	return role, nil
}

func (s *eventService) UpdateRole(ctx context.Context, eventID, roleID uint, req *EventRoleRequest) (*models.EventRole, error) {
	if errs := s.validator.GetBusinessValidator().Validate(req); len(errs) > 0 {
		return nil, errs
	}

	role, err := s.getEventRole(ctx, eventID, roleID)
	if err != nil {
		return nil, err
	}

	// Capacity may shrink below current occupancy; existing signups stay,
	// the role just stops accepting new ones.
	role.Name = req.Name
	role.Description = req.Description
	role.Capacity = req.Capacity
	role.SkillsRequired = req.SkillsRequired

	if err := s.repo.EventRole().Update(ctx, role); err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	filled, err := s.repo.Registration().CountActiveByRole(ctx, roleID)
	if err != nil {
		return nil, fmt.Errorf("failed to count registrations: %w", err)
	}
	role.SetOccupancy(int(filled))

	s.logger.Info("Event role updated", "event_id", eventID, "role_id", roleID)

	return role, nil
}

// DeleteRole refuses to remove a role while active registrants hold it
func (s *eventService) DeleteRole(ctx context.Context, eventID, roleID uint) error {
	if _, err := s.getEventRole(ctx, eventID, roleID); err != nil {
		return err
	}

	occupied, err := s.repo.Registration().ExistsActiveForRole(ctx, roleID)
	if err != nil {
		return fmt.Errorf("failed to check registrations: %w", err)
	}
	if occupied {
		return NewConflictError(ErrRoleHasSignups, "reassign or cancel registrants first")
	}

	if err := s.repo.EventRole().Delete(ctx, roleID); err != nil {
		return fmt.Errorf("failed to delete role: %w", err)
	}

	s.logger.Info("Event role deleted", "event_id", eventID, "role_id", roleID)

	return nil
}

// ===== STATISTICS =====

func (s *eventService) GetStats(ctx context.Context, id uint) (*repositories.EventStats, error) {
	exists, err := s.repo.Event().Exists(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check event: %w", err)
	}
	if !exists {
		return nil, ErrEventNotFound
	}

	stats, err := s.repo.Event().GetStats(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get event stats: %w", err)
	}
	return stats, nil
}

// ===== HELPERS =====

func (s *eventService) buildEvent(req *CreateEventRequest) *models.Event {
	eventType := req.EventType
	if eventType == "" {
		eventType = models.EventVolunteer
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	return &models.Event{
		Name:                    req.Name,
		Host:                    req.Host,
		Category:                req.Category,
		Description:             req.Description,
		StartDate:               req.StartDate,
		EndDate:                 req.EndDate,
		EventType:               eventType,
		DonationGoal:            req.DonationGoal,
		DonationGoalDescription: req.DonationGoalDescription,
		IsActive:                isActive,
	}
}

func (s *eventService) buildListResponse(eventList []*models.Event, total int64, filters repositories.EventFilters) *EventListResponse {
	page := 1
	if filters.Limit > 0 {
		page = filters.Offset/filters.Limit + 1
	}
	return &EventListResponse{
		Events: eventList,
		Total:  total,
		Page:   page,
		Size:   len(eventList),
	}
}

// fillOccupancy resolves per-role active counts in one query and fills the
// derived spot fields
func (s *eventService) fillOccupancy(ctx context.Context, roles []models.EventRole) ([]models.EventRole, error) {
	if len(roles) == 0 {
		return roles, nil
	}

	ids := make([]uint, len(roles))
	for i, r := range roles {
		ids[i] = r.ID
	}

	counts, err := s.repo.Registration().CountActiveByRoles(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count registrations: %w", err)
	}

	for i := range roles {
		roles[i].SetOccupancy(int(counts[roles[i].ID]))
	}

	return roles, nil
}

func (s *eventService) donationSummary(ctx context.Context, event *models.Event) (*models.DonationSummary, error) {
	totals, err := s.repo.Donation().GetMonetaryTotals(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get donation totals: %w", err)
	}

	counts, err := s.repo.Donation().GetCountsByType(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get donation counts: %w", err)
	}

	goal := 0.0
	if event.DonationGoal != nil {
		goal = *event.DonationGoal
	}

	return &models.DonationSummary{
		Goal:               goal,
		TotalAmount:        totals.TotalAmount,
		ProgressPercentage: models.DonationProgress(goal, totals.TotalAmount),
		DonationCounts:     counts,
	}, nil
}

func (s *eventService) getEventRole(ctx context.Context, eventID, roleID uint) (*models.EventRole, error) {
	role, err := s.repo.EventRole().GetByID(ctx, roleID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to get role: %w", err)
	}
	if role.EventID != eventID {
		return nil, ErrRoleWrongEvent
	}
	return role, nil
}

func (s *eventService) publish(ctx context.Context, event *events.Event) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish event", "error", err, "event_type", event.Type)
	}
}
