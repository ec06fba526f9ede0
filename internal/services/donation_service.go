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

type donationService struct {
	repo           repositories.Repository
	db             *gorm.DB
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher
}

func NewDonationService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) DonationService {
	return &donationService{
		repo:           repo,
		db:             db,
		logger:         logger,
		validator:      validator,
		eventPublisher: publisher,
	}
}

// Create records a donation. Monetary donations carry an amount, in-kind
// donations a quantity; the event must accept donations. A nil UserID is an
// anonymous donor.
func (s *donationService) Create(ctx context.Context, req *DonationCreateRequest) (*models.Donation, error) {
	s.logger.Info("Recording donation", "event_id", req.EventID, "donation_type_id", req.DonationTypeID)

	if errs := s.validator.GetBusinessValidator().ValidateDonationCreate(req); len(errs) > 0 {
		return nil, errs
	}

	event, err := s.repo.Event().GetByID(ctx, req.EventID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if !event.EventType.AcceptsDonations() {
		return nil, NewConflictError(ErrEventNoDonation, string(event.EventType))
	}

	if _, err := s.repo.Donation().GetTypeByID(ctx, req.DonationTypeID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrDonationTypeNotFound
		}
		return nil, fmt.Errorf("failed to get donation type: %w", err)
	}

	donation := &models.Donation{
		EventID:         req.EventID,
		UserID:          req.UserID,
		DonationTypeID:  req.DonationTypeID,
		Amount:          req.Amount,
		Quantity:        req.Quantity,
		ItemDescription: req.ItemDescription,
		Status:          models.DonationPending,
	}

	if err := s.repo.Donation().Create(ctx, donation); err != nil {
		return nil, fmt.Errorf("failed to create donation: %w", err)
	}

	s.publish(ctx, events.NewEvent(events.EventDonationRecorded, events.DonationEventData{
		DonationID:     donation.ID,
		EventID:        donation.EventID,
		UserID:         donation.UserID,
		DonationTypeID: donation.DonationTypeID,
		Amount:         donation.Amount,
		Quantity:       donation.Quantity,
		Status:         string(donation.Status),
	}))

	s.logger.Info("Donation recorded", "donation_id", donation.ID)

	return donation, nil
}

// UpdateStatus confirms or distributes a donation. Totals only count
// received and distributed donations, so this is where contributions start
// showing in the progress.
func (s *donationService) UpdateStatus(ctx context.Context, id uint, req *DonationStatusRequest) (*models.Donation, error) {
	if errs := s.validator.GetBusinessValidator().Validate(req); len(errs) > 0 {
		return nil, errs
	}

	donation, err := s.repo.Donation().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrDonationNotFound
		}
		return nil, fmt.Errorf("failed to get donation: %w", err)
	}

	if err := s.repo.Donation().UpdateStatus(ctx, id, req.Status); err != nil {
		return nil, fmt.Errorf("failed to update donation status: %w", err)
	}

	donation.Status = req.Status

	s.publish(ctx, events.NewEvent(events.EventDonationStatusChanged, events.DonationEventData{
		DonationID:     donation.ID,
		EventID:        donation.EventID,
		UserID:         donation.UserID,
		DonationTypeID: donation.DonationTypeID,
		Amount:         donation.Amount,
		Quantity:       donation.Quantity,
		Status:         string(req.Status),
	}))

	s.logger.Info("Donation status updated", "donation_id", id, "status", req.Status)

	return donation, nil
}

func (s *donationService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Donation().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrDonationNotFound
		}
		return fmt.Errorf("failed to delete donation: %w", err)
	}

	s.logger.Info("Donation deleted", "donation_id", id)

	return nil
}

func (s *donationService) List(ctx context.Context, filters repositories.DonationFilters) (*DonationListResponse, error) {
	donations, total, err := s.repo.Donation().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list donations: %w", err)
	}

	page := 1
	if filters.Limit > 0 {
		page = filters.Offset/filters.Limit + 1
	}

	return &DonationListResponse{
		Donations: donations,
		Total:     total,
		Page:      page,
		Size:      len(donations),
	}, nil
}

func (s *donationService) ListByUser(ctx context.Context, userID uint) ([]*models.Donation, error) {
	donations, err := s.repo.Donation().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list donations: %w", err)
	}
	return donations, nil
}

// GetEventSummary aggregates confirmed donations against the event's goal
func (s *donationService) GetEventSummary(ctx context.Context, eventID uint) (*models.DonationSummary, error) {
	event, err := s.repo.Event().GetByID(ctx, eventID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	totals, err := s.repo.Donation().GetMonetaryTotals(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get donation totals: %w", err)
	}

	counts, err := s.repo.Donation().GetCountsByType(ctx, eventID)
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

func (s *donationService) ListTypes(ctx context.Context) ([]*models.DonationType, error) {
	types, err := s.repo.Donation().ListTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list donation types: %w", err)
	}
	return types, nil
}

func (s *donationService) CreateType(ctx context.Context, name string, unitOfMeasure *string) (*models.DonationType, error) {
	if name == "" {
		return nil, ErrValidationFailed
	}

	donationType := &models.DonationType{
		Name:          name,
		UnitOfMeasure: unitOfMeasure,
	}

	if err := s.repo.Donation().CreateType(ctx, donationType); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return nil, NewConflictError(ErrValidationFailed, "donation type name already exists")
		}
		return nil, fmt.Errorf("failed to create donation type: %w", err)
	}

	s.logger.Info("Donation type created", "donation_type_id", donationType.ID, "name", name)

	return donationType, nil
}

func (s *donationService) publish(ctx context.Context, event *events.Event) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish event", "error", err, "event_type", event.Type)
	}
}
