package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"gorm.io/gorm"

	"github.com/volunteerhub/event-service/internal/events"
	"github.com/volunteerhub/event-service/internal/models"
	"github.com/volunteerhub/event-service/internal/validator"
)

func newTestRegistrationService(repo *fakeRepository) (RegistrationService, *events.MockEventPublisher) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	publisher := events.NewMockEventPublisher(logger)
	return NewRegistrationService(repo, nil, logger, validator.New(), publisher), publisher
}

func activeEvent(id uint) *models.Event {
	return &models.Event{
		ID:        id,
		Name:      "Community Cleanup",
		EventType: models.EventVolunteer,
		IsActive:  true,
	}
}

// withKnownUsers makes every user lookup succeed so signup tests can focus
// on the event and role preconditions.
func withKnownUsers(repo *fakeRepository) {
	repo.user.GetByIDFn = func(ctx context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, Username: "volunteer", Role: models.RoleMember}, nil
	}
}

func TestRegistrationService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("general attendance", func(t *testing.T) {
		repo := newFakeRepository()
		withKnownUsers(repo)
		repo.event.GetByIDFn = func(ctx context.Context, id uint) (*models.Event, error) {
			return activeEvent(id), nil
		}

		svc, publisher := newTestRegistrationService(repo)

		result, err := svc.Register(ctx, 7, &RegisterRequest{EventID: 1})
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if result.Registration.Status != models.RegistrationPending {
			t.Errorf("expected pending status, got %s", result.Registration.Status)
		}
		if result.Registration.RoleID != nil {
			t.Errorf("expected no role, got %v", *result.Registration.RoleID)
		}
		if result.Role != nil {
			t.Errorf("no role occupancy expected for general attendance, got %+v", result.Role)
		}

		published := publisher.GetPublishedEvents()
		if len(published) != 1 {
			t.Fatalf("expected 1 event, got %d", len(published))
		}
		if published[0].Type != events.EventRegistrationCreated {
			t.Errorf("expected %s, got %s", events.EventRegistrationCreated, published[0].Type)
		}
	})

	t.Run("role with free capacity", func(t *testing.T) {
		repo := newFakeRepository()
		withKnownUsers(repo)
		repo.event.GetByIDFn = func(ctx context.Context, id uint) (*models.Event, error) {
			return activeEvent(id), nil
		}
		repo.eventRole.GetForUpdateFn = func(ctx context.Context, id uint) (*models.EventRole, error) {
			return &models.EventRole{ID: id, EventID: 1, Name: "Driver", Capacity: 3}, nil
		}
		repo.registration.CountActiveByRoleFn = func(ctx context.Context, roleID uint) (int64, error) {
			return 2, nil
		}

		svc, _ := newTestRegistrationService(repo)

		roleID := uint(5)
		result, err := svc.Register(ctx, 7, &RegisterRequest{EventID: 1, RoleID: &roleID})
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if result.Registration.RoleID == nil || *result.Registration.RoleID != roleID {
			t.Errorf("expected role %d, got %v", roleID, result.Registration.RoleID)
		}
		// The response carries the occupancy including this signup.
		if result.Role == nil {
			t.Fatal("expected the role's occupancy in the result")
		}
		if result.Role.FilledSpots != 3 || result.Role.AvailableSpots != 0 {
			t.Errorf("got filled=%d available=%d, want 3/0", result.Role.FilledSpots, result.Role.AvailableSpots)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		repo := newFakeRepository()
		repo.event.GetByIDFn = func(ctx context.Context, id uint) (*models.Event, error) {
			return activeEvent(id), nil
		}

		svc, publisher := newTestRegistrationService(repo)

		_, err := svc.Register(ctx, 99, &RegisterRequest{EventID: 1})
		if !errors.Is(err, ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
		if len(publisher.GetPublishedEvents()) != 0 {
			t.Error("no event should be published for an unknown user")
		}
	})

	t.Run("role full", func(t *testing.T) {
		repo := newFakeRepository()
		withKnownUsers(repo)
		repo.event.GetByIDFn = func(ctx context.Context, id uint) (*models.Event, error) {
			return activeEvent(id), nil
		}
		repo.eventRole.GetForUpdateFn = func(ctx context.Context, id uint) (*models.EventRole, error) {
			return &models.EventRole{ID: id, EventID: 1, Name: "Driver", Capacity: 2}, nil
		}
		repo.registration.CountActiveByRoleFn = func(ctx context.Context, roleID uint) (int64, error) {
			return 2, nil
		}

		svc, publisher := newTestRegistrationService(repo)

		roleID := uint(5)
		_, err := svc.Register(ctx, 7, &RegisterRequest{EventID: 1, RoleID: &roleID})
		if !errors.Is(err, ErrRoleFull) {
			t.Fatalf("expected ErrRoleFull, got %v", err)
		}
		if len(publisher.GetPublishedEvents()) != 0 {
			t.Error("no event should be published on a failed signup")
		}
	})

	t.Run("role belongs to another event", func(t *testing.T) {
		repo := newFakeRepository()
		withKnownUsers(repo)
		repo.event.GetByIDFn = func(ctx context.Context, id uint) (*models.Event, error) {
			return activeEvent(id), nil
		}
		repo.eventRole.GetForUpdateFn = func(ctx context.Context, id uint) (*models.EventRole, error) {
			return &models.EventRole{ID: id, EventID: 99, Name: "Driver", Capacity: 2}, nil
		}

		svc, _ := newTestRegistrationService(repo)

		roleID := uint(5)
		_, err := svc.Register(ctx, 7, &RegisterRequest{EventID: 1, RoleID: &roleID})
		if !errors.Is(err, ErrRoleWrongEvent) {
			t.Fatalf("expected ErrRoleWrongEvent, got %v", err)
		}
	})

	t.Run("already registered", func(t *testing.T) {
		repo := newFakeRepository()
		withKnownUsers(repo)
		repo.event.GetByIDFn = func(ctx context.Context, id uint) (*models.Event, error) {
			return activeEvent(id), nil
		}
		repo.registration.GetByUserAndEventFn = func(ctx context.Context, userID, eventID uint) (*models.Registration, error) {
			return &models.Registration{ID: 1, UserID: userID, EventID: eventID}, nil
		}

		svc, _ := newTestRegistrationService(repo)

		_, err := svc.Register(ctx, 7, &RegisterRequest{EventID: 1})
		if !errors.Is(err, ErrAlreadyRegistered) {
			t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
		}
	})

	t.Run("inactive event", func(t *testing.T) {
		repo := newFakeRepository()
		withKnownUsers(repo)
		repo.event.GetByIDFn = func(ctx context.Context, id uint) (*models.Event, error) {
			event := activeEvent(id)
			event.IsActive = false
			return event, nil
		}

		svc, _ := newTestRegistrationService(repo)

		_, err := svc.Register(ctx, 7, &RegisterRequest{EventID: 1})
		if !errors.Is(err, ErrEventInactive) {
			t.Fatalf("expected ErrEventInactive, got %v", err)
		}
	})

	t.Run("missing event", func(t *testing.T) {
		repo := newFakeRepository()
		withKnownUsers(repo)

		svc, _ := newTestRegistrationService(repo)

		_, err := svc.Register(ctx, 7, &RegisterRequest{EventID: 42})
		if !errors.Is(err, ErrEventNotFound) {
			t.Fatalf("expected ErrEventNotFound, got %v", err)
		}
	})
}

func TestRegistrationService_ChangeRole(t *testing.T) {
	ctx := context.Background()

	t.Run("moves to a role with capacity", func(t *testing.T) {
		repo := newFakeRepository()
		currentRole := uint(5)
		repo.registration.GetByUserAndEventFn = func(ctx context.Context, userID, eventID uint) (*models.Registration, error) {
			return &models.Registration{ID: 3, UserID: userID, EventID: eventID, RoleID: &currentRole, Status: models.RegistrationApproved}, nil
		}
		repo.eventRole.GetForUpdateFn = func(ctx context.Context, id uint) (*models.EventRole, error) {
			return &models.EventRole{ID: id, EventID: 1, Name: "Cook", Capacity: 4}, nil
		}
		repo.eventRole.GetByIDFn = func(ctx context.Context, id uint) (*models.EventRole, error) {
			return &models.EventRole{ID: id, EventID: 1, Name: "Driver", Capacity: 3}, nil
		}
		repo.registration.CountActiveByRoleFn = func(ctx context.Context, roleID uint) (int64, error) {
			return 1, nil
		}

		svc, publisher := newTestRegistrationService(repo)

		result, err := svc.ChangeRole(ctx, 7, &RoleChangeRequest{EventID: 1, RoleID: 6})
		if err != nil {
			t.Fatalf("ChangeRole failed: %v", err)
		}
		if result.Registration.RoleID == nil || *result.Registration.RoleID != 6 {
			t.Errorf("expected role 6, got %v", result.Registration.RoleID)
		}
		if result.Role == nil || result.Role.FilledSpots != 2 || result.Role.AvailableSpots != 2 {
			t.Errorf("unexpected new role occupancy: %+v", result.Role)
		}
		if result.FreedRole == nil || result.FreedRole.ID != currentRole {
			t.Errorf("expected the vacated role's occupancy, got %+v", result.FreedRole)
		}

		published := publisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != events.EventRegistrationRoleChanged {
			t.Errorf("expected a %s event", events.EventRegistrationRoleChanged)
		}
	})

	t.Run("same role is a no-op", func(t *testing.T) {
		repo := newFakeRepository()
		currentRole := uint(6)
		repo.registration.GetByUserAndEventFn = func(ctx context.Context, userID, eventID uint) (*models.Registration, error) {
			return &models.Registration{ID: 3, UserID: userID, EventID: eventID, RoleID: &currentRole, Status: models.RegistrationPending}, nil
		}

		svc, publisher := newTestRegistrationService(repo)

		result, err := svc.ChangeRole(ctx, 7, &RoleChangeRequest{EventID: 1, RoleID: 6})
		if err != nil {
			t.Fatalf("ChangeRole failed: %v", err)
		}
		if result.Role != nil || result.FreedRole != nil {
			t.Error("no occupancy expected for a no-op role change")
		}
		if len(publisher.GetPublishedEvents()) != 0 {
			t.Error("no event expected for a no-op role change")
		}
	})

	t.Run("declined registration cannot change roles", func(t *testing.T) {
		repo := newFakeRepository()
		repo.registration.GetByUserAndEventFn = func(ctx context.Context, userID, eventID uint) (*models.Registration, error) {
			return &models.Registration{ID: 3, UserID: userID, EventID: eventID, Status: models.RegistrationDeclined}, nil
		}

		svc, _ := newTestRegistrationService(repo)

		_, err := svc.ChangeRole(ctx, 7, &RoleChangeRequest{EventID: 1, RoleID: 6})
		if !errors.Is(err, ErrRegistrationNotActive) {
			t.Fatalf("expected ErrRegistrationNotActive, got %v", err)
		}
	})
}

func TestRegistrationService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("reports the freed role occupancy", func(t *testing.T) {
		repo := newFakeRepository()
		roleID := uint(5)
		repo.registration.GetByUserAndEventFn = func(ctx context.Context, userID, eventID uint) (*models.Registration, error) {
			return &models.Registration{ID: 3, UserID: userID, EventID: eventID, RoleID: &roleID, Status: models.RegistrationApproved}, nil
		}
		repo.eventRole.GetByIDFn = func(ctx context.Context, id uint) (*models.EventRole, error) {
			return &models.EventRole{ID: id, EventID: 1, Name: "Driver", Capacity: 3}, nil
		}
		repo.registration.CountActiveByRoleFn = func(ctx context.Context, roleID uint) (int64, error) {
			return 1, nil
		}

		svc, publisher := newTestRegistrationService(repo)

		result, err := svc.Cancel(ctx, 7, 1)
		if err != nil {
			t.Fatalf("Cancel failed: %v", err)
		}
		if result.FreedRole == nil {
			t.Fatal("expected freed role info")
		}
		if result.FreedRole.AvailableSpots != 2 {
			t.Errorf("expected 2 available spots, got %d", result.FreedRole.AvailableSpots)
		}

		published := publisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != events.EventRegistrationCancelled {
			t.Errorf("expected a %s event", events.EventRegistrationCancelled)
		}
	})

	t.Run("freed role recount failure does not fail the cancel", func(t *testing.T) {
		repo := newFakeRepository()
		roleID := uint(5)
		repo.registration.GetByUserAndEventFn = func(ctx context.Context, userID, eventID uint) (*models.Registration, error) {
			return &models.Registration{ID: 3, UserID: userID, EventID: eventID, RoleID: &roleID, Status: models.RegistrationApproved}, nil
		}
		repo.eventRole.GetByIDFn = func(ctx context.Context, id uint) (*models.EventRole, error) {
			return nil, errors.New("connection reset")
		}

		svc, publisher := newTestRegistrationService(repo)

		result, err := svc.Cancel(ctx, 7, 1)
		if err != nil {
			t.Fatalf("Cancel failed: %v", err)
		}
		if result.FreedRole != nil {
			t.Errorf("expected no freed role info, got %+v", result.FreedRole)
		}
		if len(publisher.GetPublishedEvents()) != 1 {
			t.Error("cancellation event still expected")
		}
	})

	t.Run("missing registration", func(t *testing.T) {
		repo := newFakeRepository()

		svc, _ := newTestRegistrationService(repo)

		_, err := svc.Cancel(ctx, 7, 1)
		if !errors.Is(err, ErrRegistrationNotFound) {
			t.Fatalf("expected ErrRegistrationNotFound, got %v", err)
		}
	})
}

func TestRegistrationService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	admin := &models.User{ID: 1, Role: models.RoleAdmin}
	member := &models.User{ID: 2, Role: models.RoleMember}

	t.Run("admin approves a pending registration", func(t *testing.T) {
		repo := newFakeRepository()
		repo.registration.GetByIDFn = func(ctx context.Context, id uint) (*models.Registration, error) {
			return &models.Registration{ID: id, UserID: 7, EventID: 1, Status: models.RegistrationPending}, nil
		}

		svc, publisher := newTestRegistrationService(repo)

		registration, err := svc.UpdateStatus(ctx, 3, &RegistrationStatusRequest{Status: models.RegistrationApproved}, admin)
		if err != nil {
			t.Fatalf("UpdateStatus failed: %v", err)
		}
		if registration.Status != models.RegistrationApproved {
			t.Errorf("expected approved, got %s", registration.Status)
		}

		published := publisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != events.EventRegistrationStatusChanged {
			t.Fatalf("expected a %s event", events.EventRegistrationStatusChanged)
		}
		data, ok := published[0].Data.(events.RegistrationEventData)
		if !ok {
			t.Fatalf("unexpected event payload %T", published[0].Data)
		}
		if data.PreviousStatus == nil || *data.PreviousStatus != string(models.RegistrationPending) {
			t.Error("expected previous status pending in the event payload")
		}
	})

	t.Run("member cannot change status", func(t *testing.T) {
		repo := newFakeRepository()

		svc, _ := newTestRegistrationService(repo)

		_, err := svc.UpdateStatus(ctx, 3, &RegistrationStatusRequest{Status: models.RegistrationApproved}, member)
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("completed is terminal", func(t *testing.T) {
		repo := newFakeRepository()
		repo.registration.GetByIDFn = func(ctx context.Context, id uint) (*models.Registration, error) {
			return &models.Registration{ID: id, UserID: 7, EventID: 1, Status: models.RegistrationCompleted}, nil
		}

		svc, _ := newTestRegistrationService(repo)

		_, err := svc.UpdateStatus(ctx, 3, &RegistrationStatusRequest{Status: models.RegistrationPending}, admin)
		if !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})

	t.Run("reopening a declined signup re-checks capacity", func(t *testing.T) {
		repo := newFakeRepository()
		roleID := uint(5)
		repo.registration.GetByIDFn = func(ctx context.Context, id uint) (*models.Registration, error) {
			return &models.Registration{ID: id, UserID: 7, EventID: 1, RoleID: &roleID, Status: models.RegistrationDeclined}, nil
		}
		repo.eventRole.GetForUpdateFn = func(ctx context.Context, id uint) (*models.EventRole, error) {
			return &models.EventRole{ID: id, EventID: 1, Name: "Driver", Capacity: 2}, nil
		}
		repo.registration.CountActiveByRoleFn = func(ctx context.Context, roleID uint) (int64, error) {
			return 2, nil
		}

		svc, _ := newTestRegistrationService(repo)

		_, err := svc.UpdateStatus(ctx, 3, &RegistrationStatusRequest{Status: models.RegistrationPending}, admin)
		if !errors.Is(err, ErrRoleFull) {
			t.Fatalf("expected ErrRoleFull, got %v", err)
		}
	})
}

// TestRegistrationService_SingleSpotLifecycle walks a capacity-1 role through
// a full occupancy cycle: one user takes the spot, a second is turned away,
// the first cancels, and the second then succeeds.
func TestRegistrationService_SingleSpotLifecycle(t *testing.T) {
	ctx := context.Background()

	repo := newFakeRepository()
	withKnownUsers(repo)
	roleID := uint(5)
	registrations := map[uint]*models.Registration{} // keyed by user ID

	repo.event.GetByIDFn = func(ctx context.Context, id uint) (*models.Event, error) {
		return activeEvent(id), nil
	}
	repo.eventRole.GetForUpdateFn = func(ctx context.Context, id uint) (*models.EventRole, error) {
		return &models.EventRole{ID: id, EventID: 1, Name: "Driver", Capacity: 1}, nil
	}
	repo.eventRole.GetByIDFn = repo.eventRole.GetForUpdateFn
	repo.registration.GetByUserAndEventFn = func(ctx context.Context, userID, eventID uint) (*models.Registration, error) {
		if registration, ok := registrations[userID]; ok {
			return registration, nil
		}
		return nil, gorm.ErrRecordNotFound
	}
	repo.registration.CreateFn = func(ctx context.Context, registration *models.Registration) error {
		registration.ID = uint(len(registrations) + 1)
		registrations[registration.UserID] = registration
		return nil
	}
	repo.registration.DeleteFn = func(ctx context.Context, id uint) error {
		for userID, registration := range registrations {
			if registration.ID == id {
				delete(registrations, userID)
			}
		}
		return nil
	}
	repo.registration.CountActiveByRoleFn = func(ctx context.Context, roleID uint) (int64, error) {
		var count int64
		for _, registration := range registrations {
			if registration.Status.IsActive() {
				count++
			}
		}
		return count, nil
	}

	svc, _ := newTestRegistrationService(repo)

	if _, err := svc.Register(ctx, 1, &RegisterRequest{EventID: 1, RoleID: &roleID}); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}

	if _, err := svc.Register(ctx, 2, &RegisterRequest{EventID: 1, RoleID: &roleID}); !errors.Is(err, ErrRoleFull) {
		t.Fatalf("expected ErrRoleFull for the second signup, got %v", err)
	}

	result, err := svc.Cancel(ctx, 1, 1)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if result.FreedRole == nil || result.FreedRole.AvailableSpots != 1 {
		t.Fatalf("expected the freed spot to be reported, got %+v", result.FreedRole)
	}

	if _, err := svc.Register(ctx, 2, &RegisterRequest{EventID: 1, RoleID: &roleID}); err != nil {
		t.Fatalf("signup after the spot freed failed: %v", err)
	}
}
