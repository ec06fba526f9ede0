package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/volunteerhub/event-service/internal/models"
	"github.com/volunteerhub/event-service/internal/repositories"
)

// fakeRepository is a configurable in-memory stand-in for the aggregate
// repository. Sub-repos delegate to function fields; unset lookups behave
// like an empty database.
type fakeRepository struct {
	user         *fakeUserRepo
	event        *fakeEventRepo
	eventRole    *fakeEventRoleRepo
	registration *fakeRegistrationRepo
	donation     *fakeDonationRepo
	availability *fakeAvailabilityRepo
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		user:         &fakeUserRepo{},
		event:        &fakeEventRepo{},
		eventRole:    &fakeEventRoleRepo{},
		registration: &fakeRegistrationRepo{},
		donation:     &fakeDonationRepo{},
		availability: &fakeAvailabilityRepo{},
	}
}

func (r *fakeRepository) User() repositories.UserRepository                 { return r.user }
func (r *fakeRepository) Event() repositories.EventRepository               { return r.event }
func (r *fakeRepository) EventRole() repositories.EventRoleRepository       { return r.eventRole }
func (r *fakeRepository) Registration() repositories.RegistrationRepository { return r.registration }
func (r *fakeRepository) Donation() repositories.DonationRepository         { return r.donation }
func (r *fakeRepository) Availability() repositories.AvailabilityRepository { return r.availability }

func (r *fakeRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(r)
}

func (r *fakeRepository) Ping(ctx context.Context) error { return nil }
func (r *fakeRepository) Close() error                   { return nil }

// ===== USER =====

type fakeUserRepo struct {
	CreateFn           func(ctx context.Context, user *models.User) error
	GetByIDFn          func(ctx context.Context, id uint) (*models.User, error)
	GetByUsernameFn    func(ctx context.Context, username string) (*models.User, error)
	GetByEmailFn       func(ctx context.Context, email string) (*models.User, error)
	UpdateRoleFn       func(ctx context.Context, id uint, role models.UserRole) error
	DeleteFn           func(ctx context.Context, id uint) error
	ListFn             func(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error)
	ExistsByUsernameFn func(ctx context.Context, username string) (bool, error)
	ExistsByEmailFn    func(ctx context.Context, email string) (bool, error)
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	if f.CreateFn != nil {
		return f.CreateFn(ctx, user)
	}
	user.ID = 1
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	if f.GetByIDFn != nil {
		return f.GetByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if f.GetByUsernameFn != nil {
		return f.GetByUsernameFn(ctx, username)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.GetByEmailFn != nil {
		return f.GetByEmailFn(ctx, email)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) UpdateRole(ctx context.Context, id uint, role models.UserRole) error {
	if f.UpdateRoleFn != nil {
		return f.UpdateRoleFn(ctx, id, role)
	}
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id uint) error {
	if f.DeleteFn != nil {
		return f.DeleteFn(ctx, id)
	}
	return nil
}

func (f *fakeUserRepo) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	if f.ListFn != nil {
		return f.ListFn(ctx, filters)
	}
	return nil, 0, nil
}

func (f *fakeUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if f.ExistsByUsernameFn != nil {
		return f.ExistsByUsernameFn(ctx, username)
	}
	return false, nil
}

func (f *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if f.ExistsByEmailFn != nil {
		return f.ExistsByEmailFn(ctx, email)
	}
	return false, nil
}

// ===== EVENT =====

type fakeEventRepo struct {
	CreateFn           func(ctx context.Context, event *models.Event) error
	GetByIDFn          func(ctx context.Context, id uint) (*models.Event, error)
	GetByIDWithRolesFn func(ctx context.Context, id uint) (*models.Event, error)
	UpdateFn           func(ctx context.Context, event *models.Event) error
	DeleteFn           func(ctx context.Context, id uint) error
	ListFn             func(ctx context.Context, filters repositories.EventFilters) ([]*models.Event, int64, error)
	SearchFn           func(ctx context.Context, query string, filters repositories.EventFilters) ([]*models.Event, int64, error)
	ExistsFn           func(ctx context.Context, id uint) (bool, error)
	GetStatsFn         func(ctx context.Context, id uint) (*repositories.EventStats, error)
}

func (f *fakeEventRepo) Create(ctx context.Context, event *models.Event) error {
	if f.CreateFn != nil {
		return f.CreateFn(ctx, event)
	}
	event.ID = 1
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id uint) (*models.Event, error) {
	if f.GetByIDFn != nil {
		return f.GetByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEventRepo) GetByIDWithRoles(ctx context.Context, id uint) (*models.Event, error) {
	if f.GetByIDWithRolesFn != nil {
		return f.GetByIDWithRolesFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEventRepo) Update(ctx context.Context, event *models.Event) error {
	if f.UpdateFn != nil {
		return f.UpdateFn(ctx, event)
	}
	return nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id uint) error {
	if f.DeleteFn != nil {
		return f.DeleteFn(ctx, id)
	}
	return nil
}

func (f *fakeEventRepo) List(ctx context.Context, filters repositories.EventFilters) ([]*models.Event, int64, error) {
	if f.ListFn != nil {
		return f.ListFn(ctx, filters)
	}
	return nil, 0, nil
}

func (f *fakeEventRepo) Search(ctx context.Context, query string, filters repositories.EventFilters) ([]*models.Event, int64, error) {
	if f.SearchFn != nil {
		return f.SearchFn(ctx, query, filters)
	}
	return nil, 0, nil
}

func (f *fakeEventRepo) Exists(ctx context.Context, id uint) (bool, error) {
	if f.ExistsFn != nil {
		return f.ExistsFn(ctx, id)
	}
	return false, nil
}

func (f *fakeEventRepo) GetStats(ctx context.Context, id uint) (*repositories.EventStats, error) {
	if f.GetStatsFn != nil {
		return f.GetStatsFn(ctx, id)
	}
	return &repositories.EventStats{}, nil
}

// ===== EVENT ROLE =====

type fakeEventRoleRepo struct {
	CreateFn       func(ctx context.Context, role *models.EventRole) error
	GetByIDFn      func(ctx context.Context, id uint) (*models.EventRole, error)
	UpdateFn       func(ctx context.Context, role *models.EventRole) error
	DeleteFn       func(ctx context.Context, id uint) error
	ListByEventFn  func(ctx context.Context, eventID uint) ([]*models.EventRole, error)
	GetForUpdateFn func(ctx context.Context, id uint) (*models.EventRole, error)
}

func (f *fakeEventRoleRepo) Create(ctx context.Context, role *models.EventRole) error {
	if f.CreateFn != nil {
		return f.CreateFn(ctx, role)
	}
	role.ID = 1
	return nil
}

func (f *fakeEventRoleRepo) GetByID(ctx context.Context, id uint) (*models.EventRole, error) {
	if f.GetByIDFn != nil {
		return f.GetByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEventRoleRepo) Update(ctx context.Context, role *models.EventRole) error {
	if f.UpdateFn != nil {
		return f.UpdateFn(ctx, role)
	}
	return nil
}

func (f *fakeEventRoleRepo) Delete(ctx context.Context, id uint) error {
	if f.DeleteFn != nil {
		return f.DeleteFn(ctx, id)
	}
	return nil
}

func (f *fakeEventRoleRepo) ListByEvent(ctx context.Context, eventID uint) ([]*models.EventRole, error) {
	if f.ListByEventFn != nil {
		return f.ListByEventFn(ctx, eventID)
	}
	return nil, nil
}

func (f *fakeEventRoleRepo) GetForUpdate(ctx context.Context, id uint) (*models.EventRole, error) {
	if f.GetForUpdateFn != nil {
		return f.GetForUpdateFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

// ===== REGISTRATION =====

type fakeRegistrationRepo struct {
	CreateFn              func(ctx context.Context, registration *models.Registration) error
	GetByIDFn             func(ctx context.Context, id uint) (*models.Registration, error)
	GetByUserAndEventFn   func(ctx context.Context, userID, eventID uint) (*models.Registration, error)
	UpdateStatusFn        func(ctx context.Context, id uint, status models.RegistrationStatus) error
	UpdateRoleFn          func(ctx context.Context, id uint, roleID *uint) error
	DeleteFn              func(ctx context.Context, id uint) error
	ListByUserFn          func(ctx context.Context, userID uint) ([]*models.RegisteredEvent, error)
	ListByEventFn         func(ctx context.Context, eventID uint, filters repositories.RegistrationFilters) ([]*models.EventRegistrant, int64, error)
	CountActiveByRoleFn   func(ctx context.Context, roleID uint) (int64, error)
	CountActiveByRolesFn  func(ctx context.Context, roleIDs []uint) (map[uint]int64, error)
	ExistsActiveForRoleFn func(ctx context.Context, roleID uint) (bool, error)
}

func (f *fakeRegistrationRepo) Create(ctx context.Context, registration *models.Registration) error {
	if f.CreateFn != nil {
		return f.CreateFn(ctx, registration)
	}
	registration.ID = 1
	return nil
}

func (f *fakeRegistrationRepo) GetByID(ctx context.Context, id uint) (*models.Registration, error) {
	if f.GetByIDFn != nil {
		return f.GetByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRegistrationRepo) GetByUserAndEvent(ctx context.Context, userID, eventID uint) (*models.Registration, error) {
	if f.GetByUserAndEventFn != nil {
		return f.GetByUserAndEventFn(ctx, userID, eventID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRegistrationRepo) UpdateStatus(ctx context.Context, id uint, status models.RegistrationStatus) error {
	if f.UpdateStatusFn != nil {
		return f.UpdateStatusFn(ctx, id, status)
	}
	return nil
}

func (f *fakeRegistrationRepo) UpdateRole(ctx context.Context, id uint, roleID *uint) error {
	if f.UpdateRoleFn != nil {
		return f.UpdateRoleFn(ctx, id, roleID)
	}
	return nil
}

func (f *fakeRegistrationRepo) Delete(ctx context.Context, id uint) error {
	if f.DeleteFn != nil {
		return f.DeleteFn(ctx, id)
	}
	return nil
}

func (f *fakeRegistrationRepo) ListByUser(ctx context.Context, userID uint) ([]*models.RegisteredEvent, error) {
	if f.ListByUserFn != nil {
		return f.ListByUserFn(ctx, userID)
	}
	return nil, nil
}

func (f *fakeRegistrationRepo) ListByEvent(ctx context.Context, eventID uint, filters repositories.RegistrationFilters) ([]*models.EventRegistrant, int64, error) {
	if f.ListByEventFn != nil {
		return f.ListByEventFn(ctx, eventID, filters)
	}
	return nil, 0, nil
}

func (f *fakeRegistrationRepo) CountActiveByRole(ctx context.Context, roleID uint) (int64, error) {
	if f.CountActiveByRoleFn != nil {
		return f.CountActiveByRoleFn(ctx, roleID)
	}
	return 0, nil
}

func (f *fakeRegistrationRepo) CountActiveByRoles(ctx context.Context, roleIDs []uint) (map[uint]int64, error) {
	if f.CountActiveByRolesFn != nil {
		return f.CountActiveByRolesFn(ctx, roleIDs)
	}
	return map[uint]int64{}, nil
}

func (f *fakeRegistrationRepo) ExistsActiveForRole(ctx context.Context, roleID uint) (bool, error) {
	if f.ExistsActiveForRoleFn != nil {
		return f.ExistsActiveForRoleFn(ctx, roleID)
	}
	return false, nil
}

// ===== DONATION =====

type fakeDonationRepo struct {
	CreateFn            func(ctx context.Context, donation *models.Donation) error
	GetByIDFn           func(ctx context.Context, id uint) (*models.Donation, error)
	UpdateStatusFn      func(ctx context.Context, id uint, status models.DonationStatus) error
	DeleteFn            func(ctx context.Context, id uint) error
	ListFn              func(ctx context.Context, filters repositories.DonationFilters) ([]*models.Donation, int64, error)
	ListByUserFn        func(ctx context.Context, userID uint) ([]*models.Donation, error)
	GetMonetaryTotalsFn func(ctx context.Context, eventID uint) (*repositories.DonationTotals, error)
	GetCountsByTypeFn   func(ctx context.Context, eventID uint) ([]models.DonationTypeCount, error)
	ListTypesFn         func(ctx context.Context) ([]*models.DonationType, error)
	GetTypeByIDFn       func(ctx context.Context, id uint) (*models.DonationType, error)
	CreateTypeFn        func(ctx context.Context, donationType *models.DonationType) error
}

func (f *fakeDonationRepo) Create(ctx context.Context, donation *models.Donation) error {
	if f.CreateFn != nil {
		return f.CreateFn(ctx, donation)
	}
	donation.ID = 1
	return nil
}

func (f *fakeDonationRepo) GetByID(ctx context.Context, id uint) (*models.Donation, error) {
	if f.GetByIDFn != nil {
		return f.GetByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeDonationRepo) UpdateStatus(ctx context.Context, id uint, status models.DonationStatus) error {
	if f.UpdateStatusFn != nil {
		return f.UpdateStatusFn(ctx, id, status)
	}
	return nil
}

func (f *fakeDonationRepo) Delete(ctx context.Context, id uint) error {
	if f.DeleteFn != nil {
		return f.DeleteFn(ctx, id)
	}
	return nil
}

func (f *fakeDonationRepo) List(ctx context.Context, filters repositories.DonationFilters) ([]*models.Donation, int64, error) {
	if f.ListFn != nil {
		return f.ListFn(ctx, filters)
	}
	return nil, 0, nil
}

func (f *fakeDonationRepo) ListByUser(ctx context.Context, userID uint) ([]*models.Donation, error) {
	if f.ListByUserFn != nil {
		return f.ListByUserFn(ctx, userID)
	}
	return nil, nil
}

func (f *fakeDonationRepo) GetMonetaryTotals(ctx context.Context, eventID uint) (*repositories.DonationTotals, error) {
	if f.GetMonetaryTotalsFn != nil {
		return f.GetMonetaryTotalsFn(ctx, eventID)
	}
	return &repositories.DonationTotals{}, nil
}

func (f *fakeDonationRepo) GetCountsByType(ctx context.Context, eventID uint) ([]models.DonationTypeCount, error) {
	if f.GetCountsByTypeFn != nil {
		return f.GetCountsByTypeFn(ctx, eventID)
	}
	return nil, nil
}

func (f *fakeDonationRepo) ListTypes(ctx context.Context) ([]*models.DonationType, error) {
	if f.ListTypesFn != nil {
		return f.ListTypesFn(ctx)
	}
	return nil, nil
}

func (f *fakeDonationRepo) GetTypeByID(ctx context.Context, id uint) (*models.DonationType, error) {
	if f.GetTypeByIDFn != nil {
		return f.GetTypeByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeDonationRepo) CreateType(ctx context.Context, donationType *models.DonationType) error {
	if f.CreateTypeFn != nil {
		return f.CreateTypeFn(ctx, donationType)
	}
	donationType.ID = 1
	return nil
}

// ===== AVAILABILITY =====

type fakeAvailabilityRepo struct {
	ReplaceForUserEventFn  func(ctx context.Context, userID, eventID uint, slots []*models.UserAvailability) error
	ListByUserAndEventFn   func(ctx context.Context, userID, eventID uint) ([]*models.UserAvailability, error)
	ListByEventFn          func(ctx context.Context, eventID uint) ([]*models.UserAvailability, error)
	DeleteByUserAndEventFn func(ctx context.Context, userID, eventID uint) error
}

func (f *fakeAvailabilityRepo) ReplaceForUserEvent(ctx context.Context, userID, eventID uint, slots []*models.UserAvailability) error {
	if f.ReplaceForUserEventFn != nil {
		return f.ReplaceForUserEventFn(ctx, userID, eventID, slots)
	}
	return nil
}

func (f *fakeAvailabilityRepo) ListByUserAndEvent(ctx context.Context, userID, eventID uint) ([]*models.UserAvailability, error) {
	if f.ListByUserAndEventFn != nil {
		return f.ListByUserAndEventFn(ctx, userID, eventID)
	}
	return nil, nil
}

func (f *fakeAvailabilityRepo) ListByEvent(ctx context.Context, eventID uint) ([]*models.UserAvailability, error) {
	if f.ListByEventFn != nil {
		return f.ListByEventFn(ctx, eventID)
	}
	return nil, nil
}

func (f *fakeAvailabilityRepo) DeleteByUserAndEvent(ctx context.Context, userID, eventID uint) error {
	if f.DeleteByUserAndEventFn != nil {
		return f.DeleteByUserAndEventFn(ctx, userID, eventID)
	}
	return nil
}
