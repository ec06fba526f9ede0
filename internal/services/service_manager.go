package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/volunteerhub/event-service/internal/events"
	"github.com/volunteerhub/event-service/internal/repositories"
	"github.com/volunteerhub/event-service/internal/validator"
	"gorm.io/gorm"
)

// ServiceManagerConfig selects which services the manager wires up
type ServiceManagerConfig struct {
	User         ServiceConfig
	Event        ServiceConfig
	Registration ServiceConfig
	Donation     ServiceConfig
	Availability ServiceConfig
}

type ServiceConfig struct {
	Enabled bool
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	// Dependencies
	db        *gorm.DB
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
	config    ServiceManagerConfig

	// Service instances
	userService         UserService
	eventService        EventService
	registrationService RegistrationService
	donationService     DonationService
	availabilityService AvailabilityService
	exportService       ExportService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies
func NewServiceManager(db *gorm.DB, repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher, config ServiceManagerConfig) ServiceManager {
	return &serviceManager{
		db:        db,
		repo:      repo,
		logger:    logger,
		validator: validator,
		publisher: publisher,
		config:    config,
	}
}

// NewDefaultServiceManager creates a service manager with default configuration
func NewDefaultServiceManager(db *gorm.DB, repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) ServiceManager {
	config := ServiceManagerConfig{
		User:         ServiceConfig{Enabled: true},
		Event:        ServiceConfig{Enabled: true},
		Registration: ServiceConfig{Enabled: true},
		Donation:     ServiceConfig{Enabled: true},
		Availability: ServiceConfig{Enabled: true},
	}

	return NewServiceManager(db, repo, logger, validator, publisher, config)
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	if err := sm.initializeServices(ctx); err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")

	return nil
}

func (sm *serviceManager) initializeServices(ctx context.Context) error {
	if sm.config.User.Enabled {
		sm.userService = NewUserService(sm.repo, sm.db, sm.logger, sm.validator)
		sm.logger.Info("User service initialized")
	}

	if sm.config.Event.Enabled {
		sm.eventService = NewEventService(sm.repo, sm.db, sm.logger, sm.validator, sm.publisher)
		sm.logger.Info("Event service initialized")
	}

	if sm.config.Registration.Enabled {
		sm.registrationService = NewRegistrationService(sm.repo, sm.db, sm.logger, sm.validator, sm.publisher)
		sm.logger.Info("Registration service initialized")
	}

	if sm.config.Donation.Enabled {
		sm.donationService = NewDonationService(sm.repo, sm.db, sm.logger, sm.validator, sm.publisher)
		sm.logger.Info("Donation service initialized")
	}

	if sm.config.Availability.Enabled {
		sm.availabilityService = NewAvailabilityService(sm.repo, sm.db, sm.logger, sm.validator)
		sm.logger.Info("Availability service initialized")
	}

	sm.exportService = NewExportService(sm.repo, sm.logger)
	sm.logger.Info("Export service initialized")

	return nil
}

// Service getters
func (sm *serviceManager) User() UserService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.config.User.Enabled && sm.userService != nil {
		return sm.userService
	}

	panic("user service not enabled or not initialized")
}

func (sm *serviceManager) Event() EventService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.config.Event.Enabled && sm.eventService != nil {
		return sm.eventService
	}

	panic("event service not enabled or not initialized")
}

func (sm *serviceManager) Registration() RegistrationService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.config.Registration.Enabled && sm.registrationService != nil {
		return sm.registrationService
	}

	panic("registration service not enabled or not initialized")
}

func (sm *serviceManager) Donation() DonationService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.config.Donation.Enabled && sm.donationService != nil {
		return sm.donationService
	}

	panic("donation service not enabled or not initialized")
}

func (sm *serviceManager) Availability() AvailabilityService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.config.Availability.Enabled && sm.availabilityService != nil {
		return sm.availabilityService
	}

	panic("availability service not enabled or not initialized")
}

func (sm *serviceManager) Export() ExportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.exportService != nil {
		return sm.exportService
	}

	panic("export service not initialized")
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}

	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if sm.publisher != nil {
		if err := sm.publisher.Close(); err != nil {
			sm.logger.Error("Failed to close event publisher", "error", err)
		}
	}

	if err := sm.repo.Close(); err != nil {
		sm.logger.Error("Failed to close repository", "error", err)
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down completed")

	return nil
}
