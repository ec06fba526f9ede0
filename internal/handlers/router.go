package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/volunteerhub/event-service/internal/services"
	"github.com/volunteerhub/event-service/internal/utils"
	"github.com/volunteerhub/event-service/internal/validator"
)

type HandlerManager struct {
	userHandler         *UserHandler
	eventHandler        *EventHandler
	registrationHandler *RegistrationHandler
	donationHandler     *DonationHandler
	availabilityHandler *AvailabilityHandler
	authMiddleware      *HeaderAuthMiddleware
	serviceManager      services.ServiceManager
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
	adminPassword string,
) *HandlerManager {
	authMiddleware := NewHeaderAuthMiddleware(serviceManager.User(), adminPassword)

	return &HandlerManager{
		userHandler:         NewUserHandler(serviceManager.User(), validator, logger),
		eventHandler:        NewEventHandler(serviceManager.Event(), serviceManager.Registration(), serviceManager.Export(), validator, logger),
		registrationHandler: NewRegistrationHandler(serviceManager.Registration(), validator, logger),
		donationHandler:     NewDonationHandler(serviceManager.Donation(), validator, logger),
		availabilityHandler: NewAvailabilityHandler(serviceManager.Availability(), validator, logger),
		authMiddleware:      authMiddleware,
		serviceManager:      serviceManager,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", hm.HealthCheck)

	api := router.Group("/api")

	// Public routes: account creation and login carry credentials in the
	// body, not in auth headers
	api.POST("/users/register", hm.userHandler.Register)
	api.POST("/users/login", hm.userHandler.Login)

	authed := api.Group("")
	authed.Use(hm.authMiddleware.AuthMiddleware())
	{
		// User routes
		users := authed.Group("/users")
		{
			users.GET("", hm.authMiddleware.RequireAdmin(), hm.userHandler.ListUsers)
			users.GET("/:userId", hm.userHandler.GetUser)
			users.PUT("/:userId/role", hm.authMiddleware.RequireAdmin(), hm.userHandler.UpdateUserRole)
			users.GET("/:userId/donations", hm.authMiddleware.RequireSameUser("userId"), hm.donationHandler.ListUserDonations)
		}

		// Event routes
		events := authed.Group("/events")
		{
			events.GET("", hm.eventHandler.ListEvents)
			events.GET("/type/:type", hm.eventHandler.ListEventsByType)
			events.GET("/:eventId", hm.eventHandler.GetEvent)
			events.POST("", hm.authMiddleware.RequireAdmin(), hm.eventHandler.CreateEvent)
			events.PUT("/:eventId", hm.authMiddleware.RequireAdmin(), hm.eventHandler.UpdateEvent)
			events.DELETE("/:eventId", hm.authMiddleware.RequireAdmin(), hm.eventHandler.DeleteEvent)
			events.GET("/:eventId/stats", hm.authMiddleware.RequireAdmin(), hm.eventHandler.GetEventStats)

			// Role management
			events.GET("/:eventId/roles", hm.eventHandler.ListRoles)
			events.POST("/:eventId/roles", hm.authMiddleware.RequireAdmin(), hm.eventHandler.AddRole)
			events.PUT("/:eventId/roles/:roleId", hm.authMiddleware.RequireAdmin(), hm.eventHandler.UpdateRole)
			events.DELETE("/:eventId/roles/:roleId", hm.authMiddleware.RequireAdmin(), hm.eventHandler.DeleteRole)
			events.GET("/:eventId/roles/:roleId/users", hm.authMiddleware.RequireAdmin(), hm.eventHandler.ListRoleUsers)

			// Donations per event
			events.GET("/:eventId/donations", hm.donationHandler.ListEventDonations)
			events.GET("/:eventId/donations/total", hm.donationHandler.GetEventDonationTotal)

			// Registrant export
			events.GET("/:eventId/registrations/export", hm.authMiddleware.RequireAdmin(), hm.eventHandler.ExportRegistrants)
		}

		// Registration routes
		registrations := authed.Group("/registrations")
		{
			registrations.POST("/users/:userId/register", hm.authMiddleware.RequireSameUser("userId"), hm.registrationHandler.Register)
			registrations.PUT("/users/:userId/update-role", hm.authMiddleware.RequireSameUser("userId"), hm.registrationHandler.UpdateRole)
			registrations.DELETE("/users/:userId/events/:eventId", hm.authMiddleware.RequireSameUser("userId"), hm.registrationHandler.Cancel)
			registrations.GET("/users/:userId/events", hm.authMiddleware.RequireSameUser("userId"), hm.registrationHandler.ListUserEvents)
			registrations.GET("/events/:eventId/users", hm.authMiddleware.RequireAdmin(), hm.registrationHandler.ListEventRegistrants)
		}

		// Role-first registration routes
		roleRegistrations := authed.Group("/role-registrations")
		{
			roleRegistrations.POST("/users/:userId/roles", hm.authMiddleware.RequireSameUser("userId"), hm.registrationHandler.SignupForRole)
			roleRegistrations.DELETE("/users/:userId/events/:eventId/roles/:roleId", hm.authMiddleware.RequireSameUser("userId"), hm.registrationHandler.CancelRole)
			roleRegistrations.GET("/users/:userId/roles", hm.authMiddleware.RequireSameUser("userId"), hm.registrationHandler.ListUserRoles)
			roleRegistrations.PUT("/registrations/:registrationId/status", hm.authMiddleware.RequireAdmin(), hm.registrationHandler.UpdateStatus)
		}

		// Donation routes
		donations := authed.Group("/donations")
		{
			donations.POST("", hm.donationHandler.CreateDonation)
			donations.GET("/types", hm.donationHandler.ListDonationTypes)
			donations.POST("/types", hm.authMiddleware.RequireAdmin(), hm.donationHandler.CreateDonationType)
			donations.PUT("/:donationId/status", hm.authMiddleware.RequireAdmin(), hm.donationHandler.UpdateDonationStatus)
		}

		// Availability routes
		availability := authed.Group("/availability")
		{
			availability.POST("/users/:userId", hm.authMiddleware.RequireSameUser("userId"), hm.availabilityHandler.Submit)
			availability.GET("/users/:userId/events/:eventId", hm.authMiddleware.RequireSameUser("userId"), hm.availabilityHandler.GetForUser)
			availability.DELETE("/users/:userId/events/:eventId", hm.authMiddleware.RequireSameUser("userId"), hm.availabilityHandler.Delete)
			availability.GET("/events/:eventId", hm.authMiddleware.RequireAdmin(), hm.availabilityHandler.ListForEvent)
		}
	}
}

// HealthCheck reports service health including downstream dependencies
func (hm *HandlerManager) HealthCheck(c *gin.Context) {
	status := http.StatusOK
	health := gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "event-service",
	}

	if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
		status = http.StatusServiceUnavailable
		health["status"] = "unhealthy"
		health["error"] = err.Error()
	}

	c.JSON(status, health)
}
