package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/volunteerhub/event-service/internal/models"
	"github.com/volunteerhub/event-service/internal/repositories"
	"github.com/volunteerhub/event-service/internal/services"
	"github.com/volunteerhub/event-service/internal/utils"
	"github.com/volunteerhub/event-service/internal/validator"
)

type RegistrationHandler struct {
	BaseHandler
	registrationService services.RegistrationService
	validator           *validator.Validator
}

func NewRegistrationHandler(
	registrationService services.RegistrationService,
	validator *validator.Validator,
	logger utils.Logger,
) *RegistrationHandler {
	return &RegistrationHandler{
		BaseHandler:         NewBaseHandler(logger),
		registrationService: registrationService,
		validator:           validator,
	}
}

// Register signs a user up for an event, optionally into a role
func (h *RegistrationHandler) Register(c *gin.Context) {
	userID, ok := parseUintParam(c, "userId")
	if !ok {
		return
	}

	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Registering for event", "user_id", userID, "event_id", req.EventID)

	result, err := h.registrationService.Register(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// UpdateRole moves a registration to another role of the same event
func (h *RegistrationHandler) UpdateRole(c *gin.Context) {
	userID, ok := parseUintParam(c, "userId")
	if !ok {
		return
	}

	var req services.RoleChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Changing registration role", "user_id", userID, "event_id", req.EventID)

	result, err := h.registrationService.ChangeRole(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Cancel removes a user's registration for an event
func (h *RegistrationHandler) Cancel(c *gin.Context) {
	userID, ok := parseUintParam(c, "userId")
	if !ok {
		return
	}
	eventID, ok := parseUintParam(c, "eventId")
	if !ok {
		return
	}

	h.LogRequest(c, "Cancelling registration", "user_id", userID, "event_id", eventID)

	result, err := h.registrationService.Cancel(c.Request.Context(), userID, eventID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Registration cancelled", Data: result})
}

// ListUserEvents returns the events the user registered for
func (h *RegistrationHandler) ListUserEvents(c *gin.Context) {
	userID, ok := parseUintParam(c, "userId")
	if !ok {
		return
	}

	registered, err := h.registrationService.ListUserEvents(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, registered)
}

// ListEventRegistrants returns the registrants of an event, admin only
func (h *RegistrationHandler) ListEventRegistrants(c *gin.Context) {
	eventID, ok := parseUintParam(c, "eventId")
	if !ok {
		return
	}

	filters := repositories.RegistrationFilters{}
	if status := c.Query("status"); status != "" {
		s := models.RegistrationStatus(status)
		filters.Status = &s
	}

	resp, err := h.registrationService.ListEventRegistrants(c.Request.Context(), eventID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ===== ROLE-FIRST PATHS =====

// SignupForRole registers a user directly into a role
func (h *RegistrationHandler) SignupForRole(c *gin.Context) {
	userID, ok := parseUintParam(c, "userId")
	if !ok {
		return
	}

	var req services.RoleSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Signing up for role", "user_id", userID, "role_id", req.RoleID)

	result, err := h.registrationService.SignupForRole(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// CancelRole removes a user's role registration; refused when the user does
// not hold that role
func (h *RegistrationHandler) CancelRole(c *gin.Context) {
	userID, ok := parseUintParam(c, "userId")
	if !ok {
		return
	}
	eventID, ok := parseUintParam(c, "eventId")
	if !ok {
		return
	}
	roleID, ok := parseUintParam(c, "roleId")
	if !ok {
		return
	}

	h.LogRequest(c, "Cancelling role registration", "user_id", userID, "event_id", eventID, "role_id", roleID)

	result, err := h.registrationService.CancelRole(c.Request.Context(), userID, eventID, roleID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Role registration cancelled", Data: result})
}

// ListUserRoles returns only the user's role-holding registrations
func (h *RegistrationHandler) ListUserRoles(c *gin.Context) {
	userID, ok := parseUintParam(c, "userId")
	if !ok {
		return
	}

	registered, err := h.registrationService.ListUserEvents(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	withRoles := make([]*models.RegisteredEvent, 0, len(registered))
	for _, r := range registered {
		if r.RoleID != nil {
			withRoles = append(withRoles, r)
		}
	}

	c.JSON(http.StatusOK, withRoles)
}

// UpdateStatus moves a registration along the status workflow, admin only
func (h *RegistrationHandler) UpdateStatus(c *gin.Context) {
	registrationID, ok := parseUintParam(c, "registrationId")
	if !ok {
		return
	}

	var req services.RegistrationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Updating registration status", "registration_id", registrationID, "status", req.Status)

	registration, err := h.registrationService.UpdateStatus(c.Request.Context(), registrationID, &req, currentUser(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, registration)
}

func (h *RegistrationHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
		})
		return
	}

	var permissionError *services.PermissionError
	if errors.As(err, &permissionError) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Access denied",
			Details: permissionError.Reason,
		})
		return
	}

	var conflictError *services.ConflictError
	if errors.As(err, &conflictError) {
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: conflictError.Sentinel.Error(),
			Details: conflictError.Detail,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "User not found",
		})
	case errors.Is(err, services.ErrEventNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Event not found",
		})
	case errors.Is(err, services.ErrEventInactive):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Event is not active",
		})
	case errors.Is(err, services.ErrRoleNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Event role not found",
		})
	case errors.Is(err, services.ErrRoleWrongEvent):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Role does not belong to this event",
		})
	case errors.Is(err, services.ErrRegistrationNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Registration not found",
		})
	case errors.Is(err, services.ErrRegistrationNotActive):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Registration is not active",
		})
	case errors.Is(err, services.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
		})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Forbidden - insufficient permissions",
		})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
