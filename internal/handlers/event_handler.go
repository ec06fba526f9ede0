package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/volunteerhub/event-service/internal/models"
	"github.com/volunteerhub/event-service/internal/repositories"
	"github.com/volunteerhub/event-service/internal/services"
	"github.com/volunteerhub/event-service/internal/utils"
	"github.com/volunteerhub/event-service/internal/validator"
)

type EventHandler struct {
	BaseHandler
	eventService        services.EventService
	registrationService services.RegistrationService
	exportService       services.ExportService
	validator           *validator.Validator
}

func NewEventHandler(
	eventService services.EventService,
	registrationService services.RegistrationService,
	exportService services.ExportService,
	validator *validator.Validator,
	logger utils.Logger,
) *EventHandler {
	return &EventHandler{
		BaseHandler:         NewBaseHandler(logger),
		eventService:        eventService,
		registrationService: registrationService,
		exportService:       exportService,
		validator:           validator,
	}
}

// ===== EVENT CRUD =====

// CreateEvent creates an event, optionally with its roles
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req services.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Creating event", "name", req.Name)

	event, err := h.eventService.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

// GetEvent returns the detailed event view with role occupancy
func (h *EventHandler) GetEvent(c *gin.Context) {
	id, ok := parseUintParam(c, "eventId")
	if !ok {
		return
	}

	h.LogRequest(c, "Getting event", "event_id", id)

	detail, err := h.eventService.GetDetail(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// ListEvents lists events with optional filters
func (h *EventHandler) ListEvents(c *gin.Context) {
	h.LogRequest(c, "Listing events")

	filters := h.parseEventFilters(c)

	if query := c.Query("q"); query != "" {
		resp, err := h.eventService.Search(c.Request.Context(), query, filters)
		if err != nil {
			h.handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
		return
	}

	resp, err := h.eventService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListEventsByType lists events of one type
func (h *EventHandler) ListEventsByType(c *gin.Context) {
	eventType := models.EventType(c.Param("type"))
	switch eventType {
	case models.EventVolunteer, models.EventDonation, models.EventTeaching, models.EventMixed:
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid event type",
			Details: c.Param("type"),
		})
		return
	}

	h.LogRequest(c, "Listing events by type", "event_type", eventType)

	filters := h.parseEventFilters(c)
	filters.EventType = &eventType

	resp, err := h.eventService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateEvent replaces the event document
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	id, ok := parseUintParam(c, "eventId")
	if !ok {
		return
	}

	var req services.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Updating event", "event_id", id)

	event, err := h.eventService.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// DeleteEvent removes an event and everything hanging off it
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	id, ok := parseUintParam(c, "eventId")
	if !ok {
		return
	}

	h.LogRequest(c, "Deleting event", "event_id", id)

	if err := h.eventService.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Event deleted"})
}

// GetEventStats returns registration statistics for one event, admin only
func (h *EventHandler) GetEventStats(c *gin.Context) {
	id, ok := parseUintParam(c, "eventId")
	if !ok {
		return
	}

	h.LogRequest(c, "Getting event stats", "event_id", id)

	stats, err := h.eventService.GetStats(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ===== ROLE MANAGEMENT =====

// ListRoles returns the roles of an event with occupancy
func (h *EventHandler) ListRoles(c *gin.Context) {
	eventID, ok := parseUintParam(c, "eventId")
	if !ok {
		return
	}

	roles, err := h.eventService.ListRoles(c.Request.Context(), eventID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, roles)
}

// AddRole adds a role to an existing event
func (h *EventHandler) AddRole(c *gin.Context) {
	eventID, ok := parseUintParam(c, "eventId")
	if !ok {
		return
	}

	var req services.EventRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Adding event role", "event_id", eventID, "name", req.Name)

	role, err := h.eventService.AddRole(c.Request.Context(), eventID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, role)
}

// UpdateRole replaces a role definition
func (h *EventHandler) UpdateRole(c *gin.Context) {
	eventID, ok := parseUintParam(c, "eventId")
	if !ok {
		return
	}
	roleID, ok := parseUintParam(c, "roleId")
	if !ok {
		return
	}

	var req services.EventRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Updating event role", "event_id", eventID, "role_id", roleID)

	role, err := h.eventService.UpdateRole(c.Request.Context(), eventID, roleID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, role)
}

// DeleteRole removes a role; refused while active registrants hold it
func (h *EventHandler) DeleteRole(c *gin.Context) {
	eventID, ok := parseUintParam(c, "eventId")
	if !ok {
		return
	}
	roleID, ok := parseUintParam(c, "roleId")
	if !ok {
		return
	}

	h.LogRequest(c, "Deleting event role", "event_id", eventID, "role_id", roleID)

	if err := h.eventService.DeleteRole(c.Request.Context(), eventID, roleID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Role deleted"})
}

// ListRoleUsers returns the registrants holding one role
func (h *EventHandler) ListRoleUsers(c *gin.Context) {
	eventID, ok := parseUintParam(c, "eventId")
	if !ok {
		return
	}
	roleID, ok := parseUintParam(c, "roleId")
	if !ok {
		return
	}

	filters := repositories.RegistrationFilters{RoleID: &roleID}
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

// ===== EXPORT =====

// ExportRegistrants streams the registrant list as an xlsx download
func (h *EventHandler) ExportRegistrants(c *gin.Context) {
	eventID, ok := parseUintParam(c, "eventId")
	if !ok {
		return
	}

	h.LogRequest(c, "Exporting registrants", "event_id", eventID)

	data, filename, err := h.exportService.ExportEventRegistrants(c.Request.Context(), eventID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// ===== HELPERS =====

func (h *EventHandler) parseEventFilters(c *gin.Context) repositories.EventFilters {
	filters := repositories.EventFilters{
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if category := c.Query("category"); category != "" {
		filters.Category = &category
	}
	if c.Query("active") == "true" {
		filters.ActiveOnly = true
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		filters.Limit = limit
	}
	if offset, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil {
		filters.Offset = offset
	}
	return filters
}

func (h *EventHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
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
	case errors.Is(err, services.ErrEventNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Event not found",
		})
	case errors.Is(err, services.ErrRoleNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Event role not found",
		})
	case errors.Is(err, services.ErrRoleWrongEvent):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Role does not belong to this event",
		})
	case errors.Is(err, services.ErrRoleHasSignups):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Role has active registrants",
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
