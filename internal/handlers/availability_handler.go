package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/volunteerhub/event-service/internal/services"
	"github.com/volunteerhub/event-service/internal/utils"
	"github.com/volunteerhub/event-service/internal/validator"
)

type AvailabilityHandler struct {
	BaseHandler
	availabilityService services.AvailabilityService
	validator           *validator.Validator
}

func NewAvailabilityHandler(
	availabilityService services.AvailabilityService,
	validator *validator.Validator,
	logger utils.Logger,
) *AvailabilityHandler {
	return &AvailabilityHandler{
		BaseHandler:         NewBaseHandler(logger),
		availabilityService: availabilityService,
		validator:           validator,
	}
}

// Submit replaces the user's declared availability for an event
func (h *AvailabilityHandler) Submit(c *gin.Context) {
	userID, ok := parseUintParam(c, "userId")
	if !ok {
		return
	}

	var req services.AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Submitting availability", "user_id", userID, "event_id", req.EventID, "slots", len(req.AvailabilitySlots))

	slots, err := h.availabilityService.Submit(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, slots)
}

// GetForUser returns the user's availability for one event
func (h *AvailabilityHandler) GetForUser(c *gin.Context) {
	userID, ok := parseUintParam(c, "userId")
	if !ok {
		return
	}
	eventID, ok := parseUintParam(c, "eventId")
	if !ok {
		return
	}

	slots, err := h.availabilityService.GetForUser(c.Request.Context(), userID, eventID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, slots)
}

// ListForEvent returns everyone's availability for an event, admin only
func (h *AvailabilityHandler) ListForEvent(c *gin.Context) {
	eventID, ok := parseUintParam(c, "eventId")
	if !ok {
		return
	}

	slots, err := h.availabilityService.ListForEvent(c.Request.Context(), eventID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, slots)
}

// Delete removes the user's declared availability for an event
func (h *AvailabilityHandler) Delete(c *gin.Context) {
	userID, ok := parseUintParam(c, "userId")
	if !ok {
		return
	}
	eventID, ok := parseUintParam(c, "eventId")
	if !ok {
		return
	}

	h.LogRequest(c, "Deleting availability", "user_id", userID, "event_id", eventID)

	if err := h.availabilityService.Delete(c.Request.Context(), userID, eventID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Availability deleted"})
}

func (h *AvailabilityHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrEventNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Event not found",
		})
	case errors.Is(err, services.ErrAvailabilityNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "No availability declared",
		})
	case errors.Is(err, services.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
		})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
