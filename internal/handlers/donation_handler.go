package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/volunteerhub/event-service/internal/models"
	"github.com/volunteerhub/event-service/internal/repositories"
	"github.com/volunteerhub/event-service/internal/services"
	"github.com/volunteerhub/event-service/internal/utils"
	"github.com/volunteerhub/event-service/internal/validator"
)

type DonationHandler struct {
	BaseHandler
	donationService services.DonationService
	validator       *validator.Validator
}

func NewDonationHandler(
	donationService services.DonationService,
	validator *validator.Validator,
	logger utils.Logger,
) *DonationHandler {
	return &DonationHandler{
		BaseHandler:     NewBaseHandler(logger),
		donationService: donationService,
		validator:       validator,
	}
}

// CreateDonation records a donation. A member may only donate as themselves;
// an omitted user_id records an anonymous donation.
func (h *DonationHandler) CreateDonation(c *gin.Context) {
	var req services.DonationCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	user := currentUser(c)
	if user != nil && !user.IsAdmin() && req.UserID != nil && *req.UserID != user.ID {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Cannot donate on behalf of another user",
		})
		return
	}

	h.LogRequest(c, "Recording donation", "event_id", req.EventID, "donation_type_id", req.DonationTypeID)

	donation, err := h.donationService.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, donation)
}

// ListEventDonations lists the donations recorded for an event
func (h *DonationHandler) ListEventDonations(c *gin.Context) {
	eventID, ok := parseUintParam(c, "eventId")
	if !ok {
		return
	}

	filters := repositories.DonationFilters{EventID: &eventID}
	if status := c.Query("status"); status != "" {
		s := models.DonationStatus(status)
		filters.Status = &s
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		filters.Limit = limit
	}
	if offset, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil {
		filters.Offset = offset
	}

	resp, err := h.donationService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetEventDonationTotal returns the aggregate donation picture for an event
func (h *DonationHandler) GetEventDonationTotal(c *gin.Context) {
	eventID, ok := parseUintParam(c, "eventId")
	if !ok {
		return
	}

	summary, err := h.donationService.GetEventSummary(c.Request.Context(), eventID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ListUserDonations lists a user's donations
func (h *DonationHandler) ListUserDonations(c *gin.Context) {
	userID, ok := parseUintParam(c, "userId")
	if !ok {
		return
	}

	donations, err := h.donationService.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, donations)
}

// UpdateDonationStatus confirms or distributes a donation, admin only
func (h *DonationHandler) UpdateDonationStatus(c *gin.Context) {
	donationID, ok := parseUintParam(c, "donationId")
	if !ok {
		return
	}

	var req services.DonationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Updating donation status", "donation_id", donationID, "status", req.Status)

	donation, err := h.donationService.UpdateStatus(c.Request.Context(), donationID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, donation)
}

// ListDonationTypes lists the known donation types
func (h *DonationHandler) ListDonationTypes(c *gin.Context) {
	types, err := h.donationService.ListTypes(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, types)
}

// CreateDonationType adds a donation type, admin only
func (h *DonationHandler) CreateDonationType(c *gin.Context) {
	var req struct {
		Name          string  `json:"name" binding:"required"`
		UnitOfMeasure *string `json:"unit_of_measure"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Creating donation type", "name", req.Name)

	donationType, err := h.donationService.CreateType(c.Request.Context(), req.Name, req.UnitOfMeasure)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, donationType)
}

func (h *DonationHandler) handleServiceError(c *gin.Context, err error) {
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
	case errors.Is(err, services.ErrDonationNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Donation not found",
		})
	case errors.Is(err, services.ErrDonationTypeNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Donation type not found",
		})
	case errors.Is(err, services.ErrEventNoDonation):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Event does not accept donations",
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
