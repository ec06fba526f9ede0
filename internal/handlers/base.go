package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/volunteerhub/event-service/internal/utils"
)

// ErrorResponse is the error payload every handler returns
type ErrorResponse struct {
	Message string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// SuccessResponse wraps mutation results that carry a human message
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// BaseHandler carries the request-scoped logging helpers shared by all
// handlers
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.GetLoggerFromContext(c, h.logger).Info(msg, args...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	args = append(args, "error", err)
	utils.GetLoggerFromContext(c, h.logger).Error(msg, args...)
}

// parseUintParam reads a numeric path parameter; on failure it writes a 400
// and returns false
func parseUintParam(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + name + " parameter",
			Details: c.Param(name),
		})
		return 0, false
	}
	return uint(value), true
}
