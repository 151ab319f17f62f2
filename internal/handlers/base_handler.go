package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/utils"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// SuccessResponse wraps bodies that carry no resource payload of their own.
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// BaseHandler provides shared helpers for all HTTP handlers.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs handler activity with the request id attached.
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	args = append(args, "request_id", c.GetString("request_id"))
	h.logger.Info(msg, args...)
}

// LogError logs handler failures with the request id attached.
func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	args = append(args, "error", err, "request_id", c.GetString("request_id"))
	h.logger.Error(msg, args...)
}

// parseUUIDParam reads a path parameter and rejects non-UUID values.
// Returns "" after writing the response when the value is malformed.
func (h *BaseHandler) parseUUIDParam(c *gin.Context, name string) string {
	value := c.Param(name)
	if _, err := uuid.Parse(value); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid " + name,
			Details: "must be a UUID",
		})
		return ""
	}
	return value
}

// currentUser returns the authenticated user placed in the context by the
// auth middleware. Writes 401 and returns nil when missing.
func (h *BaseHandler) currentUser(c *gin.Context) *models.User {
	value, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "user not authenticated"})
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "user not authenticated"})
		return nil
	}
	return user
}
