package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/attendance-service/internal/services"
	"github.com/SAP-F-2025/attendance-service/internal/utils"
)

type SessionHandler struct {
	BaseHandler
	sessionService services.SessionService
}

func NewSessionHandler(sessionService services.SessionService, logger utils.Logger) *SessionHandler {
	return &SessionHandler{
		BaseHandler:    NewBaseHandler(logger),
		sessionService: sessionService,
	}
}

// CreateSession opens a class session and issues its QR code.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req services.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid request payload",
			Details: err.Error(),
		})
		return
	}

	user := h.currentUser(c)
	if user == nil {
		return
	}

	h.LogRequest(c, "Creating class session", "course_id", req.CourseID, "actor_id", user.ID)

	resp, err := h.sessionService.Create(c.Request.Context(), &req, user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{Success: true, Data: resp})
}

// ListToday returns the caller's sessions scheduled for today.
func (h *SessionHandler) ListToday(c *gin.Context) {
	user := h.currentUser(c)
	if user == nil {
		return
	}

	sessions, err := h.sessionService.ListToday(c.Request.Context(), user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: sessions})
}

// GetQRCode returns the scannable artifact for a session while it is valid.
func (h *SessionHandler) GetQRCode(c *gin.Context) {
	id := h.parseUUIDParam(c, "id")
	if id == "" {
		return
	}

	user := h.currentUser(c)
	if user == nil {
		return
	}

	resp, err := h.sessionService.GetQRCode(c.Request.Context(), id, user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: resp})
}

// UpdateStatus moves a session through its lifecycle.
func (h *SessionHandler) UpdateStatus(c *gin.Context) {
	id := h.parseUUIDParam(c, "id")
	if id == "" {
		return
	}

	var req services.SessionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid request payload",
			Details: err.Error(),
		})
		return
	}

	user := h.currentUser(c)
	if user == nil {
		return
	}

	session, err := h.sessionService.UpdateStatus(c.Request.Context(), id, &req, user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: session})
}
