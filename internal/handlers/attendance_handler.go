package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
	"github.com/SAP-F-2025/attendance-service/internal/services"
	"github.com/SAP-F-2025/attendance-service/internal/utils"
)

type AttendanceHandler struct {
	BaseHandler
	attendanceService services.AttendanceService
	reportService     services.ReportService
}

func NewAttendanceHandler(attendanceService services.AttendanceService, reportService services.ReportService, logger utils.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		BaseHandler:       NewBaseHandler(logger),
		attendanceService: attendanceService,
		reportService:     reportService,
	}
}

// Scan records the caller's attendance for a session.
func (h *AttendanceHandler) Scan(c *gin.Context) {
	var req services.ScanAttendanceRequest
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

	h.LogRequest(c, "Recording attendance scan", "session_id", req.SessionID, "student_id", user.ID)

	receipt, err := h.attendanceService.Scan(c.Request.Context(), &req, user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{Success: true, Data: receipt})
}

// MyAttendance lists the caller's own attendance records.
func (h *AttendanceHandler) MyAttendance(c *gin.Context) {
	user := h.currentUser(c)
	if user == nil {
		return
	}

	resp, err := h.attendanceService.ListMyAttendance(c.Request.Context(), h.parseFilters(c), user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: resp})
}

// CourseAttendance lists attendance across a course.
func (h *AttendanceHandler) CourseAttendance(c *gin.Context) {
	id := h.parseUUIDParam(c, "id")
	if id == "" {
		return
	}

	user := h.currentUser(c)
	if user == nil {
		return
	}

	resp, err := h.attendanceService.ListCourseAttendance(c.Request.Context(), id, h.parseFilters(c), user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: resp})
}

// ExportCourseAttendance streams a course's attendance as a spreadsheet.
func (h *AttendanceHandler) ExportCourseAttendance(c *gin.Context) {
	id := h.parseUUIDParam(c, "id")
	if id == "" {
		return
	}

	user := h.currentUser(c)
	if user == nil {
		return
	}

	h.LogRequest(c, "Exporting course attendance", "course_id", id, "actor_id", user.ID)

	result, err := h.reportService.ExportCourseAttendance(c.Request.Context(), id, user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}

func (h *AttendanceHandler) parseFilters(c *gin.Context) repositories.AttendanceFilters {
	filters := repositories.AttendanceFilters{}
	if courseID := c.Query("course_id"); courseID != "" {
		filters.CourseID = &courseID
	}
	if sessionID := c.Query("session_id"); sessionID != "" {
		filters.SessionID = &sessionID
	}
	if status := c.Query("status"); status != "" {
		s := models.AttendanceStatus(status)
		filters.Status = &s
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			filters.DateFrom = &t
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			filters.DateTo = &t
		}
	}
	filters.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	filters.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	return filters
}
