package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/attendance-service/internal/repositories"
	"github.com/SAP-F-2025/attendance-service/internal/services"
	"github.com/SAP-F-2025/attendance-service/internal/utils"
)

type CourseHandler struct {
	BaseHandler
	courseService services.CourseService
}

func NewCourseHandler(courseService services.CourseService, logger utils.Logger) *CourseHandler {
	return &CourseHandler{
		BaseHandler:   NewBaseHandler(logger),
		courseService: courseService,
	}
}

func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req services.CreateCourseRequest
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

	h.LogRequest(c, "Creating course", "code", req.Code, "actor_id", user.ID)

	course, err := h.courseService.Create(c.Request.Context(), &req, user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{Success: true, Data: course})
}

func (h *CourseHandler) ListCourses(c *gin.Context) {
	user := h.currentUser(c)
	if user == nil {
		return
	}

	filters := repositories.CourseFilters{
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if dept := c.Query("department"); dept != "" {
		filters.Department = &dept
	}
	filters.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	filters.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	resp, err := h.courseService.List(c.Request.Context(), filters, user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: resp})
}

func (h *CourseHandler) GetCourse(c *gin.Context) {
	id := h.parseUUIDParam(c, "id")
	if id == "" {
		return
	}

	user := h.currentUser(c)
	if user == nil {
		return
	}

	course, err := h.courseService.GetByID(c.Request.Context(), id, user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: course})
}

func (h *CourseHandler) EnrollStudents(c *gin.Context) {
	id := h.parseUUIDParam(c, "id")
	if id == "" {
		return
	}

	var req services.EnrollStudentsRequest
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

	h.LogRequest(c, "Enrolling students", "course_id", id, "count", len(req.StudentIDs))

	if err := h.courseService.EnrollStudents(c.Request.Context(), id, &req, user); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "students enrolled"})
}

func (h *CourseHandler) AssignClassRep(c *gin.Context) {
	id := h.parseUUIDParam(c, "id")
	if id == "" {
		return
	}

	var req services.AssignClassRepRequest
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

	if err := h.courseService.AssignClassRep(c.Request.Context(), id, &req, user); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "class rep assigned"})
}
