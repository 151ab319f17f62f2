package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/attendance-service/internal/auth"
	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
	"github.com/SAP-F-2025/attendance-service/internal/services"
	"github.com/SAP-F-2025/attendance-service/internal/utils"
)

type HandlerManager struct {
	authHandler       *AuthHandler
	courseHandler     *CourseHandler
	sessionHandler    *SessionHandler
	attendanceHandler *AttendanceHandler
	dashboardHandler  *DashboardHandler
	authMiddleware    *JWTAuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	tokens *auth.TokenManager,
	logger utils.Logger,
	userRepo repositories.UserRepository,
) *HandlerManager {
	return &HandlerManager{
		authHandler:       NewAuthHandler(serviceManager.Auth(), logger),
		courseHandler:     NewCourseHandler(serviceManager.Course(), logger),
		sessionHandler:    NewSessionHandler(serviceManager.Session(), logger),
		attendanceHandler: NewAttendanceHandler(serviceManager.Attendance(), serviceManager.Report(), logger),
		dashboardHandler:  NewDashboardHandler(serviceManager.Dashboard(), logger),
		authMiddleware:    NewJWTAuthMiddleware(tokens, userRepo),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", HealthCheck)

	v1 := router.Group("/api/v1")

	// Registration and login are the only unauthenticated routes.
	authRoutes := v1.Group("/auth")
	{
		authRoutes.POST("/register", hm.authHandler.Register)
		authRoutes.POST("/login", hm.authHandler.Login)
		authRoutes.GET("/me", hm.authMiddleware.AuthMiddleware(), hm.authHandler.Me)
	}

	authed := v1.Group("")
	authed.Use(hm.authMiddleware.AuthMiddleware())
	{
		courses := authed.Group("/courses")
		{
			courses.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleLecturer, models.RoleAdmin), hm.courseHandler.CreateCourse)
			courses.GET("", hm.courseHandler.ListCourses)
			courses.GET("/:id", hm.courseHandler.GetCourse)
			courses.POST("/:id/enroll", hm.authMiddleware.RequireRoleMiddleware(models.RoleLecturer, models.RoleAdmin), hm.courseHandler.EnrollStudents)
			courses.POST("/:id/class-rep", hm.authMiddleware.RequireRoleMiddleware(models.RoleLecturer, models.RoleAdmin), hm.courseHandler.AssignClassRep)
		}

		classes := authed.Group("/classes")
		{
			classes.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleLecturer, models.RoleClassRep, models.RoleAdmin), hm.sessionHandler.CreateSession)
			classes.GET("/today", hm.sessionHandler.ListToday)
			classes.GET("/:id/qr-code", hm.sessionHandler.GetQRCode)
			classes.PUT("/:id/status", hm.authMiddleware.RequireRoleMiddleware(models.RoleLecturer, models.RoleAdmin), hm.sessionHandler.UpdateStatus)
		}

		attendance := authed.Group("/attendance")
		{
			attendance.POST("/scan", hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent, models.RoleClassRep), hm.attendanceHandler.Scan)
			attendance.GET("/my-attendance", hm.attendanceHandler.MyAttendance)
			attendance.GET("/course/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleLecturer, models.RoleAdmin), hm.attendanceHandler.CourseAttendance)
			attendance.GET("/course/:id/export", hm.authMiddleware.RequireRoleMiddleware(models.RoleLecturer, models.RoleAdmin), hm.attendanceHandler.ExportCourseAttendance)
		}

		authed.GET("/dashboard/stats", hm.dashboardHandler.GetStats)
	}
}

// HealthCheck endpoint
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "attendance-service",
	})
}
