package services

import (
	"context"
	"time"

	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/validator"
)

// ===== REQUEST DTOs =====

// Use business validator types
type RegisterRequest = validator.RegisterRequest
type LoginRequest = validator.LoginRequest
type CreateCourseRequest = validator.CourseCreateRequest
type ScheduleRequest = validator.ScheduleRequest
type EnrollStudentsRequest = validator.EnrollStudentsRequest
type AssignClassRepRequest = validator.AssignClassRepRequest
type CreateSessionRequest = validator.SessionCreateRequest
type SessionStatusRequest = validator.SessionStatusRequest
type ScanAttendanceRequest = validator.ScanAttendanceRequest

// ===== RESPONSE DTOs =====

type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

type CourseListResponse struct {
	Courses []*models.Course `json:"courses"`
	Total   int64            `json:"total"`
}

type CourseSummary struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

type SessionResponse struct {
	*models.ClassSession
	QRImage string `json:"qr_image,omitempty"`
}

type QRCodeResponse struct {
	SessionID string        `json:"session_id"`
	Course    CourseSummary `json:"course"`
	QRImage   string        `json:"qr_image"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// ScanReceipt is the minimal confirmation returned after a recorded scan.
type ScanReceipt struct {
	RecordID   string                  `json:"record_id"`
	CourseCode string                  `json:"course_code"`
	ScanTime   time.Time               `json:"scan_time"`
	Status     models.AttendanceStatus `json:"status"`
}

type AttendanceListResponse struct {
	Records []*models.Attendance `json:"records"`
	Total   int64                `json:"total"`
}

// ===== SERVICE MANAGER =====

// ServiceManager wires and owns all service instances.
type ServiceManager interface {
	Auth() AuthService
	Course() CourseService
	Session() SessionService
	Attendance() AttendanceService
	Dashboard() DashboardService
	Report() ReportService

	Initialize(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
