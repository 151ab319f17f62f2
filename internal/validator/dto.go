package validator

import (
	"time"

	"github.com/SAP-F-2025/attendance-service/internal/models"
)

// RegisterRequest represents the request structure for user registration
type RegisterRequest struct {
	FullName       string          `json:"full_name" validate:"required,min=2,max=100"`
	Email          string          `json:"email" validate:"required,email,max=255"`
	Password       string          `json:"password" validate:"required,min=8,max=72"`
	Role           models.UserRole `json:"role" validate:"required,oneof=student lecturer admin class_rep"`
	Department     string          `json:"department" validate:"omitempty,max=100"`
	StudentNumber  *string         `json:"student_number" validate:"omitempty,max=50"`
	LecturerNumber *string         `json:"lecturer_number" validate:"omitempty,max=50"`
}

// LoginRequest represents the request structure for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ScheduleRequest is one weekly meeting slot on course creation
type ScheduleRequest struct {
	Weekday   string `json:"weekday" validate:"required,weekday"`
	StartTime string `json:"start_time" validate:"required,time_of_day"`
	EndTime   string `json:"end_time" validate:"required,time_of_day"`
	Venue     string `json:"venue" validate:"omitempty,max=100"`
}

// CourseCreateRequest represents the request structure for creating courses
type CourseCreateRequest struct {
	Code       string            `json:"code" validate:"required,course_code"`
	Name       string            `json:"name" validate:"required,min=2,max=200"`
	Department string            `json:"department" validate:"omitempty,max=100"`
	Credits    int               `json:"credits" validate:"required,min=1,max=10"`
	LecturerID *string           `json:"lecturer_id" validate:"omitempty,uuid"` // admin only; lecturers own what they create
	Schedules  []ScheduleRequest `json:"schedules" validate:"omitempty,dive"`
}

// EnrollStudentsRequest adds students to a course roster
type EnrollStudentsRequest struct {
	StudentIDs []string `json:"student_ids" validate:"required,min=1,dive,uuid"`
}

// AssignClassRepRequest promotes an enrolled student to class rep
type AssignClassRepRequest struct {
	StudentID string `json:"student_id" validate:"required,uuid"`
}

// SessionCreateRequest represents the request structure for creating class sessions
type SessionCreateRequest struct {
	CourseID  string    `json:"course_id" validate:"required,uuid"`
	Date      time.Time `json:"date" validate:"required"`
	StartTime string    `json:"start_time" validate:"required,time_of_day"`
	EndTime   string    `json:"end_time" validate:"required,time_of_day"`
	Venue     string    `json:"venue" validate:"omitempty,max=100"`
}

// SessionStatusRequest moves a session through its lifecycle
type SessionStatusRequest struct {
	Status models.SessionStatus `json:"status" validate:"required,oneof=scheduled ongoing completed cancelled"`
}

// GeoPoint is an optional scan location
type GeoPoint struct {
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
}

// ScanAttendanceRequest represents a student's scan of a session QR code
type ScanAttendanceRequest struct {
	SessionID  string            `json:"session_id" validate:"required,uuid"`
	DeviceInfo map[string]string `json:"device_info" validate:"omitempty"`
	Location   *GeoPoint         `json:"location" validate:"omitempty"`
}
