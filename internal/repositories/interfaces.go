package repositories

import (
	"context"
	"time"

	"github.com/SAP-F-2025/attendance-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type CourseFilters struct {
	Department *string `json:"department"`
	LecturerID *string `json:"lecturer_id"`
	Limit      int     `json:"limit"`
	Offset     int     `json:"offset"`
	SortBy     string  `json:"sort_by"` // "code", "name", "created_at"
	SortOrder  string  `json:"sort_order"`
}

type SessionFilters struct {
	CourseID  *string               `json:"course_id"`
	Status    *models.SessionStatus `json:"status"`
	DateFrom  *time.Time            `json:"date_from"`
	DateTo    *time.Time            `json:"date_to"`
	Limit     int                   `json:"limit"`
	Offset    int                   `json:"offset"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type AttendanceFilters struct {
	CourseID  *string                  `json:"course_id"`
	SessionID *string                  `json:"session_id"`
	Status    *models.AttendanceStatus `json:"status"`
	DateFrom  *time.Time               `json:"date_from"`
	DateTo    *time.Time               `json:"date_to"`
	Limit     int                      `json:"limit"`
	Offset    int                      `json:"offset"`
}

// ===== SHARED STATISTICS STRUCTS =====

type StudentAttendanceStats struct {
	EnrolledCourses   int64 `json:"enrolled_courses"`
	TotalPastSessions int64 `json:"total_past_sessions"`
	AttendedSessions  int64 `json:"attended_sessions"`
	LateSessions      int64 `json:"late_sessions"`
}

type LecturerTeachingStats struct {
	TotalCourses     int64 `json:"total_courses"`
	TotalSessions    int64 `json:"total_sessions"`
	DistinctStudents int64 `json:"distinct_students"`
}

type SystemStats struct {
	TotalUsers       int64 `json:"total_users"`
	TotalCourses     int64 `json:"total_courses"`
	TotalSessions    int64 `json:"total_sessions"`
	TotalAttendances int64 `json:"total_attendances"`
}

// ===== REPOSITORY INTERFACES =====

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *models.User) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}

type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id string) (*models.Course, error)
	GetByCode(ctx context.Context, code string) (*models.Course, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	List(ctx context.Context, filters CourseFilters) ([]*models.Course, int64, error)
	ListByLecturer(ctx context.Context, lecturerID string) ([]*models.Course, error)
	ListByStudent(ctx context.Context, studentID string) ([]*models.Course, error)
	AddStudents(ctx context.Context, courseID string, studentIDs []string) error
	AddClassRep(ctx context.Context, courseID, studentID string) error
	IsStudentEnrolled(ctx context.Context, courseID, studentID string) (bool, error)
	IsClassRep(ctx context.Context, courseID, studentID string) (bool, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session *models.ClassSession) error
	GetByID(ctx context.Context, id string) (*models.ClassSession, error)
	Update(ctx context.Context, session *models.ClassSession) error
	List(ctx context.Context, filters SessionFilters) ([]*models.ClassSession, error)
	ListOnDate(ctx context.Context, courseIDs []string, date time.Time) ([]*models.ClassSession, error)
	ListOnDateByLecturer(ctx context.Context, lecturerID string, date time.Time) ([]*models.ClassSession, error)
}

type AttendanceRepository interface {
	Create(ctx context.Context, record *models.Attendance) error
	ExistsForStudentSession(ctx context.Context, studentID, sessionID string) (bool, error)
	ListByStudent(ctx context.Context, studentID string, filters AttendanceFilters) ([]*models.Attendance, int64, error)
	ListByCourse(ctx context.Context, courseID string, filters AttendanceFilters) ([]*models.Attendance, int64, error)
}

type DashboardRepository interface {
	GetStudentStats(ctx context.Context, studentID string, now time.Time) (*StudentAttendanceStats, error)
	GetLecturerStats(ctx context.Context, lecturerID string) (*LecturerTeachingStats, error)
	GetSystemStats(ctx context.Context) (*SystemStats, error)
}
