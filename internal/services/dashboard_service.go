package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
)

// ===== RESPONSE DTOs =====

// DashboardStats is a tagged variant over the user's role. Exactly one of
// the role payloads is set, matching the Role field.
type DashboardStats struct {
	Role     models.UserRole    `json:"role"`
	Student  *StudentDashboard  `json:"student,omitempty"`
	Lecturer *LecturerDashboard `json:"lecturer,omitempty"`
	Admin    *AdminDashboard    `json:"admin,omitempty"`
}

type StudentDashboard struct {
	EnrolledCourses   int64   `json:"enrolled_courses"`
	TotalPastSessions int64   `json:"total_past_sessions"`
	AttendedSessions  int64   `json:"attended_sessions"`
	LateSessions      int64   `json:"late_sessions"`
	AttendanceRate    float64 `json:"attendance_rate"`
}

type LecturerDashboard struct {
	TotalCourses     int64 `json:"total_courses"`
	TotalSessions    int64 `json:"total_sessions"`
	DistinctStudents int64 `json:"distinct_students"`
}

type AdminDashboard struct {
	TotalUsers       int64 `json:"total_users"`
	TotalCourses     int64 `json:"total_courses"`
	TotalSessions    int64 `json:"total_sessions"`
	TotalAttendances int64 `json:"total_attendances"`
}

// ===== SERVICE INTERFACE =====

type DashboardService interface {
	GetStats(ctx context.Context, actor *models.User) (*DashboardStats, error)
}

// ===== SERVICE IMPLEMENTATION =====

type dashboardService struct {
	repo   repositories.Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewDashboardService(repo repositories.Repository, logger *slog.Logger) DashboardService {
	return &dashboardService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func (s *dashboardService) GetStats(ctx context.Context, actor *models.User) (*DashboardStats, error) {
	switch actor.Role {
	case models.RoleStudent, models.RoleClassRep:
		return s.studentStats(ctx, actor)
	case models.RoleLecturer:
		return s.lecturerStats(ctx, actor)
	case models.RoleAdmin:
		return s.adminStats(ctx, actor)
	default:
		return nil, NewPermissionError(actor.ID, "", "dashboard", "read", fmt.Sprintf("unknown role %q", actor.Role))
	}
}

func (s *dashboardService) studentStats(ctx context.Context, actor *models.User) (*DashboardStats, error) {
	stats, err := s.repo.Dashboard().GetStudentStats(ctx, actor.ID, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to get student stats: %w", err)
	}

	// Rate over past sessions only; an empty denominator reads as 0, not NaN.
	var rate float64
	if stats.TotalPastSessions > 0 {
		rate = roundRate(float64(stats.AttendedSessions) / float64(stats.TotalPastSessions) * 100)
	}

	return &DashboardStats{
		Role: actor.Role,
		Student: &StudentDashboard{
			EnrolledCourses:   stats.EnrolledCourses,
			TotalPastSessions: stats.TotalPastSessions,
			AttendedSessions:  stats.AttendedSessions,
			LateSessions:      stats.LateSessions,
			AttendanceRate:    rate,
		},
	}, nil
}

func (s *dashboardService) lecturerStats(ctx context.Context, actor *models.User) (*DashboardStats, error) {
	stats, err := s.repo.Dashboard().GetLecturerStats(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lecturer stats: %w", err)
	}
	return &DashboardStats{
		Role: actor.Role,
		Lecturer: &LecturerDashboard{
			TotalCourses:     stats.TotalCourses,
			TotalSessions:    stats.TotalSessions,
			DistinctStudents: stats.DistinctStudents,
		},
	}, nil
}

func (s *dashboardService) adminStats(ctx context.Context, actor *models.User) (*DashboardStats, error) {
	stats, err := s.repo.Dashboard().GetSystemStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get system stats: %w", err)
	}
	return &DashboardStats{
		Role: actor.Role,
		Admin: &AdminDashboard{
			TotalUsers:       stats.TotalUsers,
			TotalCourses:     stats.TotalCourses,
			TotalSessions:    stats.TotalSessions,
			TotalAttendances: stats.TotalAttendances,
		},
	}, nil
}

// roundRate keeps percentages at two decimal places.
func roundRate(v float64) float64 {
	return math.Round(v*100) / 100
}
