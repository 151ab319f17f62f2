package services

import (
	"context"
	"testing"
	"time"

	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
)

func newDashboardFixture(repo *fakeRepository) *dashboardService {
	return &dashboardService{
		repo:   repo,
		logger: testLogger(),
		now:    time.Now,
	}
}

func TestDashboard_StudentRate(t *testing.T) {
	tests := []struct {
		name     string
		stats    repositories.StudentAttendanceStats
		wantRate float64
	}{
		{
			name:     "typical",
			stats:    repositories.StudentAttendanceStats{TotalPastSessions: 20, AttendedSessions: 17},
			wantRate: 85,
		},
		{
			name:     "rounds to two decimals",
			stats:    repositories.StudentAttendanceStats{TotalPastSessions: 3, AttendedSessions: 2},
			wantRate: 66.67,
		},
		{
			name:     "no past sessions",
			stats:    repositories.StudentAttendanceStats{TotalPastSessions: 0, AttendedSessions: 0},
			wantRate: 0,
		},
		{
			name:     "perfect attendance",
			stats:    repositories.StudentAttendanceStats{TotalPastSessions: 8, AttendedSessions: 8},
			wantRate: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepository()
			stats := tt.stats
			repo.studentStats = &stats

			service := newDashboardFixture(repo)
			actor := &models.User{ID: "stud-1", Role: models.RoleStudent}

			got, err := service.GetStats(context.Background(), actor)
			if err != nil {
				t.Fatalf("GetStats() error = %v", err)
			}
			if got.Student == nil {
				t.Fatal("student payload missing")
			}
			if got.Lecturer != nil || got.Admin != nil {
				t.Error("only the student payload may be set")
			}
			if got.Student.AttendanceRate != tt.wantRate {
				t.Errorf("rate = %v, want %v", got.Student.AttendanceRate, tt.wantRate)
			}
		})
	}
}

func TestDashboard_RoleVariants(t *testing.T) {
	repo := newFakeRepository()
	repo.lecturerStats = &repositories.LecturerTeachingStats{TotalCourses: 3, TotalSessions: 24, DistinctStudents: 80}
	repo.systemStats = &repositories.SystemStats{TotalUsers: 500, TotalCourses: 40, TotalSessions: 900, TotalAttendances: 15000}
	service := newDashboardFixture(repo)

	t.Run("lecturer", func(t *testing.T) {
		got, err := service.GetStats(context.Background(), &models.User{ID: "lect-1", Role: models.RoleLecturer})
		if err != nil {
			t.Fatalf("GetStats() error = %v", err)
		}
		if got.Lecturer == nil || got.Lecturer.TotalCourses != 3 {
			t.Errorf("lecturer payload = %+v", got.Lecturer)
		}
		if got.Student != nil || got.Admin != nil {
			t.Error("only the lecturer payload may be set")
		}
	})

	t.Run("admin", func(t *testing.T) {
		got, err := service.GetStats(context.Background(), &models.User{ID: "admin-1", Role: models.RoleAdmin})
		if err != nil {
			t.Fatalf("GetStats() error = %v", err)
		}
		if got.Admin == nil || got.Admin.TotalUsers != 500 {
			t.Errorf("admin payload = %+v", got.Admin)
		}
	})

	t.Run("class rep gets student view", func(t *testing.T) {
		got, err := service.GetStats(context.Background(), &models.User{ID: "rep-1", Role: models.RoleClassRep})
		if err != nil {
			t.Fatalf("GetStats() error = %v", err)
		}
		if got.Student == nil {
			t.Error("class rep should receive the student payload")
		}
	})
}
