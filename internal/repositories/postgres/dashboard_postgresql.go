package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
)

type DashboardPostgreSQL struct {
	db *gorm.DB
}

func NewDashboardPostgreSQL(db *gorm.DB) repositories.DashboardRepository {
	return &DashboardPostgreSQL{db: db}
}

// GetStudentStats computes the student dashboard counters in a handful of
// aggregate queries. "Past" sessions are those whose combined date and
// start time lie at or before now, cancelled sessions excluded.
func (d *DashboardPostgreSQL) GetStudentStats(ctx context.Context, studentID string, now time.Time) (*repositories.StudentAttendanceStats, error) {
	stats := &repositories.StudentAttendanceStats{}

	enrolled := d.db.WithContext(ctx).
		Table("course_enrollments").
		Select("course_id").
		Where("user_id = ?", studentID)

	err := d.db.WithContext(ctx).
		Table("course_enrollments").
		Where("user_id = ?", studentID).
		Count(&stats.EnrolledCourses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count enrolled courses: %w", err)
	}

	err = d.db.WithContext(ctx).
		Model(&models.ClassSession{}).
		Where("course_id IN (?)", enrolled).
		Where("status <> ?", models.SessionCancelled).
		Where("(date::date + start_time::time) <= ?", now).
		Count(&stats.TotalPastSessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count past sessions: %w", err)
	}

	err = d.db.WithContext(ctx).
		Model(&models.Attendance{}).
		Where("student_id = ?", studentID).
		Where("course_id IN (?)", enrolled).
		Count(&stats.AttendedSessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count attended sessions: %w", err)
	}

	err = d.db.WithContext(ctx).
		Model(&models.Attendance{}).
		Where("student_id = ? AND status = ?", studentID, models.AttendanceLate).
		Where("course_id IN (?)", enrolled).
		Count(&stats.LateSessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count late sessions: %w", err)
	}

	return stats, nil
}

func (d *DashboardPostgreSQL) GetLecturerStats(ctx context.Context, lecturerID string) (*repositories.LecturerTeachingStats, error) {
	stats := &repositories.LecturerTeachingStats{}

	err := d.db.WithContext(ctx).
		Model(&models.Course{}).
		Where("lecturer_id = ?", lecturerID).
		Count(&stats.TotalCourses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count lecturer courses: %w", err)
	}

	err = d.db.WithContext(ctx).
		Model(&models.ClassSession{}).
		Where("lecturer_id = ?", lecturerID).
		Count(&stats.TotalSessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count lecturer sessions: %w", err)
	}

	err = d.db.WithContext(ctx).
		Table("course_enrollments ce").
		Joins("JOIN courses c ON c.id = ce.course_id").
		Where("c.lecturer_id = ?", lecturerID).
		Distinct("ce.user_id").
		Count(&stats.DistinctStudents).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count distinct students: %w", err)
	}

	return stats, nil
}

func (d *DashboardPostgreSQL) GetSystemStats(ctx context.Context) (*repositories.SystemStats, error) {
	stats := &repositories.SystemStats{}

	counts := []struct {
		model interface{}
		dest  *int64
	}{
		{&models.User{}, &stats.TotalUsers},
		{&models.Course{}, &stats.TotalCourses},
		{&models.ClassSession{}, &stats.TotalSessions},
		{&models.Attendance{}, &stats.TotalAttendances},
	}

	for _, c := range counts {
		if err := d.db.WithContext(ctx).Model(c.model).Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("failed to compute system stats: %w", err)
		}
	}

	return stats, nil
}
