package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
)

type AttendancePostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewAttendancePostgreSQL(db *gorm.DB) repositories.AttendanceRepository {
	return &AttendancePostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

// Create inserts one attendance record. The composite unique index on
// (student_id, session_id) rejects a concurrent duplicate; with
// TranslateError enabled the violation surfaces as gorm.ErrDuplicatedKey.
func (a *AttendancePostgreSQL) Create(ctx context.Context, record *models.Attendance) error {
	if err := a.db.WithContext(ctx).Create(record).Error; err != nil {
		if repositories.IsDuplicateError(err) {
			return err
		}
		return fmt.Errorf("failed to create attendance record: %w", err)
	}
	return nil
}

func (a *AttendancePostgreSQL) ExistsForStudentSession(ctx context.Context, studentID, sessionID string) (bool, error) {
	var count int64
	err := a.db.WithContext(ctx).
		Model(&models.Attendance{}).
		Where("student_id = ? AND session_id = ?", studentID, sessionID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check attendance existence: %w", err)
	}
	return count > 0, nil
}

func (a *AttendancePostgreSQL) ListByStudent(ctx context.Context, studentID string, filters repositories.AttendanceFilters) ([]*models.Attendance, int64, error) {
	query := a.db.WithContext(ctx).
		Model(&models.Attendance{}).
		Where("student_id = ?", studentID)
	query = a.helpers.ApplyAttendanceFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance records: %w", err)
	}

	query = a.helpers.ApplyPagination(query, filters.Limit, filters.Offset)

	var records []*models.Attendance
	err := query.
		Preload("Session").
		Preload("Course").
		Order("scan_time DESC").
		Find(&records).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list student attendance: %w", err)
	}

	return records, total, nil
}

func (a *AttendancePostgreSQL) ListByCourse(ctx context.Context, courseID string, filters repositories.AttendanceFilters) ([]*models.Attendance, int64, error) {
	query := a.db.WithContext(ctx).
		Model(&models.Attendance{}).
		Where("course_id = ?", courseID)
	query = a.helpers.ApplyAttendanceFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance records: %w", err)
	}

	query = a.helpers.ApplyPagination(query, filters.Limit, filters.Offset)

	var records []*models.Attendance
	err := query.
		Preload("Student").
		Preload("Session").
		Order("scan_time DESC").
		Find(&records).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list course attendance: %w", err)
	}

	return records, total, nil
}
