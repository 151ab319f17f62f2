package postgres

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/attendance-service/internal/repositories"
)

// SharedHelpers contains common database query building operations
type SharedHelpers struct {
	db *gorm.DB
}

func NewSharedHelpers(db *gorm.DB) *SharedHelpers {
	return &SharedHelpers{db: db}
}

// ApplyCourseFilters applies common filters to course queries
func (h *SharedHelpers) ApplyCourseFilters(query *gorm.DB, filters repositories.CourseFilters) *gorm.DB {
	if filters.Department != nil {
		query = query.Where("department = ?", *filters.Department)
	}
	if filters.LecturerID != nil {
		query = query.Where("lecturer_id = ?", *filters.LecturerID)
	}
	return query
}

// ApplySessionFilters applies common filters to session queries
func (h *SharedHelpers) ApplySessionFilters(query *gorm.DB, filters repositories.SessionFilters) *gorm.DB {
	if filters.CourseID != nil {
		query = query.Where("course_id = ?", *filters.CourseID)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.DateFrom != nil {
		query = query.Where("date >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("date <= ?", *filters.DateTo)
	}
	return query
}

// ApplyAttendanceFilters applies common filters to attendance queries
func (h *SharedHelpers) ApplyAttendanceFilters(query *gorm.DB, filters repositories.AttendanceFilters) *gorm.DB {
	if filters.CourseID != nil {
		query = query.Where("course_id = ?", *filters.CourseID)
	}
	if filters.SessionID != nil {
		query = query.Where("session_id = ?", *filters.SessionID)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.DateFrom != nil {
		query = query.Where("scan_time >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("scan_time <= ?", *filters.DateTo)
	}
	return query
}

// ApplyPagination applies limit/offset with sane defaults
func (h *SharedHelpers) ApplyPagination(query *gorm.DB, limit, offset int) *gorm.DB {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return query.Limit(limit).Offset(offset)
}

// ApplySorting applies ordering restricted to known columns
func (h *SharedHelpers) ApplySorting(query *gorm.DB, sortBy, sortOrder, defaultColumn string) *gorm.DB {
	allowed := map[string]bool{
		"code":       true,
		"name":       true,
		"date":       true,
		"start_time": true,
		"scan_time":  true,
		"created_at": true,
	}
	if !allowed[sortBy] {
		sortBy = defaultColumn
	}
	if sortOrder != "desc" {
		sortOrder = "asc"
	}
	return query.Order(fmt.Sprintf("%s %s", sortBy, sortOrder))
}
