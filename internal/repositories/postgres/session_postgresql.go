package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/attendance-service/internal/cache"
	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
)

type SessionPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewSessionPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.SessionRepository {
	return &SessionPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cacheManager,
	}
}

func (s *SessionPostgreSQL) Create(ctx context.Context, session *models.ClassSession) error {
	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("failed to create class session: %w", err)
	}
	cache.InvalidateSessionCache(ctx, s.cacheManager, session.ID, session.CourseID)
	return nil
}

// GetByID loads a session with its course. Not cached: the QR active flag is
// flipped lazily on read and a stale copy could resurrect an expired code.
func (s *SessionPostgreSQL) GetByID(ctx context.Context, id string) (*models.ClassSession, error) {
	var session models.ClassSession
	err := s.db.WithContext(ctx).
		Preload("Course").
		Preload("Course.Students").
		First(&session, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *SessionPostgreSQL) Update(ctx context.Context, session *models.ClassSession) error {
	if err := s.db.WithContext(ctx).Save(session).Error; err != nil {
		return fmt.Errorf("failed to update class session: %w", err)
	}
	cache.InvalidateSessionCache(ctx, s.cacheManager, session.ID, session.CourseID)
	return nil
}

func (s *SessionPostgreSQL) List(ctx context.Context, filters repositories.SessionFilters) ([]*models.ClassSession, error) {
	query := s.db.WithContext(ctx).Model(&models.ClassSession{})
	query = s.helpers.ApplySessionFilters(query, filters)
	query = s.helpers.ApplyPagination(query, filters.Limit, filters.Offset)
	query = s.helpers.ApplySorting(query, filters.SortBy, filters.SortOrder, "date")

	var sessions []*models.ClassSession
	if err := query.Preload("Course").Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

func (s *SessionPostgreSQL) ListOnDate(ctx context.Context, courseIDs []string, date time.Time) ([]*models.ClassSession, error) {
	if len(courseIDs) == 0 {
		return nil, nil
	}

	dayStart, dayEnd := dayBounds(date)
	var sessions []*models.ClassSession
	err := s.db.WithContext(ctx).
		Preload("Course").
		Where("course_id IN ? AND date >= ? AND date < ?", courseIDs, dayStart, dayEnd).
		Order("start_time ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions on date: %w", err)
	}
	return sessions, nil
}

func (s *SessionPostgreSQL) ListOnDateByLecturer(ctx context.Context, lecturerID string, date time.Time) ([]*models.ClassSession, error) {
	dayStart, dayEnd := dayBounds(date)
	var sessions []*models.ClassSession
	err := s.db.WithContext(ctx).
		Preload("Course").
		Where("lecturer_id = ? AND date >= ? AND date < ?", lecturerID, dayStart, dayEnd).
		Order("start_time ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list lecturer sessions on date: %w", err)
	}
	return sessions, nil
}

func dayBounds(date time.Time) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return start, start.AddDate(0, 0, 1)
}
