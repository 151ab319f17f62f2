package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/attendance-service/internal/cache"
	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
)

type CoursePostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewCoursePostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.CourseRepository {
	return &CoursePostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cacheManager,
	}
}

// Create creates a new course and invalidates list caches
func (c *CoursePostgreSQL) Create(ctx context.Context, course *models.Course) error {
	if err := c.db.WithContext(ctx).Create(course).Error; err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}
	cache.SafeInvalidatePattern(ctx, c.cacheManager.Course, "list:*")
	return nil
}

// GetByID retrieves a course with schedules, students and class reps, cached
func (c *CoursePostgreSQL) GetByID(ctx context.Context, id string) (*models.Course, error) {
	cacheKey := fmt.Sprintf("id:%s", id)
	var course models.Course

	err := c.cacheManager.Course.CacheOrExecute(ctx, cacheKey, &course, cache.CourseCacheConfig.TTL, func() (interface{}, error) {
		var dbCourse models.Course
		err := c.db.WithContext(ctx).
			Preload("Schedules").
			Preload("Students").
			Preload("ClassReps").
			First(&dbCourse, "id = ?", id).Error
		if err != nil {
			return nil, err
		}
		return &dbCourse, nil
	})
	if err != nil {
		return nil, err
	}

	return &course, nil
}

func (c *CoursePostgreSQL) GetByCode(ctx context.Context, code string) (*models.Course, error) {
	var course models.Course
	err := c.db.WithContext(ctx).
		Preload("Schedules").
		First(&course, "code = ?", code).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *CoursePostgreSQL) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := c.db.WithContext(ctx).
		Model(&models.Course{}).
		Where("code = ?", code).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check course code: %w", err)
	}
	return count > 0, nil
}

func (c *CoursePostgreSQL) List(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	query := c.db.WithContext(ctx).Model(&models.Course{})
	query = c.helpers.ApplyCourseFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count courses: %w", err)
	}

	query = c.helpers.ApplyPagination(query, filters.Limit, filters.Offset)
	query = c.helpers.ApplySorting(query, filters.SortBy, filters.SortOrder, "code")

	var courses []*models.Course
	if err := query.Preload("Schedules").Find(&courses).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list courses: %w", err)
	}

	return courses, total, nil
}

func (c *CoursePostgreSQL) ListByLecturer(ctx context.Context, lecturerID string) ([]*models.Course, error) {
	var courses []*models.Course
	err := c.db.WithContext(ctx).
		Preload("Schedules").
		Where("lecturer_id = ?", lecturerID).
		Order("code ASC").
		Find(&courses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list lecturer courses: %w", err)
	}
	return courses, nil
}

func (c *CoursePostgreSQL) ListByStudent(ctx context.Context, studentID string) ([]*models.Course, error) {
	var courses []*models.Course
	err := c.db.WithContext(ctx).
		Preload("Schedules").
		Joins("JOIN course_enrollments ce ON ce.course_id = courses.id").
		Where("ce.user_id = ?", studentID).
		Order("courses.code ASC").
		Find(&courses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list student courses: %w", err)
	}
	return courses, nil
}

func (c *CoursePostgreSQL) AddStudents(ctx context.Context, courseID string, studentIDs []string) error {
	course := models.Course{ID: courseID}
	students := make([]models.User, len(studentIDs))
	for i, id := range studentIDs {
		students[i] = models.User{ID: id}
	}

	if err := c.db.WithContext(ctx).Model(&course).Association("Students").Append(students); err != nil {
		return fmt.Errorf("failed to enroll students: %w", err)
	}
	cache.InvalidateCourseCache(ctx, c.cacheManager, courseID)
	return nil
}

func (c *CoursePostgreSQL) AddClassRep(ctx context.Context, courseID, studentID string) error {
	course := models.Course{ID: courseID}
	if err := c.db.WithContext(ctx).Model(&course).Association("ClassReps").Append(&models.User{ID: studentID}); err != nil {
		return fmt.Errorf("failed to assign class rep: %w", err)
	}
	cache.InvalidateCourseCache(ctx, c.cacheManager, courseID)
	return nil
}

func (c *CoursePostgreSQL) IsStudentEnrolled(ctx context.Context, courseID, studentID string) (bool, error) {
	var count int64
	err := c.db.WithContext(ctx).
		Table("course_enrollments").
		Where("course_id = ? AND user_id = ?", courseID, studentID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check enrollment: %w", err)
	}
	return count > 0, nil
}

func (c *CoursePostgreSQL) IsClassRep(ctx context.Context, courseID, studentID string) (bool, error) {
	var count int64
	err := c.db.WithContext(ctx).
		Table("course_class_reps").
		Where("course_id = ? AND user_id = ?", courseID, studentID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check class rep: %w", err)
	}
	return count > 0, nil
}
