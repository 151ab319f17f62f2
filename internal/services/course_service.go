package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
	"github.com/SAP-F-2025/attendance-service/internal/validator"
)

// ===== SERVICE INTERFACE =====

type CourseService interface {
	Create(ctx context.Context, req *CreateCourseRequest, actor *models.User) (*models.Course, error)
	GetByID(ctx context.Context, courseID string, actor *models.User) (*models.Course, error)
	List(ctx context.Context, filters repositories.CourseFilters, actor *models.User) (*CourseListResponse, error)
	EnrollStudents(ctx context.Context, courseID string, req *EnrollStudentsRequest, actor *models.User) error
	AssignClassRep(ctx context.Context, courseID string, req *AssignClassRepRequest, actor *models.User) error
}

// ===== SERVICE IMPLEMENTATION =====

type courseService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewCourseService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator) CourseService {
	return &courseService{
		repo:      repo,
		logger:    logger,
		validator: v,
	}
}

func (s *courseService) Create(ctx context.Context, req *CreateCourseRequest, actor *models.User) (*models.Course, error) {
	s.logger.Info("Creating course", "code", req.Code, "actor_id", actor.ID)

	if !actor.Role.IsStaff() {
		return nil, NewPermissionError(actor.ID, "", "course", "create", "only lecturers and admins can create courses")
	}

	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	// Lecturers own what they create; admins must name an owner.
	lecturerID := actor.ID
	if req.LecturerID != nil {
		if actor.Role != models.RoleAdmin {
			return nil, NewPermissionError(actor.ID, *req.LecturerID, "course", "create", "only admins can assign another lecturer")
		}
		lecturerID = *req.LecturerID
	} else if actor.Role == models.RoleAdmin {
		return nil, NewBusinessRuleError("course_owner_required", "admin-created courses must name a lecturer_id")
	}

	lecturer, err := s.repo.User().GetByID(ctx, lecturerID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get lecturer: %w", err)
	}
	if lecturer.Role != models.RoleLecturer {
		return nil, NewBusinessRuleError("course_owner_role", "course owner must have the lecturer role")
	}

	exists, err := s.repo.Course().ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to check course code: %w", err)
	}
	if exists {
		return nil, ErrDuplicateCourseCode
	}

	for _, sched := range req.Schedules {
		if errs := s.validator.GetBusinessValidator().ValidateSessionTimes(sched.StartTime, sched.EndTime); len(errs) > 0 {
			return nil, fmt.Errorf("%w: %v", ErrValidationFailed, errs)
		}
	}

	course := &models.Course{
		ID:         uuid.New().String(),
		Code:       req.Code,
		Name:       req.Name,
		Department: req.Department,
		Credits:    req.Credits,
		LecturerID: lecturerID,
	}
	for _, sched := range req.Schedules {
		course.Schedules = append(course.Schedules, models.CourseSchedule{
			Weekday:   sched.Weekday,
			StartTime: sched.StartTime,
			EndTime:   sched.EndTime,
			Venue:     sched.Venue,
		})
	}

	if err := s.repo.Course().Create(ctx, course); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrDuplicateCourseCode
		}
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	s.logger.Info("Course created", "course_id", course.ID, "code", course.Code)
	return course, nil
}

func (s *courseService) GetByID(ctx context.Context, courseID string, actor *models.User) (*models.Course, error) {
	course, err := s.repo.Course().GetByID(ctx, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	if err := s.checkCourseAccess(ctx, course, actor); err != nil {
		return nil, err
	}
	return course, nil
}

// List scopes results by role: students see their enrollments, lecturers
// their own courses, admins everything.
func (s *courseService) List(ctx context.Context, filters repositories.CourseFilters, actor *models.User) (*CourseListResponse, error) {
	switch actor.Role {
	case models.RoleStudent, models.RoleClassRep:
		courses, err := s.repo.Course().ListByStudent(ctx, actor.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list enrolled courses: %w", err)
		}
		return &CourseListResponse{Courses: courses, Total: int64(len(courses))}, nil

	case models.RoleLecturer:
		courses, err := s.repo.Course().ListByLecturer(ctx, actor.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list taught courses: %w", err)
		}
		return &CourseListResponse{Courses: courses, Total: int64(len(courses))}, nil

	case models.RoleAdmin:
		courses, total, err := s.repo.Course().List(ctx, filters)
		if err != nil {
			return nil, fmt.Errorf("failed to list courses: %w", err)
		}
		return &CourseListResponse{Courses: courses, Total: total}, nil

	default:
		return nil, NewPermissionError(actor.ID, "", "course", "list", fmt.Sprintf("unknown role %q", actor.Role))
	}
}

func (s *courseService) EnrollStudents(ctx context.Context, courseID string, req *EnrollStudentsRequest, actor *models.User) error {
	if err := s.validator.Validate(req); err != nil {
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	course, err := s.repo.Course().GetByID(ctx, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("failed to get course: %w", err)
	}

	if err := s.checkCourseManage(course, actor, "enroll"); err != nil {
		return err
	}

	// Every listed ID must be an existing student before any row is added.
	for _, studentID := range req.StudentIDs {
		student, err := s.repo.User().GetByID(ctx, studentID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return fmt.Errorf("%w: %s", ErrUserNotFound, studentID)
			}
			return fmt.Errorf("failed to get student %s: %w", studentID, err)
		}
		if student.Role != models.RoleStudent && student.Role != models.RoleClassRep {
			return NewBusinessRuleError("enrollment_role", fmt.Sprintf("user %s is not a student", studentID))
		}
	}

	if err := s.repo.Course().AddStudents(ctx, courseID, req.StudentIDs); err != nil {
		return fmt.Errorf("failed to enroll students: %w", err)
	}

	s.logger.Info("Students enrolled", "course_id", courseID, "count", len(req.StudentIDs))
	return nil
}

func (s *courseService) AssignClassRep(ctx context.Context, courseID string, req *AssignClassRepRequest, actor *models.User) error {
	if err := s.validator.Validate(req); err != nil {
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	course, err := s.repo.Course().GetByID(ctx, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("failed to get course: %w", err)
	}

	if err := s.checkCourseManage(course, actor, "assign class rep"); err != nil {
		return err
	}

	enrolled, err := s.repo.Course().IsStudentEnrolled(ctx, courseID, req.StudentID)
	if err != nil {
		return fmt.Errorf("failed to check enrollment: %w", err)
	}
	if !enrolled {
		return NewBusinessRuleError("class_rep_enrollment", "class rep must be an enrolled student of the course")
	}

	if err := s.repo.Course().AddClassRep(ctx, courseID, req.StudentID); err != nil {
		return fmt.Errorf("failed to assign class rep: %w", err)
	}

	s.logger.Info("Class rep assigned", "course_id", courseID, "student_id", req.StudentID)
	return nil
}

// ===== ACCESS HELPERS =====

// checkCourseAccess allows reads by the owning lecturer, enrolled students
// and admins.
func (s *courseService) checkCourseAccess(ctx context.Context, course *models.Course, actor *models.User) error {
	if actor.Role == models.RoleAdmin || course.LecturerID == actor.ID {
		return nil
	}
	enrolled, err := s.repo.Course().IsStudentEnrolled(ctx, course.ID, actor.ID)
	if err != nil {
		return fmt.Errorf("failed to check enrollment: %w", err)
	}
	if !enrolled {
		return NewPermissionError(actor.ID, course.ID, "course", "read", "not enrolled in course")
	}
	return nil
}

// checkCourseManage allows roster changes by the owning lecturer and admins.
func (s *courseService) checkCourseManage(course *models.Course, actor *models.User, action string) error {
	if actor.Role == models.RoleAdmin {
		return nil
	}
	if actor.Role == models.RoleLecturer && course.LecturerID == actor.ID {
		return nil
	}
	return NewPermissionError(actor.ID, course.ID, "course", action, "only the course lecturer or an admin can manage the roster")
}
