package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
	"github.com/SAP-F-2025/attendance-service/internal/validator"
)

// lateThreshold is the grace period after class start. A scan exactly at the
// boundary still counts as present; only strictly later scans are late.
const lateThreshold = 15 * time.Minute

// ===== SERVICE INTERFACE =====

type AttendanceService interface {
	Scan(ctx context.Context, req *ScanAttendanceRequest, actor *models.User) (*ScanReceipt, error)
	ListMyAttendance(ctx context.Context, filters repositories.AttendanceFilters, actor *models.User) (*AttendanceListResponse, error)
	ListCourseAttendance(ctx context.Context, courseID string, filters repositories.AttendanceFilters, actor *models.User) (*AttendanceListResponse, error)
}

// ===== SERVICE IMPLEMENTATION =====

type attendanceService struct {
	repo      repositories.Repository
	events    *notificationEventService
	logger    *slog.Logger
	validator *validator.Validator
	now       func() time.Time
}

func NewAttendanceService(repo repositories.Repository, events *notificationEventService, logger *slog.Logger, v *validator.Validator) AttendanceService {
	return &attendanceService{
		repo:      repo,
		events:    events,
		logger:    logger,
		validator: v,
		now:       time.Now,
	}
}

// Scan records attendance from a QR scan. Checks run in order: the session
// must exist, its QR must still be valid, the student must be enrolled, and
// no earlier record may exist for the pair. The composite unique index
// backs the final check, so a lost race still comes back as a duplicate.
func (s *attendanceService) Scan(ctx context.Context, req *ScanAttendanceRequest, actor *models.User) (*ScanReceipt, error) {
	if actor.Role != models.RoleStudent && actor.Role != models.RoleClassRep {
		return nil, NewPermissionError(actor.ID, req.SessionID, "attendance", "scan", "only students can scan attendance")
	}

	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	session, err := s.repo.Session().GetByID(ctx, req.SessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	scanTime := s.now()
	if !session.QRActive {
		return nil, ErrQRInactive
	}
	if session.QRExpiresAt == nil || !scanTime.Before(*session.QRExpiresAt) {
		return nil, ErrQRExpired
	}

	enrolled, err := s.repo.Course().IsStudentEnrolled(ctx, session.CourseID, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check enrollment: %w", err)
	}
	if !enrolled {
		return nil, ErrNotEnrolled
	}

	// Fast path. The unique index catches whatever slips through.
	exists, err := s.repo.Attendance().ExistsForStudentSession(ctx, actor.ID, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing attendance: %w", err)
	}
	if exists {
		return nil, ErrAttendanceAlreadyMarked
	}

	record := &models.Attendance{
		ID:        uuid.New().String(),
		StudentID: actor.ID,
		SessionID: session.ID,
		CourseID:  session.CourseID,
		Status:    classify(scanTime, session.ClassStart()),
		ScanTime:  scanTime,
		Method:    models.MethodQRScan,
	}
	if len(req.DeviceInfo) > 0 {
		if data, err := json.Marshal(req.DeviceInfo); err == nil {
			record.DeviceInfo = datatypes.JSON(data)
		}
	}
	if req.Location != nil {
		if data, err := json.Marshal(req.Location); err == nil {
			record.Location = datatypes.JSON(data)
		}
	}

	if err := s.repo.Attendance().Create(ctx, record); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrAttendanceAlreadyMarked
		}
		return nil, fmt.Errorf("failed to record attendance: %w", err)
	}

	s.events.PublishAttendanceRecorded(ctx, record)

	s.logger.Info("Attendance recorded",
		"record_id", record.ID,
		"student_id", actor.ID,
		"session_id", session.ID,
		"status", record.Status)

	return &ScanReceipt{
		RecordID:   record.ID,
		CourseCode: session.Course.Code,
		ScanTime:   record.ScanTime,
		Status:     record.Status,
	}, nil
}

func (s *attendanceService) ListMyAttendance(ctx context.Context, filters repositories.AttendanceFilters, actor *models.User) (*AttendanceListResponse, error) {
	records, total, err := s.repo.Attendance().ListByStudent(ctx, actor.ID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return &AttendanceListResponse{Records: records, Total: total}, nil
}

func (s *attendanceService) ListCourseAttendance(ctx context.Context, courseID string, filters repositories.AttendanceFilters, actor *models.User) (*AttendanceListResponse, error) {
	course, err := s.repo.Course().GetByID(ctx, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	if actor.Role != models.RoleAdmin && course.LecturerID != actor.ID {
		return nil, NewPermissionError(actor.ID, courseID, "attendance", "list", "only the course lecturer or an admin can view course attendance")
	}

	records, total, err := s.repo.Attendance().ListByCourse(ctx, courseID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list course attendance: %w", err)
	}
	return &AttendanceListResponse{Records: records, Total: total}, nil
}

// classify decides present vs late from the scan instant and class start.
// Scans at or before start+threshold are present, including early scans.
func classify(scanTime, classStart time.Time) models.AttendanceStatus {
	if scanTime.After(classStart.Add(lateThreshold)) {
		return models.AttendanceLate
	}
	return models.AttendancePresent
}
