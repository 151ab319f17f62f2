package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/qr"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
	"github.com/SAP-F-2025/attendance-service/internal/validator"
)

// ===== SERVICE INTERFACE =====

type SessionService interface {
	Create(ctx context.Context, req *CreateSessionRequest, actor *models.User) (*SessionResponse, error)
	GetByID(ctx context.Context, sessionID string, actor *models.User) (*models.ClassSession, error)
	GetQRCode(ctx context.Context, sessionID string, actor *models.User) (*QRCodeResponse, error)
	ListToday(ctx context.Context, actor *models.User) ([]*models.ClassSession, error)
	UpdateStatus(ctx context.Context, sessionID string, req *SessionStatusRequest, actor *models.User) (*models.ClassSession, error)
}

// ===== SERVICE IMPLEMENTATION =====

type sessionService struct {
	repo      repositories.Repository
	events    *notificationEventService
	logger    *slog.Logger
	validator *validator.Validator
	now       func() time.Time
}

func NewSessionService(repo repositories.Repository, events *notificationEventService, logger *slog.Logger, v *validator.Validator) SessionService {
	return &sessionService{
		repo:      repo,
		events:    events,
		logger:    logger,
		validator: v,
		now:       time.Now,
	}
}

// Create opens a session for a course meeting and issues its QR code in the
// same step. The artifact is scannable for qr.DefaultTTL from issuance.
func (s *sessionService) Create(ctx context.Context, req *CreateSessionRequest, actor *models.User) (*SessionResponse, error) {
	s.logger.Info("Creating class session", "course_id", req.CourseID, "actor_id", actor.ID)

	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	if errs := s.validator.GetBusinessValidator().ValidateSessionTimes(req.StartTime, req.EndTime); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, errs)
	}

	course, err := s.repo.Course().GetByID(ctx, req.CourseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	if err := s.checkSessionIssuer(ctx, course, actor); err != nil {
		return nil, err
	}

	now := s.now()
	expiresAt := now.Add(qr.DefaultTTL)

	session := &models.ClassSession{
		ID:          uuid.New().String(),
		CourseID:    course.ID,
		LecturerID:  course.LecturerID,
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Venue:       req.Venue,
		Status:      models.SessionScheduled,
		QRExpiresAt: &expiresAt,
		QRActive:    true,
	}

	payload := qr.NewPayload(session.ID, course.ID, now)
	encoded, err := payload.Encode()
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr payload: %w", err)
	}
	image, err := qr.RenderPNG(encoded, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to render qr code: %w", err)
	}
	session.QRPayload = encoded
	session.QRImage = image

	if err := s.repo.Session().Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.events.PublishSessionCreated(ctx, session)

	s.logger.Info("Class session created", "session_id", session.ID, "qr_expires_at", expiresAt)
	return &SessionResponse{ClassSession: session, QRImage: session.QRImage}, nil
}

func (s *sessionService) GetByID(ctx context.Context, sessionID string, actor *models.User) (*models.ClassSession, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.checkSessionAccess(ctx, session, actor); err != nil {
		return nil, err
	}
	s.reconcileExpiry(ctx, session)
	return session, nil
}

// GetQRCode returns the scannable artifact for a session. Expiry is decided
// here, against the stored deadline; a lapsed artifact is deactivated and
// persisted before the error goes out.
func (s *sessionService) GetQRCode(ctx context.Context, sessionID string, actor *models.User) (*QRCodeResponse, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.checkSessionAccess(ctx, session, actor); err != nil {
		return nil, err
	}

	if expired := s.reconcileExpiry(ctx, session); expired {
		return nil, ErrQRExpired
	}
	if !session.QRActive {
		return nil, ErrQRInactive
	}

	resp := &QRCodeResponse{
		SessionID: session.ID,
		QRImage:   session.QRImage,
	}
	if session.QRExpiresAt != nil {
		resp.ExpiresAt = *session.QRExpiresAt
	}
	if session.Course.ID != "" {
		resp.Course = CourseSummary{ID: session.Course.ID, Code: session.Course.Code, Name: session.Course.Name}
	}
	return resp, nil
}

// ListToday returns today's sessions scoped by role: lecturers see sessions
// they teach, students see sessions of courses they are enrolled in, admins
// see everything scheduled today.
func (s *sessionService) ListToday(ctx context.Context, actor *models.User) ([]*models.ClassSession, error) {
	today := s.now()

	switch actor.Role {
	case models.RoleLecturer:
		return s.repo.Session().ListOnDateByLecturer(ctx, actor.ID, today)

	case models.RoleStudent, models.RoleClassRep:
		courses, err := s.repo.Course().ListByStudent(ctx, actor.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list enrolled courses: %w", err)
		}
		if len(courses) == 0 {
			return []*models.ClassSession{}, nil
		}
		courseIDs := make([]string, 0, len(courses))
		for _, c := range courses {
			courseIDs = append(courseIDs, c.ID)
		}
		return s.repo.Session().ListOnDate(ctx, courseIDs, today)

	case models.RoleAdmin:
		dayStart := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
		dayEnd := dayStart.AddDate(0, 0, 1)
		return s.repo.Session().List(ctx, repositories.SessionFilters{
			DateFrom: &dayStart,
			DateTo:   &dayEnd,
			SortBy:   "start_time",
		})

	default:
		return nil, NewPermissionError(actor.ID, "", "session", "list", fmt.Sprintf("unknown role %q", actor.Role))
	}
}

func (s *sessionService) UpdateStatus(ctx context.Context, sessionID string, req *SessionStatusRequest, actor *models.User) (*models.ClassSession, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if actor.Role != models.RoleAdmin && session.LecturerID != actor.ID {
		return nil, NewPermissionError(actor.ID, sessionID, "session", "update status", "only the session lecturer or an admin can change status")
	}

	session.Status = req.Status
	if req.Status == models.SessionCancelled || req.Status == models.SessionCompleted {
		// A closed session stops accepting scans regardless of the deadline.
		session.QRActive = false
	}

	if err := s.repo.Session().Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	s.logger.Info("Session status updated", "session_id", sessionID, "status", req.Status)
	return session, nil
}

// ===== HELPERS =====

func (s *sessionService) loadSession(ctx context.Context, sessionID string) (*models.ClassSession, error) {
	session, err := s.repo.Session().GetByID(ctx, sessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// reconcileExpiry flips QRActive off once the deadline has passed and
// persists the flip. Returns whether the artifact is past its deadline.
func (s *sessionService) reconcileExpiry(ctx context.Context, session *models.ClassSession) bool {
	if session.QRExpiresAt == nil || s.now().Before(*session.QRExpiresAt) {
		return false
	}
	if session.QRActive {
		session.QRActive = false
		if err := s.repo.Session().Update(ctx, session); err != nil {
			// The read-time comparison already rejects the scan; the flip is
			// only bookkeeping.
			s.logger.Warn("Failed to persist qr deactivation", "session_id", session.ID, "error", err)
		}
	}
	return true
}

// checkSessionIssuer allows the owning lecturer, a class rep of the course
// and admins to open sessions.
func (s *sessionService) checkSessionIssuer(ctx context.Context, course *models.Course, actor *models.User) error {
	if actor.Role == models.RoleAdmin {
		return nil
	}
	if actor.Role == models.RoleLecturer && course.LecturerID == actor.ID {
		return nil
	}
	isRep, err := s.repo.Course().IsClassRep(ctx, course.ID, actor.ID)
	if err != nil {
		return fmt.Errorf("failed to check class rep: %w", err)
	}
	if isRep {
		return nil
	}
	return NewPermissionError(actor.ID, course.ID, "session", "create", "only the course lecturer, a class rep or an admin can open sessions")
}

// checkSessionAccess allows the owning lecturer, enrolled students and
// admins to view a session and its QR code.
func (s *sessionService) checkSessionAccess(ctx context.Context, session *models.ClassSession, actor *models.User) error {
	if actor.Role == models.RoleAdmin || session.LecturerID == actor.ID {
		return nil
	}
	enrolled, err := s.repo.Course().IsStudentEnrolled(ctx, session.CourseID, actor.ID)
	if err != nil {
		return fmt.Errorf("failed to check enrollment: %w", err)
	}
	if !enrolled {
		return NewPermissionError(actor.ID, session.ID, "session", "read", "not enrolled in the session's course")
	}
	return nil
}
