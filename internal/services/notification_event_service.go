package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/attendance-service/internal/events"
	"github.com/SAP-F-2025/attendance-service/internal/models"
)

// notificationEventService publishes domain events. Publication is
// best-effort: a broker outage never fails the request that triggered it.
type notificationEventService struct {
	eventPublisher events.EventPublisher
	logger         *slog.Logger
}

func newNotificationEventService(publisher events.EventPublisher, logger *slog.Logger) *notificationEventService {
	return &notificationEventService{
		eventPublisher: publisher,
		logger:         logger,
	}
}

type UserRegisteredEvent struct {
	UserID string          `json:"user_id"`
	Email  string          `json:"email"`
	Role   models.UserRole `json:"role"`
}

type SessionCreatedEvent struct {
	SessionID string    `json:"session_id"`
	CourseID  string    `json:"course_id"`
	Date      time.Time `json:"date"`
	ExpiresAt time.Time `json:"qr_expires_at"`
}

type AttendanceRecordedEvent struct {
	RecordID  string                  `json:"record_id"`
	StudentID string                  `json:"student_id"`
	SessionID string                  `json:"session_id"`
	CourseID  string                  `json:"course_id"`
	Status    models.AttendanceStatus `json:"status"`
	ScanTime  time.Time               `json:"scan_time"`
}

func (s *notificationEventService) PublishUserRegistered(ctx context.Context, user *models.User) {
	s.publish(ctx, events.TypeUserRegistered, UserRegisteredEvent{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
}

func (s *notificationEventService) PublishSessionCreated(ctx context.Context, session *models.ClassSession) {
	evt := SessionCreatedEvent{
		SessionID: session.ID,
		CourseID:  session.CourseID,
		Date:      session.Date,
	}
	if session.QRExpiresAt != nil {
		evt.ExpiresAt = *session.QRExpiresAt
	}
	s.publish(ctx, events.TypeSessionCreated, evt)
}

func (s *notificationEventService) PublishAttendanceRecorded(ctx context.Context, record *models.Attendance) {
	s.publish(ctx, events.TypeAttendanceRecorded, AttendanceRecordedEvent{
		RecordID:  record.ID,
		StudentID: record.StudentID,
		SessionID: record.SessionID,
		CourseID:  record.CourseID,
		Status:    record.Status,
		ScanTime:  record.ScanTime,
	})
}

func (s *notificationEventService) publish(ctx context.Context, eventType string, data interface{}) {
	evt := events.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    events.EventSource,
		Version:   events.EventVersion,
		Timestamp: time.Now(),
		Data:      data,
	}

	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Error("Failed to publish event", "type", eventType, "error", err)
	}
}
