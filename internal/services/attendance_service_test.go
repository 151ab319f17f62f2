package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SAP-F-2025/attendance-service/internal/events"
	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
	"github.com/SAP-F-2025/attendance-service/internal/validator"
)

type scanFixture struct {
	repo    *fakeRepository
	service *attendanceService
	mock    *events.MockEventPublisher
	student *models.User
	session *models.ClassSession
	clock   *time.Time
}

// newScanFixture builds a course with one enrolled student and one session
// whose class starts at classStart and whose QR expires three hours after
// issuance.
func newScanFixture(t *testing.T, classStart time.Time) *scanFixture {
	t.Helper()

	repo := newFakeRepository()
	lecturer := repo.addUser(&models.User{ID: "lect-1", Email: "lect@example.com", Role: models.RoleLecturer})
	student := repo.addUser(&models.User{ID: "stud-1", Email: "stud@example.com", Role: models.RoleStudent})
	course := repo.addCourse(&models.Course{ID: "course-1", Code: "CS101", Name: "Intro", LecturerID: lecturer.ID})
	repo.enroll(course.ID, student.ID)

	expiresAt := classStart.Add(3 * time.Hour)
	session := repo.addSession(&models.ClassSession{
		ID:          "7f5f0c2e-9d8b-4a6e-8c1d-3a2b1c0d9e8f",
		CourseID:    course.ID,
		LecturerID:  lecturer.ID,
		Date:        classStart,
		StartTime:   classStart.Format("15:04"),
		EndTime:     classStart.Add(2 * time.Hour).Format("15:04"),
		Status:      models.SessionScheduled,
		QRExpiresAt: &expiresAt,
		QRActive:    true,
		Course:      *course,
	})

	clock := classStart
	mock := events.NewMockEventPublisher(testLogger())
	service := &attendanceService{
		repo:      repo,
		events:    newNotificationEventService(mock, testLogger()),
		logger:    testLogger(),
		validator: validator.New(),
		now:       func() time.Time { return clock },
	}

	return &scanFixture{
		repo:    repo,
		service: service,
		mock:    mock,
		student: student,
		session: session,
		clock:   &clock,
	}
}

func TestScan_Classification(t *testing.T) {
	classStart := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		offset time.Duration
		want   models.AttendanceStatus
	}{
		{"before class start", -20 * time.Minute, models.AttendancePresent},
		{"on time", 0, models.AttendancePresent},
		{"ten minutes in", 10 * time.Minute, models.AttendancePresent},
		{"exactly at the grace boundary", 15 * time.Minute, models.AttendancePresent},
		{"one minute past grace", 16 * time.Minute, models.AttendanceLate},
		{"an hour in", time.Hour, models.AttendanceLate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newScanFixture(t, classStart)
			*fx.clock = classStart.Add(tt.offset)

			receipt, err := fx.service.Scan(context.Background(), &ScanAttendanceRequest{SessionID: fx.session.ID}, fx.student)
			if err != nil {
				t.Fatalf("Scan() error = %v", err)
			}
			if receipt.Status != tt.want {
				t.Errorf("Scan() status = %q, want %q", receipt.Status, tt.want)
			}
			if receipt.CourseCode != "CS101" {
				t.Errorf("Scan() course code = %q, want CS101", receipt.CourseCode)
			}
		})
	}
}

func TestScan_DuplicateRejected(t *testing.T) {
	classStart := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	fx := newScanFixture(t, classStart)

	req := &ScanAttendanceRequest{SessionID: fx.session.ID}
	if _, err := fx.service.Scan(context.Background(), req, fx.student); err != nil {
		t.Fatalf("first Scan() error = %v", err)
	}

	_, err := fx.service.Scan(context.Background(), req, fx.student)
	if !errors.Is(err, ErrAttendanceAlreadyMarked) {
		t.Fatalf("second Scan() error = %v, want ErrAttendanceAlreadyMarked", err)
	}

	if n := len(fx.repo.attendances); n != 1 {
		t.Errorf("attendance records = %d, want 1", n)
	}
}

func TestScan_RaceLostToUniqueIndex(t *testing.T) {
	classStart := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	fx := newScanFixture(t, classStart)

	// Simulate the window between the existence check and the insert by
	// seeding a record the fast path cannot see until Create runs.
	fx.repo.attendances["other"] = &models.Attendance{
		ID:        "other",
		StudentID: fx.student.ID,
		SessionID: fx.session.ID,
		CourseID:  fx.session.CourseID,
	}

	_, err := fx.service.Scan(context.Background(), &ScanAttendanceRequest{SessionID: fx.session.ID}, fx.student)
	if !errors.Is(err, ErrAttendanceAlreadyMarked) {
		t.Fatalf("Scan() error = %v, want ErrAttendanceAlreadyMarked", err)
	}
}

func TestScan_ExpiredQR(t *testing.T) {
	classStart := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	fx := newScanFixture(t, classStart)

	// One second past the deadline.
	*fx.clock = fx.session.QRExpiresAt.Add(time.Second)

	_, err := fx.service.Scan(context.Background(), &ScanAttendanceRequest{SessionID: fx.session.ID}, fx.student)
	if !errors.Is(err, ErrQRExpired) {
		t.Fatalf("Scan() error = %v, want ErrQRExpired", err)
	}
	if len(fx.repo.attendances) != 0 {
		t.Error("expired scan must not write a record")
	}
}

func TestScan_InactiveQR(t *testing.T) {
	classStart := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	fx := newScanFixture(t, classStart)
	fx.session.QRActive = false

	_, err := fx.service.Scan(context.Background(), &ScanAttendanceRequest{SessionID: fx.session.ID}, fx.student)
	if !errors.Is(err, ErrQRInactive) {
		t.Fatalf("Scan() error = %v, want ErrQRInactive", err)
	}
}

func TestScan_NotEnrolled(t *testing.T) {
	classStart := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	fx := newScanFixture(t, classStart)

	outsider := fx.repo.addUser(&models.User{ID: "stud-2", Email: "other@example.com", Role: models.RoleStudent})

	// The QR itself is still valid; enrollment alone decides.
	_, err := fx.service.Scan(context.Background(), &ScanAttendanceRequest{SessionID: fx.session.ID}, outsider)
	if !errors.Is(err, ErrNotEnrolled) {
		t.Fatalf("Scan() error = %v, want ErrNotEnrolled", err)
	}
	if len(fx.repo.attendances) != 0 {
		t.Error("rejected scan must not write a record")
	}
}

func TestScan_UnknownSession(t *testing.T) {
	classStart := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	fx := newScanFixture(t, classStart)

	_, err := fx.service.Scan(context.Background(), &ScanAttendanceRequest{SessionID: "b2a7e0c8-0f4a-4d7e-9b8a-111111111111"}, fx.student)
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("Scan() error = %v, want ErrSessionNotFound", err)
	}
}

func TestScan_LecturerCannotScan(t *testing.T) {
	classStart := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	fx := newScanFixture(t, classStart)

	lecturer := fx.repo.users["lect-1"]
	_, err := fx.service.Scan(context.Background(), &ScanAttendanceRequest{SessionID: fx.session.ID}, lecturer)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("Scan() error = %v, want ErrForbidden", err)
	}
}

func TestScan_PublishesEvent(t *testing.T) {
	classStart := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	fx := newScanFixture(t, classStart)

	receipt, err := fx.service.Scan(context.Background(), &ScanAttendanceRequest{SessionID: fx.session.ID}, fx.student)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	published := fx.mock.GetPublishedEvents()
	if len(published) != 1 {
		t.Fatalf("published events = %d, want 1", len(published))
	}
	evt := published[0]
	if evt.Type != events.TypeAttendanceRecorded {
		t.Errorf("event type = %q, want %q", evt.Type, events.TypeAttendanceRecorded)
	}
	if evt.Source != events.EventSource {
		t.Errorf("event source = %q, want %q", evt.Source, events.EventSource)
	}
	data, ok := evt.Data.(AttendanceRecordedEvent)
	if !ok {
		t.Fatalf("event data type = %T", evt.Data)
	}
	if data.RecordID != receipt.RecordID {
		t.Errorf("event record id = %q, want %q", data.RecordID, receipt.RecordID)
	}
}

func TestListCourseAttendance_OwnershipRequired(t *testing.T) {
	classStart := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	fx := newScanFixture(t, classStart)

	other := fx.repo.addUser(&models.User{ID: "lect-2", Email: "other-lect@example.com", Role: models.RoleLecturer})

	_, err := fx.service.ListCourseAttendance(context.Background(), "course-1", repositories.AttendanceFilters{}, other)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("ListCourseAttendance() error = %v, want ErrForbidden", err)
	}

	owner := fx.repo.users["lect-1"]
	if _, err := fx.service.ListCourseAttendance(context.Background(), "course-1", repositories.AttendanceFilters{}, owner); err != nil {
		t.Fatalf("ListCourseAttendance() as owner error = %v", err)
	}
}
