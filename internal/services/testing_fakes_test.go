package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
)

// fakeRepository is an in-memory Repository for service tests. Maps are
// keyed by ID; enrollment and rep membership are (courseID, studentID) sets.
type fakeRepository struct {
	users       map[string]*models.User
	usersByMail map[string]*models.User
	courses     map[string]*models.Course
	sessions    map[string]*models.ClassSession
	attendances map[string]*models.Attendance
	enrollments map[[2]string]bool
	classReps   map[[2]string]bool

	studentStats  *repositories.StudentAttendanceStats
	lecturerStats *repositories.LecturerTeachingStats
	systemStats   *repositories.SystemStats
}

var _ repositories.Repository = (*fakeRepository)(nil)

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		users:       make(map[string]*models.User),
		usersByMail: make(map[string]*models.User),
		courses:     make(map[string]*models.Course),
		sessions:    make(map[string]*models.ClassSession),
		attendances: make(map[string]*models.Attendance),
		enrollments: make(map[[2]string]bool),
		classReps:   make(map[[2]string]bool),
	}
}

func (f *fakeRepository) addUser(u *models.User) *models.User {
	f.users[u.ID] = u
	f.usersByMail[u.Email] = u
	return u
}

func (f *fakeRepository) addCourse(c *models.Course) *models.Course {
	f.courses[c.ID] = c
	return c
}

func (f *fakeRepository) addSession(s *models.ClassSession) *models.ClassSession {
	f.sessions[s.ID] = s
	return s
}

func (f *fakeRepository) enroll(courseID, studentID string) {
	f.enrollments[[2]string{courseID, studentID}] = true
}

func (f *fakeRepository) User() repositories.UserRepository             { return (*fakeUserRepo)(f) }
func (f *fakeRepository) Course() repositories.CourseRepository         { return (*fakeCourseRepo)(f) }
func (f *fakeRepository) Session() repositories.SessionRepository       { return (*fakeSessionRepo)(f) }
func (f *fakeRepository) Attendance() repositories.AttendanceRepository { return (*fakeAttendanceRepo)(f) }
func (f *fakeRepository) Dashboard() repositories.DashboardRepository   { return (*fakeDashboardRepo)(f) }

func (f *fakeRepository) WithTransaction(_ context.Context, fn func(repositories.Repository) error) error {
	return fn(f)
}

func (f *fakeRepository) Ping(_ context.Context) error { return nil }
func (f *fakeRepository) Close() error                 { return nil }

// ===== USER =====

type fakeUserRepo fakeRepository

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	if _, ok := f.usersByMail[user.Email]; ok {
		return gorm.ErrDuplicatedKey
	}
	f.users[user.ID] = user
	f.usersByMail[user.Email] = user
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := f.usersByMail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := f.usersByMail[email]
	return ok, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	if u, ok := f.users[id]; ok {
		u.LastLoginAt = &at
	}
	return nil
}

// ===== COURSE =====

type fakeCourseRepo fakeRepository

func (f *fakeCourseRepo) Create(_ context.Context, course *models.Course) error {
	for _, c := range f.courses {
		if c.Code == course.Code {
			return gorm.ErrDuplicatedKey
		}
	}
	f.courses[course.ID] = course
	return nil
}

func (f *fakeCourseRepo) GetByID(_ context.Context, id string) (*models.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (f *fakeCourseRepo) GetByCode(_ context.Context, code string) (*models.Course, error) {
	for _, c := range f.courses {
		if c.Code == code {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCourseRepo) ExistsByCode(_ context.Context, code string) (bool, error) {
	for _, c := range f.courses {
		if c.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCourseRepo) List(_ context.Context, _ repositories.CourseFilters) ([]*models.Course, int64, error) {
	var out []*models.Course
	for _, c := range f.courses {
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (f *fakeCourseRepo) ListByLecturer(_ context.Context, lecturerID string) ([]*models.Course, error) {
	var out []*models.Course
	for _, c := range f.courses {
		if c.LecturerID == lecturerID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCourseRepo) ListByStudent(_ context.Context, studentID string) ([]*models.Course, error) {
	var out []*models.Course
	for key := range f.enrollments {
		if key[1] == studentID {
			if c, ok := f.courses[key[0]]; ok {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

func (f *fakeCourseRepo) AddStudents(_ context.Context, courseID string, studentIDs []string) error {
	for _, id := range studentIDs {
		f.enrollments[[2]string{courseID, id}] = true
	}
	return nil
}

func (f *fakeCourseRepo) AddClassRep(_ context.Context, courseID, studentID string) error {
	f.classReps[[2]string{courseID, studentID}] = true
	return nil
}

func (f *fakeCourseRepo) IsStudentEnrolled(_ context.Context, courseID, studentID string) (bool, error) {
	return f.enrollments[[2]string{courseID, studentID}], nil
}

func (f *fakeCourseRepo) IsClassRep(_ context.Context, courseID, studentID string) (bool, error) {
	return f.classReps[[2]string{courseID, studentID}], nil
}

// ===== SESSION =====

type fakeSessionRepo fakeRepository

func (f *fakeSessionRepo) Create(_ context.Context, session *models.ClassSession) error {
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeSessionRepo) GetByID(_ context.Context, id string) (*models.ClassSession, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (f *fakeSessionRepo) Update(_ context.Context, session *models.ClassSession) error {
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeSessionRepo) List(_ context.Context, _ repositories.SessionFilters) ([]*models.ClassSession, error) {
	var out []*models.ClassSession
	for _, s := range f.sessions {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeSessionRepo) ListOnDate(_ context.Context, courseIDs []string, date time.Time) ([]*models.ClassSession, error) {
	wanted := make(map[string]bool, len(courseIDs))
	for _, id := range courseIDs {
		wanted[id] = true
	}
	var out []*models.ClassSession
	for _, s := range f.sessions {
		if wanted[s.CourseID] && sameDay(s.Date, date) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSessionRepo) ListOnDateByLecturer(_ context.Context, lecturerID string, date time.Time) ([]*models.ClassSession, error) {
	var out []*models.ClassSession
	for _, s := range f.sessions {
		if s.LecturerID == lecturerID && sameDay(s.Date, date) {
			out = append(out, s)
		}
	}
	return out, nil
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// ===== ATTENDANCE =====

type fakeAttendanceRepo fakeRepository

func (f *fakeAttendanceRepo) Create(_ context.Context, record *models.Attendance) error {
	for _, r := range f.attendances {
		if r.StudentID == record.StudentID && r.SessionID == record.SessionID {
			return gorm.ErrDuplicatedKey
		}
	}
	f.attendances[record.ID] = record
	return nil
}

func (f *fakeAttendanceRepo) ExistsForStudentSession(_ context.Context, studentID, sessionID string) (bool, error) {
	for _, r := range f.attendances {
		if r.StudentID == studentID && r.SessionID == sessionID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAttendanceRepo) ListByStudent(_ context.Context, studentID string, _ repositories.AttendanceFilters) ([]*models.Attendance, int64, error) {
	var out []*models.Attendance
	for _, r := range f.attendances {
		if r.StudentID == studentID {
			out = append(out, r)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeAttendanceRepo) ListByCourse(_ context.Context, courseID string, filters repositories.AttendanceFilters) ([]*models.Attendance, int64, error) {
	var out []*models.Attendance
	for _, r := range f.attendances {
		if r.CourseID == courseID {
			out = append(out, r)
		}
	}
	if filters.Offset >= len(out) {
		return nil, int64(len(out)), nil
	}
	return out, int64(len(out)), nil
}

// ===== DASHBOARD =====

type fakeDashboardRepo fakeRepository

func (f *fakeDashboardRepo) GetStudentStats(_ context.Context, _ string, _ time.Time) (*repositories.StudentAttendanceStats, error) {
	if f.studentStats != nil {
		return f.studentStats, nil
	}
	return &repositories.StudentAttendanceStats{}, nil
}

func (f *fakeDashboardRepo) GetLecturerStats(_ context.Context, _ string) (*repositories.LecturerTeachingStats, error) {
	if f.lecturerStats != nil {
		return f.lecturerStats, nil
	}
	return &repositories.LecturerTeachingStats{}, nil
}

func (f *fakeDashboardRepo) GetSystemStats(_ context.Context) (*repositories.SystemStats, error) {
	if f.systemStats != nil {
		return f.systemStats, nil
	}
	return &repositories.SystemStats{}, nil
}

// testLogger discards everything.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
