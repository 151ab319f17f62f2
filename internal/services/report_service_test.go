package services

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/attendance-service/internal/models"
)

func TestExportCourseAttendance(t *testing.T) {
	repo := newFakeRepository()
	lecturer := repo.addUser(&models.User{ID: "lect-1", Email: "l@example.com", Role: models.RoleLecturer})
	number := "S-1001"
	student := repo.addUser(&models.User{ID: "stud-1", Email: "s@example.com", FullName: "Ada Student", Role: models.RoleStudent, StudentNumber: &number})
	course := repo.addCourse(&models.Course{ID: "course-1", Code: "CS101", Name: "Intro", LecturerID: lecturer.ID})

	scanTime := time.Date(2025, 3, 10, 9, 5, 0, 0, time.UTC)
	repo.attendances["rec-1"] = &models.Attendance{
		ID:        "rec-1",
		StudentID: student.ID,
		SessionID: "sess-1",
		CourseID:  course.ID,
		Status:    models.AttendancePresent,
		ScanTime:  scanTime,
		Method:    models.MethodQRScan,
		Student:   *student,
		Session:   models.ClassSession{Date: scanTime, StartTime: "09:00"},
	}

	service := &reportService{repo: repo, logger: testLogger()}

	t.Run("other lecturer denied", func(t *testing.T) {
		other := repo.addUser(&models.User{ID: "lect-2", Email: "l2@example.com", Role: models.RoleLecturer})
		_, err := service.ExportCourseAttendance(context.Background(), course.ID, other)
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("ExportCourseAttendance() error = %v, want ErrForbidden", err)
		}
	})

	t.Run("owner gets a readable workbook", func(t *testing.T) {
		result, err := service.ExportCourseAttendance(context.Background(), course.ID, lecturer)
		if err != nil {
			t.Fatalf("ExportCourseAttendance() error = %v", err)
		}
		if result.FileName != "attendance_CS101.xlsx" {
			t.Errorf("file name = %q", result.FileName)
		}

		f, err := excelize.OpenReader(bytes.NewReader(result.Data))
		if err != nil {
			t.Fatalf("workbook does not open: %v", err)
		}
		defer f.Close()

		rows, err := f.GetRows("CS101 Attendance")
		if err != nil {
			t.Fatalf("GetRows() error = %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("rows = %d, want header plus one record", len(rows))
		}
		if rows[1][0] != "Ada Student" || rows[1][4] != "present" {
			t.Errorf("record row = %v", rows[1])
		}
	})

	t.Run("unknown course", func(t *testing.T) {
		_, err := service.ExportCourseAttendance(context.Background(), "missing", lecturer)
		if !errors.Is(err, ErrCourseNotFound) {
			t.Fatalf("ExportCourseAttendance() error = %v, want ErrCourseNotFound", err)
		}
	})
}
