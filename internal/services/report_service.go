package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
)

// ===== SERVICE INTERFACE =====

type ReportService interface {
	ExportCourseAttendance(ctx context.Context, courseID string, actor *models.User) (*ExportResult, error)
}

// ExportResult carries a rendered spreadsheet ready to stream to the client.
type ExportResult struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ===== SERVICE IMPLEMENTATION =====

type reportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewReportService(repo repositories.Repository, logger *slog.Logger) ReportService {
	return &reportService{
		repo:   repo,
		logger: logger,
	}
}

// ExportCourseAttendance renders every attendance record of a course as an
// xlsx workbook. Access mirrors the course attendance listing: the owning
// lecturer or an admin.
func (s *reportService) ExportCourseAttendance(ctx context.Context, courseID string, actor *models.User) (*ExportResult, error) {
	course, err := s.repo.Course().GetByID(ctx, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	if actor.Role != models.RoleAdmin && course.LecturerID != actor.ID {
		return nil, NewPermissionError(actor.ID, courseID, "attendance report", "export", "only the course lecturer or an admin can export attendance")
	}

	// Export everything, page by page, so large courses do not truncate.
	var records []*models.Attendance
	filters := repositories.AttendanceFilters{Limit: 100}
	for {
		page, _, err := s.repo.Attendance().ListByCourse(ctx, courseID, filters)
		if err != nil {
			return nil, fmt.Errorf("failed to list course attendance: %w", err)
		}
		records = append(records, page...)
		if len(page) < filters.Limit {
			break
		}
		filters.Offset += filters.Limit
	}

	data, err := renderAttendanceWorkbook(course, records)
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}

	s.logger.Info("Attendance report exported", "course_id", courseID, "records", len(records))

	return &ExportResult{
		FileName:    fmt.Sprintf("attendance_%s.xlsx", course.Code),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        data,
	}, nil
}

func renderAttendanceWorkbook(course *models.Course, records []*models.Attendance) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Attendance"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Student", "Student Number", "Session Date", "Start", "Status", "Scan Time", "Method"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for row, record := range records {
		studentNumber := ""
		if record.Student.StudentNumber != nil {
			studentNumber = *record.Student.StudentNumber
		}
		values := []interface{}{
			record.Student.FullName,
			studentNumber,
			record.Session.Date.Format("2006-01-02"),
			record.Session.StartTime,
			string(record.Status),
			record.ScanTime.Format("2006-01-02 15:04:05"),
			string(record.Method),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	if err := f.SetSheetName(sheet, fmt.Sprintf("%s Attendance", course.Code)); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
