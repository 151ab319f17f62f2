package models

import (
	"time"

	"gorm.io/datatypes"
)

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceExcused AttendanceStatus = "excused"
)

type ScanMethod string

const (
	MethodQRScan ScanMethod = "qr_scan"
	MethodManual ScanMethod = "manual"
)

// Attendance records one scan per (student, session) pair. The composite
// unique index is the real duplicate guard; the service-level existence
// check is only a fast path. Records are immutable once written.
type Attendance struct {
	ID        string `json:"id" gorm:"primaryKey;size:36"`
	StudentID string `json:"student_id" gorm:"not null;size:36;uniqueIndex:idx_attendance_student_session"`
	SessionID string `json:"session_id" gorm:"not null;size:36;uniqueIndex:idx_attendance_student_session"`
	CourseID  string `json:"course_id" gorm:"not null;size:36;index"`

	Status   AttendanceStatus `json:"status" gorm:"not null;size:20;index"`
	ScanTime time.Time        `json:"scan_time" gorm:"not null"`
	Method   ScanMethod       `json:"method" gorm:"not null;size:20;default:qr_scan"`

	DeviceInfo datatypes.JSON `json:"device_info,omitempty"`
	Location   datatypes.JSON `json:"location,omitempty"`

	// Relations
	Student User         `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Session ClassSession `json:"session,omitempty" gorm:"foreignKey:SessionID"`
	Course  Course       `json:"course,omitempty" gorm:"foreignKey:CourseID"`

	CreatedAt time.Time `json:"created_at"`
}

func (Attendance) TableName() string {
	return "attendances"
}
