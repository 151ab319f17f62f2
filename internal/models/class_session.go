package models

import (
	"time"

	"gorm.io/gorm"
)

type SessionStatus string

const (
	SessionScheduled SessionStatus = "scheduled"
	SessionOngoing   SessionStatus = "ongoing"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
)

// ClassSession is a single scheduled occurrence of a course meeting.
// Its QR artifact is a passive deadline: usable only while QRActive is true
// and the current time is before QRExpiresAt.
type ClassSession struct {
	ID         string        `json:"id" gorm:"primaryKey;size:36"`
	CourseID   string        `json:"course_id" gorm:"not null;size:36;index"`
	LecturerID string        `json:"lecturer_id" gorm:"not null;size:36;index"`
	Date       time.Time     `json:"date" gorm:"not null;index"`
	StartTime  string        `json:"start_time" gorm:"not null;size:5"` // "15:04"
	EndTime    string        `json:"end_time" gorm:"not null;size:5"`
	Venue      string        `json:"venue" gorm:"size:100"`
	Status     SessionStatus `json:"status" gorm:"not null;size:20;index;default:scheduled"`

	// QR artifact
	QRPayload   string     `json:"-" gorm:"type:text"`
	QRImage     string     `json:"qr_image,omitempty" gorm:"type:text"` // base64 PNG data URL
	QRExpiresAt *time.Time `json:"qr_expires_at"`
	QRActive    bool       `json:"qr_active" gorm:"not null;default:false"`

	// Relations
	Course   Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
	Lecturer User   `json:"lecturer,omitempty" gorm:"foreignKey:LecturerID"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// QRValidAt reports whether the QR artifact is usable at the given instant.
func (s *ClassSession) QRValidAt(now time.Time) bool {
	return s.QRActive && s.QRExpiresAt != nil && now.Before(*s.QRExpiresAt)
}

// ClassStart combines the session date with its start time-of-day.
func (s *ClassSession) ClassStart() time.Time {
	start, err := time.Parse("15:04", s.StartTime)
	if err != nil {
		return s.Date
	}
	return time.Date(s.Date.Year(), s.Date.Month(), s.Date.Day(),
		start.Hour(), start.Minute(), 0, 0, s.Date.Location())
}

func (ClassSession) TableName() string {
	return "class_sessions"
}
