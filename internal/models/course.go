package models

import (
	"time"

	"gorm.io/gorm"
)

type Course struct {
	ID         string `json:"id" gorm:"primaryKey;size:36"`
	Code       string `json:"code" gorm:"uniqueIndex;not null;size:20"`
	Name       string `json:"name" gorm:"not null;size:200"`
	Department string `json:"department" gorm:"size:100;index"`
	Credits    int    `json:"credits" gorm:"not null;default:3"`

	// LecturerID must reference a user whose role is lecturer; enforced at
	// the service layer on create and on lecturer reassignment.
	LecturerID string `json:"lecturer_id" gorm:"not null;size:36;index"`

	// Relations
	Lecturer  User             `json:"lecturer,omitempty" gorm:"foreignKey:LecturerID"`
	Schedules []CourseSchedule `json:"schedules,omitempty" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
	Students  []User           `json:"students,omitempty" gorm:"many2many:course_enrollments"`
	ClassReps []User           `json:"class_reps,omitempty" gorm:"many2many:course_class_reps"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// CourseSchedule is one weekly meeting slot for a course.
type CourseSchedule struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	CourseID  string `json:"course_id" gorm:"not null;size:36;index"`
	Weekday   string `json:"weekday" gorm:"not null;size:10"`
	StartTime string `json:"start_time" gorm:"not null;size:5"` // "15:04"
	EndTime   string `json:"end_time" gorm:"not null;size:5"`
	Venue     string `json:"venue" gorm:"size:100"`
}

func (Course) TableName() string {
	return "courses"
}

func (CourseSchedule) TableName() string {
	return "course_schedules"
}
