package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleStudent  UserRole = "student"
	RoleLecturer UserRole = "lecturer"
	RoleAdmin    UserRole = "admin"
	RoleClassRep UserRole = "class_rep"
)

// IsStaff reports whether the role can manage courses.
func (r UserRole) IsStaff() bool {
	return r == RoleLecturer || r == RoleAdmin
}

type User struct {
	ID           string   `json:"id" gorm:"primaryKey;size:36"`
	FullName     string   `json:"full_name" gorm:"not null;size:100"`
	Email        string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	PasswordHash string   `json:"-" gorm:"not null;size:100"`
	Role         UserRole `json:"role" gorm:"not null;size:20;index;default:student"`
	Department   string   `json:"department" gorm:"size:100"`

	// Institutional identifiers, role-dependent
	StudentNumber  *string `json:"student_number,omitempty" gorm:"size:50;index"`
	LecturerNumber *string `json:"lecturer_number,omitempty" gorm:"size:50;index"`

	LastLoginAt *time.Time `json:"last_login_at"`

	// Relations
	EnrolledCourses []Course `json:"enrolled_courses,omitempty" gorm:"many2many:course_enrollments"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}
