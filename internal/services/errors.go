package services

import (
	"errors"
	"fmt"
)

// Sentinel errors mapped to HTTP statuses in the handlers.
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrValidationFailed = errors.New("validation failed")

	ErrUserNotFound    = errors.New("user not found")
	ErrCourseNotFound  = errors.New("course not found")
	ErrSessionNotFound = errors.New("class session not found")

	ErrDuplicateEmail      = errors.New("email already registered")
	ErrDuplicateCourseCode = errors.New("course code already exists")
	ErrInvalidCredentials  = errors.New("invalid email or password")

	ErrQRExpired  = errors.New("qr code expired")
	ErrQRInactive = errors.New("qr code not active")

	ErrNotEnrolled             = errors.New("student not enrolled in course")
	ErrAttendanceAlreadyMarked = errors.New("attendance already marked")
)

// PermissionError carries the context of a denied operation. It unwraps to
// ErrForbidden so handlers can match with errors.Is.
type PermissionError struct {
	UserID   string
	Resource string
	TargetID string
	Action   string
	Reason   string
}

func NewPermissionError(userID, targetID, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:   userID,
		TargetID: targetID,
		Resource: resource,
		Action:   action,
		Reason:   reason,
	}
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %s cannot %s %s %s: %s", e.UserID, e.Action, e.Resource, e.TargetID, e.Reason)
}

func (e *PermissionError) Unwrap() error { return ErrForbidden }

// BusinessRuleError reports a domain rule violation on an otherwise valid
// request.
type BusinessRuleError struct {
	Rule    string
	Message string
}

func NewBusinessRuleError(rule, message string) *BusinessRuleError {
	return &BusinessRuleError{Rule: rule, Message: message}
}

func (e *BusinessRuleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Rule, e.Message)
}
