package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")

	ErrCourseNotFound     = errors.New("course not found")
	ErrLessonNotFound     = errors.New("lesson not found")
	ErrStepNotFound       = errors.New("step not found")
	ErrDiscussionNotFound = errors.New("discussion not found")
	ErrCommentNotFound    = errors.New("comment not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrWorkNotFound       = errors.New("student submission not found")

	ErrAlreadyEnrolled  = errors.New("student already enrolled")
	ErrNotEnrolled      = errors.New("student not enrolled in this course")
	ErrAssignmentClosed = errors.New("assignment is closed")
	ErrAssignmentLate   = errors.New("assignment is late")

	ErrValidation = errors.New("validation failed")
)

// ValidationError describes malformed client input. It matches ErrValidation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
