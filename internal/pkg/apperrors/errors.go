package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// Cascade errors
	ErrIntegrityFailure = errors.New("integrity failure during cascade")
)

// Auth boundary errors
var (
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenInvalid  = errors.New("invalid token")
	ErrInvalidFormat = errors.New("invalid token format")
)

// User errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrStudentNotFound    = errors.New("student not found")
	ErrInstructorNotFound = errors.New("instructor not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// Course errors
var (
	ErrCourseNotFound   = errors.New("course not found")
	ErrNotCourseMember  = errors.New("student is not enrolled in the course")
	ErrAlreadyInCourse  = errors.New("student is already enrolled in the course")
	ErrGradeNotFound    = errors.New("grade record not found")
	ErrCourseValidation = errors.New("course validation failed")
)

// Resit exam errors
var (
	ErrResitExamNotFound = errors.New("resit exam not found")
	ErrResitExamExists   = errors.New("course already has a resit exam")
	ErrInvalidSchedule   = errors.New("invalid exam schedule")
	ErrInvalidLetterSet  = errors.New("invalid letters-allowed set")
)

// Enrollment and result errors
var (
	ErrAlreadyEnrolled = errors.New("student is already enrolled in the resit exam")
	ErrNotEnrolled     = errors.New("student is not enrolled in the resit exam")
	ErrNotEligible     = errors.New("student is not eligible for the resit exam")
	ErrDeadlinePassed  = errors.New("enrollment deadline has passed")
	ErrInvalidGrade    = errors.New("invalid grade value")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewValidationError creates a new custom error for failed validation with a message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}
