package services

import (
	"errors"

	apperrors "github.com/hellowhq67/pte-practice-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")
	ErrBadRequest       = errors.New("bad request")
	ErrConflict         = errors.New("resource conflict")

	// Question specific errors
	ErrQuestionNotFound    = errors.New("question not found")
	ErrQuestionInvalidType = errors.New("invalid task type")
	ErrQuestionNoOptions   = errors.New("question has no selectable options")

	// Attempt specific errors
	ErrAttemptNotFound      = errors.New("attempt not found")
	ErrResponseMalformed    = errors.New("response payload is malformed")
	ErrTaskNotScorable      = errors.New("task type has no deterministic scoring rule")
	ErrSubmissionEmpty      = errors.New("submission has no content to score")
	ErrAIScoringUnavailable = errors.New("ai scoring is unavailable")
	ErrAIReportMalformed    = errors.New("ai scorer returned a malformed report")

	// User errors
	ErrUserNotFound  = errors.New("user not found")
	ErrUserDuplicate = errors.New("user already exists")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

// ===== ERROR HELPERS =====

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrAttemptNotFound) ||
		errors.Is(err, ErrUserNotFound)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) ||
		errors.Is(err, ErrQuestionInvalidType) ||
		errors.Is(err, ErrResponseMalformed) ||
		errors.Is(err, ErrSubmissionEmpty) {
		return true
	}
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return true
	}
	var single *ValidationError
	return errors.As(err, &single)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) || errors.Is(err, ErrUserDuplicate)
}

// IsUnavailable checks if error represents a dependency outage
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrAIScoringUnavailable)
}
