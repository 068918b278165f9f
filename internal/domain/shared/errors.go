// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidEntity = errors.New("invalid entity")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrNegativeValue   = errors.New("value cannot be negative")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidFormat   = errors.New("invalid format")

	// State errors
	ErrInvalidState     = errors.New("invalid state")
	ErrAlreadyProcessed = errors.New("already processed")
	ErrExpired          = errors.New("expired")

	// External service errors
	ErrExternalService    = errors.New("external service error")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("operation timeout")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "profile", "subject", "schedule"
	Op      string // Operation that failed, e.g., "ApplyGain", "Update"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Profile domain errors
var (
	ErrProfileNotFound  = NewDomainError("profile", "Find", ErrNotFound, "profile not found")
	ErrNegativeGain     = NewDomainError("profile", "ApplyGain", ErrNegativeValue, "experience gain cannot be negative")
	ErrInvalidThreshold = NewDomainError("profile", "Validate", ErrValueOutOfRange, "experience threshold must be positive")
	ErrInvalidRating    = NewDomainError("profile", "Validate", ErrValueOutOfRange, "rating must be between 0 and 100")
)

// Subject domain errors
var (
	ErrSubjectNotFound  = NewDomainError("subject", "Find", ErrNotFound, "subject not found")
	ErrSubjectExists    = NewDomainError("subject", "Create", ErrAlreadyExists, "subject already exists")
	ErrEmptySubjectName = NewDomainError("subject", "Validate", ErrEmptyValue, "subject name cannot be empty")
)

// Schedule domain errors
var (
	ErrEntryNotFound     = NewDomainError("schedule", "Find", ErrNotFound, "schedule entry not found")
	ErrReminderNotFound  = NewDomainError("schedule", "FindReminder", ErrNotFound, "reminder not found")
	ErrInvalidDayTime    = NewDomainError("schedule", "Validate", ErrInvalidFormat, "time must be in HH:mm format")
	ErrAmbiguousReminder = NewDomainError("schedule", "Validate", ErrInvalidInput, "reminder cannot be both recurring and one-time")
)

// Notification domain errors
var (
	ErrNotificationNotFound = NewDomainError("notification", "Find", ErrNotFound, "notification not found")
	ErrEmptyMessage         = NewDomainError("notification", "Validate", ErrEmptyValue, "notification message cannot be empty")
)

// External service errors
var (
	ErrMentorUnavailable     = NewDomainError("mentor", "Request", ErrServiceUnavailable, "mentor service is unavailable")
	ErrMentorTimeout         = NewDomainError("mentor", "Request", ErrTimeout, "mentor service request timeout")
	ErrMentorInvalidResponse = NewDomainError("mentor", "Parse", ErrInvalidFormat, "invalid response from mentor service")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrNegativeValue) ||
		errors.Is(err, ErrValueOutOfRange) ||
		errors.Is(err, ErrInvalidFormat)
}

// IsExternalService checks if the error is from an external service.
func IsExternalService(err error) bool {
	return errors.Is(err, ErrExternalService) ||
		errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrTimeout)
}
