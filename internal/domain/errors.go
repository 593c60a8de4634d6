package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidPassword is returned when a password doesn't meet requirements.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrInvalidQuality is returned when a review quality is outside 1-4.
	ErrInvalidQuality = errors.New("invalid review quality")

	// ErrInvalidResponseTime is returned when a response time is not positive.
	ErrInvalidResponseTime = errors.New("response time must be positive")

	// ErrInvalidSessionState is returned when an operation is attempted on a
	// session that is not in the state the operation requires.
	ErrInvalidSessionState = errors.New("invalid session state")

	// ErrGoalValueInvalid is returned when a daily goal value is not positive.
	ErrGoalValueInvalid = errors.New("goal value must be positive")
)
