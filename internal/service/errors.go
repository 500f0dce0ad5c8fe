package service

import "errors"

// --- Error Definitions ---
// Handlers map these to HTTP status codes with errors.Is.
var (
	ErrValidation = errors.New("validation failed")

	ErrUserAlreadyExists    = errors.New("user with this email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
	ErrInvalidToken         = errors.New("invalid session token")
	ErrTokenExpired         = errors.New("session token has expired")
	ErrTokenRevoked         = errors.New("session token has been revoked")
	ErrUserNotFound         = errors.New("user not found")

	ErrClientNotFound   = errors.New("client not found")
	ErrSessionNotFound  = errors.New("session not found")
	ErrTemplateNotFound = errors.New("workout template not found")
	ErrProgressNotFound = errors.New("progress measurement not found")
	ErrExerciseExists   = errors.New("an exercise with this name already exists")
	ErrNoPhoto          = errors.New("measurement has no photo")
	ErrPhotoUnavailable = errors.New("photo storage is not configured")
)

// invalid wraps ErrValidation with a field-specific reason.
func invalid(reason string) error {
	return &validationError{reason: reason}
}

type validationError struct {
	reason string
}

func (e *validationError) Error() string { return e.reason }

func (e *validationError) Unwrap() error { return ErrValidation }
