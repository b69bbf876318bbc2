package service

import "errors"

var (
	// ErrSlugTaken means a requested custom slug already belongs to a link.
	ErrSlugTaken = errors.New("custom slug is already taken")
	// ErrDuplicateCode means a generated code collided at insert time.
	ErrDuplicateCode = errors.New("generated short code already exists")
	ErrUnauthorized  = errors.New("user not authorized")
	ErrNotFound      = errors.New("link not found")
	ErrValidation    = errors.New("validation failed")
)

// ValidationError carries a user-facing message and matches ErrValidation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func validationError(message string) error {
	return &ValidationError{Message: message}
}
