package incidents

import (
	"errors"
	"strings"
)

// Repository errors.
var (
	ErrIncidentNotFound = errors.New("incident not found")
)

// ErrValidation is matched by every *ValidationError.
var ErrValidation = errors.New("validation failed")

// ValidationError carries every violation found in a request, in field order.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, ", ")
}

// Is makes errors.Is(err, ErrValidation) true.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func newValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}
