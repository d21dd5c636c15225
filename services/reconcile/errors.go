package reconcile

import (
	"errors"
	"fmt"
)

// ErrAgentNotFound is returned when the referring agent does not exist.
var ErrAgentNotFound = errors.New("agent not found")

// ValidationError reports capture data that cannot be reconciled. Nothing is
// written when it is returned.
type ValidationError struct {
	Message string
	Details map[string]any
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Details)
}

func newValidationError(msg string, details map[string]any) error {
	return &ValidationError{Message: msg, Details: details}
}
