package fees

import (
	"errors"
	"fmt"
)

// ErrValidation matches every *ValidationError.
var ErrValidation = errors.New("fees: validation failed")

// ValidationError reports a required field missing from an otherwise well-formed
// record.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("fees: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("fees: missing required field %s", e.Field)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func fieldError(field string, err error) error {
	return fmt.Errorf("fees: %s: %w", field, err)
}
