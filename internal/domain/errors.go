package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingProfileField indicates a required physiological input is absent.
	ErrMissingProfileField = errors.New("missing required profile field")
	// ErrProfileNotFound is returned when no profile exists for the user.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrPlanNotFound is returned when a plan cannot be located.
	ErrPlanNotFound = errors.New("plan not found")
	// ErrPlanOwnership is returned when a plan belongs to a different user.
	ErrPlanOwnership = errors.New("plan belongs to another user")
)

// MissingFieldError names the absent profile field.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingProfileField, e.Field)
}

// Is lets errors.Is match ErrMissingProfileField.
func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingProfileField
}
