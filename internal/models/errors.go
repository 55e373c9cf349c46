package models

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")

	ErrVersionConflict    = fmt.Errorf("%w: item was modified concurrently", ErrConflict)
	ErrItemDecommissioned = fmt.Errorf("%w: item is decommissioned", ErrConflict)
	ErrBookingOverlap     = fmt.Errorf("%w: lab is already booked for that time", ErrConflict)
)

// ValidationError names the offending field using its wire name.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
