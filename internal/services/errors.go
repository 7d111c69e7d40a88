package services

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateIdentity is returned when registering an email that is
	// already stored.
	ErrDuplicateIdentity = errors.New("email already registered")

	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// FieldFormatError reports a date/time value that matched none of the
// accepted layouts.
type FieldFormatError struct {
	Field string
	Value string
}

func (e *FieldFormatError) Error() string {
	return fmt.Sprintf("Invalid datetime format for %s: %s", e.Field, e.Value)
}

// ValidationError reports a missing or empty required attribute.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

func required(field string) error {
	return &ValidationError{Field: field, Message: "is required"}
}

func notEmpty(field string) error {
	return &ValidationError{Field: field, Message: "must not be empty"}
}
