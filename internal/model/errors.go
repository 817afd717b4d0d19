package model

import "fmt"

// ValidationError reports a project field that failed invariant checks.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("project field %q invalid: %s", e.Field, e.Reason)
}

func errRequired(field string) error {
	return &ValidationError{Field: field, Reason: "required"}
}

func errInvalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
