package spec

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates a well-formed identifier that matches no record.
	ErrNotFound = errors.New("spec not found")

	// ErrGeneration is the single opaque failure surfaced when the model
	// call fails or its output does not match the expected document shape.
	// The underlying cause is logged server-side only.
	ErrGeneration = errors.New("failed to generate product specification")
)

// FieldError describes a single validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates field-level validation failures for one
// external payload. It always maps to a 400 response.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// ok returns nil when no field failed, so validators can end with
// `return e.ok()`.
func (e *ValidationError) ok() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// ConflictError indicates a uniqueness violation at the storage layer.
type ConflictError struct {
	Key string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("duplicate key: %s", e.Key)
}
