package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError is a single failing field reported by boundary validation.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// ValidationError represents structured input that failed boundary validation.
type ValidationError struct {
	Fields []FieldError
	Cause  error
}

// NewValidationError converts a validator error into a ValidationError.
func NewValidationError(err error) *ValidationError {
	ve := &ValidationError{Cause: err}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			ve.Fields = append(ve.Fields, FieldError{Field: fe.Namespace(), Rule: fe.Tag()})
		}
	}
	return ve
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		if e.Cause != nil {
			return fmt.Sprintf("invalid resume data: %v", e.Cause)
		}
		return "invalid resume data"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" ("+f.Rule+")")
	}
	return "invalid resume data: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}
