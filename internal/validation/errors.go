package validation

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a FieldError
type Kind string

const (
	KindFormat    Kind = "format"
	KindLength    Kind = "length"
	KindValue     Kind = "value"
	KindRange     Kind = "range"
	KindCharacter Kind = "character"
)

// FieldError is a problem with one field of a record or report request
type FieldError struct {
	Field   string
	Kind    Kind
	Message string
	Value   interface{}
}

func (fe FieldError) Error() string {
	return fe.Field + ": " + fe.Message
}

// ValidationError collects every FieldError found in one pass, so a record
// or request is reported once with all of its problems.
type ValidationError struct {
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	switch len(ve.Errors) {
	case 0:
		return "invalid input"
	case 1:
		return ve.Errors[0].Error()
	}
	msgs := make([]string, len(ve.Errors))
	for i, fe := range ve.Errors {
		msgs[i] = fe.Error()
	}
	return strings.Join(msgs, "; ")
}

// NewValidationError creates an empty collection
func NewValidationError() *ValidationError {
	return &ValidationError{}
}

// IsValidationError checks if an error is, or wraps, a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Err returns ve, or nil when nothing was recorded
func (ve *ValidationError) Err() error {
	if !ve.HasErrors() {
		return nil
	}
	return ve
}

// HasErrors returns true if any field failed
func (ve *ValidationError) HasErrors() bool {
	return len(ve.Errors) > 0
}

func (ve *ValidationError) add(field string, kind Kind, value interface{}, message string) {
	ve.Errors = append(ve.Errors, FieldError{Field: field, Kind: kind, Message: message, Value: value})
}

// Format records a value that does not match layout
func (ve *ValidationError) Format(field string, value interface{}, layout string) {
	ve.add(field, KindFormat, value, "expected "+layout)
}

// Length records a text longer than max characters
func (ve *ValidationError) Length(field string, length, max int) {
	ve.add(field, KindLength, length, fmt.Sprintf("longer than %d characters", max))
}

// Value records a value outside the accepted set
func (ve *ValidationError) Value(field string, value interface{}, reason string) {
	ve.add(field, KindValue, value, reason)
}

// Range records a value that is ordered wrongly against another field
func (ve *ValidationError) Range(field string, value interface{}, reason string) {
	ve.add(field, KindRange, value, reason)
}

// Character records text containing control characters
func (ve *ValidationError) Character(field string, value interface{}) {
	ve.add(field, KindCharacter, value, "contains control characters")
}

// GetFieldErrors returns all errors for a specific field
func (ve *ValidationError) GetFieldErrors(field string) []FieldError {
	var out []FieldError
	for _, fe := range ve.Errors {
		if fe.Field == field {
			out = append(out, fe)
		}
	}
	return out
}

// GetUserFriendlyMessage lists the problems one per line
func (ve *ValidationError) GetUserFriendlyMessage() string {
	switch len(ve.Errors) {
	case 0:
		return "Input validation failed"
	case 1:
		return ve.Errors[0].Error()
	}
	lines := make([]string, len(ve.Errors))
	for i, fe := range ve.Errors {
		lines[i] = "- " + fe.Error()
	}
	return "Invalid input:\n" + strings.Join(lines, "\n")
}
