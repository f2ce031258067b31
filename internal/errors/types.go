package errors

import (
	"fmt"
)

// ErrorType represents the category of error
type ErrorType int

const (
	ErrorTypeNotFound ErrorType = iota
	ErrorTypeDatabase
	ErrorTypeInvalidInput
	ErrorTypeTimeout
	ErrorTypeSchema
	ErrorTypeEmptyInput
	ErrorTypeRow
	ErrorTypeSuperseded
)

var typeNames = [...]string{
	ErrorTypeNotFound:     "not_found",
	ErrorTypeDatabase:     "database",
	ErrorTypeInvalidInput: "invalid_input",
	ErrorTypeTimeout:      "timeout",
	ErrorTypeSchema:       "schema",
	ErrorTypeEmptyInput:   "empty_input",
	ErrorTypeRow:          "row",
	ErrorTypeSuperseded:   "superseded",
}

func (et ErrorType) String() string {
	if et < 0 || int(et) >= len(typeNames) {
		return "unknown"
	}
	return typeNames[et]
}

// IsInputProblem reports types caused by what the user supplied rather than
// by the system. Such errors are shown but not logged.
func (et ErrorType) IsInputProblem() bool {
	switch et {
	case ErrorTypeNotFound, ErrorTypeInvalidInput, ErrorTypeSchema,
		ErrorTypeEmptyInput, ErrorTypeRow, ErrorTypeSuperseded:
		return true
	}
	return false
}

// AppError is a categorised error. Context carries machine readable details
// such as the failing row number.
type AppError struct {
	Type    ErrorType
	Message string
	Code    string
	Cause   error
	Context map[string]interface{}
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches another AppError of the same type and code, so sentinel values
// can be compared with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && e.Type == t.Type && e.Code == t.Code
}

// IsType checks if this error is of the specified type
func (e *AppError) IsType(errorType ErrorType) bool {
	return e.Type == errorType
}

// WithContext adds a detail and returns e for chaining
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// GetContext retrieves a detail added with WithContext
func (e *AppError) GetContext(key string) (interface{}, bool) {
	value, ok := e.Context[key]
	return value, ok
}
