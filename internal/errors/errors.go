package errors

import (
	"errors"
	"fmt"
)

func newError(t ErrorType, code, message string, cause error) *AppError {
	return &AppError{
		Type:    t,
		Message: message,
		Code:    code,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewNotFoundError reports a missing record or tag
func NewNotFoundError(resource string, identifier string) *AppError {
	return newError(ErrorTypeNotFound, "NOT_FOUND", fmt.Sprintf("%s not found: %s", resource, identifier), nil).
		WithContext("resource", resource).
		WithContext("identifier", identifier)
}

// NewDatabaseError wraps a failed storage operation
func NewDatabaseError(operation string, cause error) *AppError {
	return newError(ErrorTypeDatabase, "DATABASE_ERROR", "database operation failed: "+operation, cause).
		WithContext("operation", operation)
}

// NewInvalidInputError reports a bad argument or flag value
func NewInvalidInputError(field string, value interface{}, reason string) *AppError {
	return newError(ErrorTypeInvalidInput, "INVALID_INPUT", fmt.Sprintf("invalid input for %s: %s", field, reason), nil).
		WithContext("field", field).
		WithContext("value", value).
		WithContext("reason", reason)
}

// NewTimeoutError reports an operation that ran past its deadline
func NewTimeoutError(operation string, timeout interface{}) *AppError {
	return newError(ErrorTypeTimeout, "TIMEOUT", "operation timed out: "+operation, nil).
		WithContext("operation", operation).
		WithContext("timeout", timeout)
}

// NewSchemaError reports a header that cannot be mapped onto a record.
func NewSchemaError(reason string) *AppError {
	return newError(ErrorTypeSchema, "SCHEMA_ERROR", reason, nil).
		WithContext("reason", reason)
}

// NewEmptyInputError reports input that has no usable header line.
func NewEmptyInputError(reason string) *AppError {
	return newError(ErrorTypeEmptyInput, "EMPTY_INPUT", reason, nil)
}

// NewRowError reports a failure on a single data row. The row number is
// 1-based, counted from the first line after the header. dump is an
// optional rendering of the offending record.
func NewRowError(row int, reason string, dump string) *AppError {
	msg := fmt.Sprintf("row %d: %s", row, reason)
	if dump != "" {
		msg = fmt.Sprintf("%s: %s", msg, dump)
	}
	e := newError(ErrorTypeRow, "ROW_ERROR", msg, nil).
		WithContext("row", row).
		WithContext("reason", reason)
	if dump != "" {
		e.WithContext("record", dump)
	}
	return e
}

// NewSupersededError reports a run that was abandoned because a newer one started.
func NewSupersededError(operation string) *AppError {
	return newError(ErrorTypeSuperseded, "SUPERSEDED", operation+" superseded by a newer run", nil).
		WithContext("operation", operation)
}

// AsAppError converts an error to an AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsErrorType checks if the error is of the specified type
func IsErrorType(err error, errorType ErrorType) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.IsType(errorType)
}

// GetUserMessage returns the message to show on the terminal
func GetUserMessage(err error) string {
	appErr, ok := AsAppError(err)
	if !ok {
		return err.Error()
	}
	switch appErr.Type {
	case ErrorTypeNotFound, ErrorTypeInvalidInput:
		return appErr.Message
	case ErrorTypeSchema, ErrorTypeEmptyInput, ErrorTypeRow:
		return "Import failed: " + appErr.Message
	case ErrorTypeSuperseded:
		return "Import was replaced by a newer import."
	case ErrorTypeDatabase:
		return "A database error occurred. Please try again."
	case ErrorTypeTimeout:
		return "The operation timed out. Please try again."
	default:
		return "An unexpected error occurred. Please try again."
	}
}

// GetErrorCode returns the error code for the error
func GetErrorCode(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return "UNKNOWN_ERROR"
}

// ShouldLogError reports whether err points at a system fault worth logging
func ShouldLogError(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return !appErr.Type.IsInputProblem()
	}
	return true
}
