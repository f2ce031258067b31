package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"

	"time-tagger/internal/errors"
	"time-tagger/internal/validation"
)

// ErrorHandler turns service errors into messages for the terminal. System
// faults are logged with their code before the detail is dropped.
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates an error handler; a nil logger disables logging
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle prefixes the user message with the failed operation
func (eh *ErrorHandler) Handle(operation string, err error) error {
	err = timedOut(operation, err)
	eh.log(operation, err)
	if validationErr, ok := err.(*validation.ValidationError); ok {
		return fmt.Errorf("failed to %s: %s", operation, validationErr.GetUserFriendlyMessage())
	}

	if _, ok := errors.AsAppError(err); ok {
		return fmt.Errorf("failed to %s: %s", operation, errors.GetUserMessage(err))
	}

	return fmt.Errorf("failed to %s: %w", operation, err)
}

// HandleSimple returns the user message without operation context
func (eh *ErrorHandler) HandleSimple(err error) error {
	err = timedOut("command", err)
	eh.log("command", err)
	if validationErr, ok := err.(*validation.ValidationError); ok {
		return fmt.Errorf("%s", validationErr.GetUserFriendlyMessage())
	}

	if _, ok := errors.AsAppError(err); ok {
		return fmt.Errorf("%s", errors.GetUserMessage(err))
	}

	return err
}

func (eh *ErrorHandler) log(operation string, err error) {
	if eh.logger == nil || eh.IsValidationError(err) || !errors.ShouldLogError(err) {
		return
	}
	eh.logger.Error("operation failed",
		"operation", operation,
		"code", eh.GetErrorCode(err),
		"database", eh.IsDatabaseError(err),
		"error", err)
}

// timedOut replaces an expired deadline with a timeout error
func timedOut(operation string, err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) {
		if _, ok := errors.AsAppError(err); !ok {
			return errors.NewTimeoutError(operation, "deadline exceeded")
		}
	}
	return err
}

// IsValidationError checks if an error is a validation error
func (eh *ErrorHandler) IsValidationError(err error) bool {
	return validation.IsValidationError(err)
}

// IsDatabaseError checks if an error is a database error
func (eh *ErrorHandler) IsDatabaseError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeDatabase)
}

// GetErrorCode returns the error code for structured errors
func (eh *ErrorHandler) GetErrorCode(err error) string {
	return errors.GetErrorCode(err)
}
