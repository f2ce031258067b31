package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "time-tagger/internal/errors"
	"time-tagger/internal/validation"
)

func TestErrorHandler_Handle(t *testing.T) {
	eh := NewErrorHandler(nil)

	tests := []struct {
		name      string
		operation string
		err       error
		expected  string
	}{
		{
			name:      "invalid input",
			operation: "generate report",
			err:       apperrors.NewInvalidInputError("range", "5x", "expected today or <n>d, <n>w, <n>mo, <n>y"),
			expected:  "failed to generate report: invalid input for range: expected today or <n>d, <n>w, <n>mo, <n>y",
		},
		{
			name:      "row error",
			operation: "import",
			err:       apperrors.NewRowError(3, "invalid start time", ""),
			expected:  "failed to import: Import failed: row 3: invalid start time",
		},
		{
			name:      "database error",
			operation: "export records",
			err:       apperrors.NewDatabaseError("select", errors.New("locked")),
			expected:  "failed to export records: A database error occurred. Please try again.",
		},
		{
			name:      "deadline",
			operation: "generate report",
			err:       fmt.Errorf("query: %w", context.DeadlineExceeded),
			expected:  "failed to generate report: The operation timed out. Please try again.",
		},
		{
			name:      "regular error",
			operation: "process",
			err:       errors.New("regular error"),
			expected:  "failed to process: regular error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.EqualError(t, eh.Handle(tt.operation, tt.err), tt.expected)
		})
	}
}

func TestErrorHandler_HandleSimple(t *testing.T) {
	eh := NewErrorHandler(nil)

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "empty input",
			err:      apperrors.NewEmptyInputError("No data"),
			expected: "Import failed: No data",
		},
		{
			name:     "superseded",
			err:      apperrors.NewSupersededError("import"),
			expected: "Import was replaced by a newer import.",
		},
		{
			name:     "timeout",
			err:      apperrors.NewTimeoutError("import", "60s"),
			expected: "The operation timed out. Please try again.",
		},
		{
			name:     "regular error",
			err:      errors.New("regular error"),
			expected: "regular error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.EqualError(t, eh.HandleSimple(tt.err), tt.expected)
		})
	}
}

func TestErrorHandler_Classification(t *testing.T) {
	eh := NewErrorHandler(nil)
	invalid := &validation.ValidationError{
		Errors: []validation.FieldError{{Field: "from", Message: "invalid"}},
	}

	assert.True(t, eh.IsValidationError(invalid))
	assert.False(t, eh.IsValidationError(errors.New("plain")))

	assert.True(t, eh.IsDatabaseError(apperrors.NewDatabaseError("insert", nil)))
	assert.False(t, eh.IsDatabaseError(invalid))

	assert.Equal(t, "ROW_ERROR", eh.GetErrorCode(apperrors.NewRowError(1, "bad", "")))
	assert.Equal(t, "UNKNOWN_ERROR", eh.GetErrorCode(errors.New("plain")))
}

func TestErrorHandler_LogsSystemFaults(t *testing.T) {
	var buf bytes.Buffer
	eh := NewErrorHandler(slog.New(slog.NewTextHandler(&buf, nil)))

	_ = eh.Handle("import", apperrors.NewRowError(2, "invalid start time", ""))
	_ = eh.HandleSimple(apperrors.NewSchemaError("Need a start column"))
	assert.Empty(t, buf.String(), "input problems are not logged")

	_ = eh.Handle("export records", apperrors.NewDatabaseError("select", errors.New("locked")))
	assert.Contains(t, buf.String(), "operation failed")
	assert.Contains(t, buf.String(), "operation=\"export records\"")
	assert.Contains(t, buf.String(), "code=DATABASE_ERROR")
	assert.Contains(t, buf.String(), "database=true")
}
