package validation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		build    func(ve *ValidationError)
		expected string
	}{
		{"empty", func(ve *ValidationError) {}, "invalid input"},
		{"single", func(ve *ValidationError) { ve.Format("from", "01/02", "YYYY-MM-DD") }, "from: expected YYYY-MM-DD"},
		{"several", func(ve *ValidationError) {
			ve.Value("group", "x", "must be one of none, tagz, ds")
			ve.Length("ds", 5000, 4096)
		}, "group: must be one of none, tagz, ds; ds: longer than 4096 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ve := NewValidationError()
			tt.build(ve)
			assert.Equal(t, tt.expected, ve.Error())
		})
	}
}

func TestValidationError_Err(t *testing.T) {
	ve := NewValidationError()
	assert.False(t, ve.HasErrors())
	assert.NoError(t, ve.Err())

	ve.Character("ds", "a\x00b")
	assert.True(t, ve.HasErrors())
	require.Error(t, ve.Err())
	assert.Equal(t, KindCharacter, ve.Errors[0].Kind)
	assert.Equal(t, "a\x00b", ve.Errors[0].Value)
}

func TestIsValidationError(t *testing.T) {
	ve := NewValidationError()
	ve.Range("to", "2024-01-01", "end date must not be before start date")

	assert.True(t, IsValidationError(ve))
	assert.True(t, IsValidationError(fmt.Errorf("report: %w", ve)))
	assert.False(t, IsValidationError(fmt.Errorf("plain")))
}

func TestValidationError_GetFieldErrors(t *testing.T) {
	ve := NewValidationError()
	ve.Format("from", "x", "YYYY-MM-DD")
	ve.Format("to", "y", "YYYY-MM-DD")
	ve.Range("to", "y", "end date must not be before start date")

	assert.Len(t, ve.GetFieldErrors("to"), 2)
	assert.Len(t, ve.GetFieldErrors("from"), 1)
	assert.Empty(t, ve.GetFieldErrors("range"))
}

func TestValidationError_GetUserFriendlyMessage(t *testing.T) {
	ve := NewValidationError()
	assert.Equal(t, "Input validation failed", ve.GetUserFriendlyMessage())

	ve.Value("period", "fortnight", "must be one of none, day, week, month, quarter, year")
	assert.Equal(t, "period: must be one of none, day, week, month, quarter, year", ve.GetUserFriendlyMessage())

	ve.Value("format", "hh", "must be one of h, h.1, h.2, h.3, h:mm, h:mm:ss")
	assert.Equal(t,
		"Invalid input:\n- period: must be one of none, day, week, month, quarter, year\n- format: must be one of h, h.1, h.2, h.3, h:mm, h:mm:ss",
		ve.GetUserFriendlyMessage())
}
