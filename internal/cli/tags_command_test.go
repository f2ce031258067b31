package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"time-tagger/internal/api"
	apperrors "time-tagger/internal/errors"
)

func TestTagsCommand_List(t *testing.T) {
	ctx := context.Background()

	t.Run("aligned with secondary marker", func(t *testing.T) {
		app := setupTestAppWithMockBusinessAPI(t, "")
		app.mock.tags = []api.TagSuggestion{
			{Tag: "#meeting", LastUsed: 1705314600},
			{Tag: "#aa", LastUsed: 1705309200},
		}
		app.mock.priorities["#meeting"] = 2

		err := NewTagsCommand(app.App).List(ctx, true)
		require.NoError(t, err)

		assert.True(t, app.mock.lastRebuild)
		assert.Equal(t,
			"#meeting  2024-01-15 10:30:00  secondary\n"+
				"#aa       2024-01-15 09:00:00\n",
			app.out.String())
	})

	t.Run("no tags", func(t *testing.T) {
		app := setupTestAppWithMockBusinessAPI(t, "")

		err := NewTagsCommand(app.App).List(ctx, false)
		require.NoError(t, err)
		assert.Equal(t, "No tags found.\n", app.out.String())
	})
}

func TestTagsCommand_SetPriority(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		args     []string
		expected string
		errType  *apperrors.ErrorType
	}{
		{name: "secondary", args: []string{"#Meeting", "2"}, expected: "#meeting is now secondary\n"},
		{name: "primary", args: []string{"client", "1"}, expected: "#client is now primary\n"},
		{name: "not a number", args: []string{"#aa", "high"}, errType: ptr(apperrors.ErrorTypeInvalidInput)},
		{name: "out of range", args: []string{"#aa", "3"}},
		{name: "missing priority", args: []string{"#aa"}, errType: ptr(apperrors.ErrorTypeInvalidInput)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := setupTestAppWithMockBusinessAPI(t, "")

			err := NewTagsCommand(app.App).SetPriority(ctx, tt.args)
			if tt.expected == "" {
				require.Error(t, err)
				if tt.errType != nil {
					assert.True(t, apperrors.IsErrorType(err, *tt.errType))
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, app.out.String())
		})
	}
}

func ptr[T any](v T) *T {
	return &v
}
