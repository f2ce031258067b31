package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDebugEnabled(t *testing.T) {
	tests := []struct {
		value    string
		expected bool
	}{
		{"", false},
		{"1", true},
		{"true", true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("TG_DEBUG", tt.value)
			assert.Equal(t, tt.expected, DebugEnabled())
		})
	}
}

func TestTracef(t *testing.T) {
	var buf bytes.Buffer
	prev := SetTraceOutput(&buf)
	defer SetTraceOutput(prev)

	t.Setenv("TG_DEBUG", "")
	Tracef("ingest", "row %d", 1)
	assert.Empty(t, buf.String())

	t.Setenv("TG_DEBUG", "1")
	Tracef("ingest", "row %d: %q", 2, []string{"a", "b"})
	assert.Equal(t, "[ingest] row 2: [\"a\" \"b\"]\n", buf.String())
}
