package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixNow(t *testing.T, now time.Time) {
	saved := timeNow
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = saved })
}

func TestTimeService_ParseRange(t *testing.T) {
	fixNow(t, time.Date(2024, time.March, 10, 15, 0, 0, 0, time.UTC))

	tests := []struct {
		name      string
		shorthand string
		expected  *DateRange
		wantErr   bool
	}{
		{name: "should default to today", shorthand: "", expected: &DateRange{From: "2024-03-10", To: "2024-03-10"}},
		{name: "should parse today", shorthand: "today", expected: &DateRange{From: "2024-03-10", To: "2024-03-10"}},
		{name: "should parse one day", shorthand: "1d", expected: &DateRange{From: "2024-03-10", To: "2024-03-10"}},
		{name: "should parse three days", shorthand: "3d", expected: &DateRange{From: "2024-03-08", To: "2024-03-10"}},
		{name: "should parse two weeks", shorthand: "2w", expected: &DateRange{From: "2024-02-26", To: "2024-03-10"}},
		{name: "should parse one month", shorthand: "1mo", expected: &DateRange{From: "2024-02-11", To: "2024-03-10"}},
		{name: "should parse one year", shorthand: "1y", expected: &DateRange{From: "2023-03-11", To: "2024-03-10"}},
		{name: "should reject zero", shorthand: "0d", wantErr: true},
		{name: "should reject unknown unit", shorthand: "5h", wantErr: true},
		{name: "should reject garbage", shorthand: "lately", wantErr: true},
	}

	service := NewTimeService(time.UTC)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := service.ParseRange(tt.shorthand)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestTimeService_FormatTimestamp(t *testing.T) {
	berlin := time.FixedZone("CET", 3600)
	service := NewTimeService(berlin)
	ts := int64(1705309200) // 2024-01-15 09:00 UTC

	assert.Equal(t, "1705309200", service.FormatTimestamp(ts, DateTimeUnix))
	assert.Equal(t, "2024-01-15T09:00:00Z", service.FormatTimestamp(ts, DateTimeISO))
	assert.Equal(t, "2024-01-15 10:00:00", service.FormatTimestamp(ts, DateTimeLocal))
	assert.Equal(t, "2024-01-15", service.FormatDate(ts))
}

func TestTimeService_Today(t *testing.T) {
	fixNow(t, time.Date(2024, time.March, 10, 23, 30, 0, 0, time.UTC))

	assert.Equal(t, "2024-03-10", NewTimeService(time.UTC).Today())
	assert.Equal(t, "2024-03-11", NewTimeService(time.FixedZone("X", 3600)).Today())
}
