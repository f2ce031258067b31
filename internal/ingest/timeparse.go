package ingest

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// yearPastEpoch separates Unix timestamps from small numbers such as "9.30".
const yearPastEpoch = 31536000

// dateTimeLayouts are tried in order for free-form start and stop values.
// Layouts without a zone are read in the importer's location.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006/01/02",
	"Jan 2, 2006 15:04:05",
	"Jan 2, 2006",
	"Mon Jan 2 15:04:05 2006",
	time.RFC1123Z,
	time.RFC1123,
}

// clockLayouts read a date joined with a time-of-day fragment.
var clockLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// parseNumber reads a plain number.
func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// parseDateTime reads a generic date-time string into Unix seconds.
func parseDateTime(s string, loc *time.Location) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return float64(t.UnixNano()) / 1e9, true
		}
	}
	return 0, false
}

// parseTimestamp reads either a Unix timestamp or a generic date-time string.
func parseTimestamp(s string, loc *time.Location) (float64, bool) {
	if v, ok := parseNumber(s); ok && v > yearPastEpoch {
		return v, true
	}
	return parseDateTime(s, loc)
}

// normalizeDate accepts yyyy-mm-dd and dd-mm-yyyy, with dashes or dots, and
// returns yyyy-mm-dd. It returns "" for anything else.
func normalizeDate(s string) string {
	date := strings.ReplaceAll(s, ".", "-")
	if len(date) != 10 || strings.Count(date, "-") != 2 {
		return ""
	}
	parts := strings.Split(date, "-")
	if len(parts[2]) == 4 {
		parts[0], parts[2] = parts[2], parts[0]
		date = strings.Join(parts, "-")
	}
	return date
}

// parseDateAndClock combines a yyyy-mm-dd date with a time of day such as
// "9:30", "09.30" or "09:30:15".
func parseDateAndClock(date, clock string, loc *time.Location) (float64, bool) {
	if date == "" {
		return 0, false
	}
	clock = strings.ReplaceAll(strings.TrimSpace(clock), ".", ":")
	if len(clock) < 4 || len(clock) > 8 {
		return 0, false
	}
	if n := strings.Count(clock, ":"); n < 1 || n > 2 {
		return 0, false
	}
	for _, layout := range clockLayouts {
		if t, err := time.ParseInLocation(layout, date+" "+clock, loc); err == nil {
			return float64(t.Unix()), true
		}
	}
	return 0, false
}

// parseDuration reads seconds, H:MM or H:MM:SS into seconds.
func parseDuration(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, ":") {
		return parseNumber(s)
	}

	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, false
	}
	weights := []float64{3600, 60, 1}
	total := 0.0
	for i, part := range parts {
		v, ok := parseNumber(part)
		if !ok {
			return 0, false
		}
		total += v * weights[i]
	}
	return total, true
}
