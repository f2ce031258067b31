package report

import (
	"fmt"
	"math"
	"strconv"
)

// Format names how durations are rounded and written.
type Format string

const (
	FormatHours      Format = "h"
	FormatHours1     Format = "h.1"
	FormatHours2     Format = "h.2"
	FormatHours3     Format = "h.3"
	FormatHourMinute Format = "h:mm"
	FormatHourMinSec Format = "h:mm:ss"
)

// durationFormat pairs the rounding applied to every record with the way the
// rounded seconds are written.
type durationFormat struct {
	round  func(seconds float64) float64
	format func(seconds float64) string
}

var formats = map[Format]durationFormat{
	FormatHours:      {roundTo(3600), hours(0)},
	FormatHours1:     {roundTo(360), hours(1)},
	FormatHours2:     {roundTo(36), hours(2)},
	FormatHours3:     {roundTo(3.6), hours(3)},
	FormatHourMinute: {roundTo(60), colon(false)},
	FormatHourMinSec: {roundTo(1), colon(true)},
}

// lookupFormat returns the pair for f, falling back to h:mm.
func lookupFormat(f Format) durationFormat {
	if df, ok := formats[f]; ok {
		return df
	}
	return formats[FormatHourMinute]
}

// FormatDuration writes seconds the way a report in format f would, without
// rounding first.
func FormatDuration(f Format, seconds float64) string {
	return lookupFormat(f).format(seconds)
}

// roundHalfUp rounds .5 away from minus infinity.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

func roundTo(granularity float64) func(float64) float64 {
	return func(seconds float64) float64 {
		return roundHalfUp(seconds/granularity) * granularity
	}
}

func hours(decimals int) func(float64) string {
	return func(seconds float64) string {
		return strconv.FormatFloat(seconds/3600, 'f', decimals, 64)
	}
}

func colon(withSeconds bool) func(float64) string {
	return func(seconds float64) string {
		s := int64(roundHalfUp(seconds))
		h, m := s/3600, (s/60)%60
		if withSeconds {
			return fmt.Sprintf("%d:%02d:%02d", h, m, s%60)
		}
		return fmt.Sprintf("%d:%02d", h, m)
	}
}
