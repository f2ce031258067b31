package report

import (
	"fmt"
	"time"
)

// Period names the secondary grouping of a report.
type Period string

const (
	PeriodNone    Period = "none"
	PeriodDay     Period = "day"
	PeriodWeek    Period = "week"
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"
)

// periodOf returns the label of the period containing t and the start of
// that period. t must already be in the report's location.
func periodOf(p Period, t time.Time) (string, time.Time) {
	y, m, d := t.Date()
	loc := t.Location()
	switch p {
	case PeriodWeek:
		isoYear, week := t.ISOWeek()
		offset := (int(t.Weekday()) + 6) % 7
		return fmt.Sprintf("%dW%d", isoYear, week), time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
	case PeriodMonth:
		return t.Format("Jan 2006"), time.Date(y, m, 1, 0, 0, 0, 0, loc)
	case PeriodQuarter:
		q := (int(m)-1)/3 + 1
		return fmt.Sprintf("%dQ%d", y, q), time.Date(y, time.Month(3*q-2), 1, 0, 0, 0, 0, loc)
	case PeriodYear:
		return fmt.Sprintf("%d", y), time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
	default:
		return t.Format("2006-01-02"), time.Date(y, m, d, 0, 0, 0, 0, loc)
	}
}
